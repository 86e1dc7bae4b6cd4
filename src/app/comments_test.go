package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"fakeddit/src/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, backend *fakeBackend, confirm Confirmer) *CommentTree {
	t.Helper()
	tree := NewCommentTree(backend, loggedIn(t, "u1"), confirm, "p1")
	require.NoError(t, tree.Load(context.Background()))
	return tree
}

func TestCommentTreeAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendsAndSurvivesReload", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, nil)
		for _, content := range []string{"first", "second", "  padded  "} {
			created, err := tree.AddComment(ctx, content)
			require.NoError(t, err)
			assert.Equal(t, api.ID("u1"), created.OwnerID)

			require.NoError(t, tree.Load(ctx))
			comments := tree.Comments()
			assert.Equal(t, content, comments[len(comments)-1].Content)
		}
		assert.Len(t, tree.Comments(), 3)
	})

	t.Run("BlankContentNeverSent", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, nil)
		_, err := tree.AddComment(ctx, "seed")
		require.NoError(t, err)
		before := tree.Comments()
		callsBefore := backend.TotalCalls()

		for _, blank := range []string{"", " ", "\t\n", "   \r\n  "} {
			_, err := tree.AddComment(ctx, blank)
			var validation *ValidationError
			assert.True(t, errors.As(err, &validation), "comment %q", blank)

			_, err = tree.AddReply(ctx, before[0].ID, blank)
			assert.True(t, errors.As(err, &validation), "reply %q", blank)
		}
		assert.Equal(t, callsBefore, backend.TotalCalls())
		assert.Equal(t, before, tree.Comments())
	})

	t.Run("FailureLeavesTreeUnchanged", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, nil)
		backend.FailWith("AddComment", &api.Error{Status: http.StatusInternalServerError, Body: "boom"})
		_, err := tree.AddComment(ctx, "lost")
		assert.Error(t, err)
		assert.Empty(t, tree.Comments())
	})

	t.Run("LoggedOut", func(t *testing.T) {
		backend := newFakeBackend()
		tree := NewCommentTree(backend, loggedOut(), nil, "p1")
		_, err := tree.AddComment(ctx, "hello")
		var auth *AuthError
		assert.True(t, errors.As(err, &auth))
		assert.Zero(t, backend.Calls("AddComment"))
	})
}

func TestCommentTreeEditDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("EditReplacesContentOnly", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, nil)
		created, err := tree.AddComment(ctx, "draft")
		require.NoError(t, err)

		require.NoError(t, tree.EditComment(ctx, created.ID, "final"))
		got := tree.Comments()[0]
		assert.Equal(t, "final", got.Content)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.OwnerID, got.OwnerID)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("DeleteRequiresConfirmation", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, NeverConfirm)
		created, err := tree.AddComment(ctx, "keep me")
		require.NoError(t, err)

		assert.ErrorIs(t, tree.DeleteComment(ctx, created.ID), ErrDeclined)
		assert.Zero(t, backend.Calls("DeleteComment"))
		assert.Len(t, tree.Comments(), 1)
	})

	t.Run("DeleteConfirmed", func(t *testing.T) {
		backend := newFakeBackend()
		var prompts []string
		confirm := ConfirmFunc(func(_ context.Context, prompt string) bool {
			prompts = append(prompts, prompt)
			return true
		})
		tree := newTree(t, backend, confirm)
		a, _ := tree.AddComment(ctx, "a")
		b, _ := tree.AddComment(ctx, "b")

		require.NoError(t, tree.DeleteComment(ctx, a.ID))
		assert.Len(t, prompts, 1)
		comments := tree.Comments()
		require.Len(t, comments, 1)
		assert.Equal(t, b.ID, comments[0].ID)
	})

	t.Run("UnknownIDLeavesTreeUnchanged", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, AlwaysConfirm)
		_, err := tree.AddComment(ctx, "only")
		require.NoError(t, err)
		before := tree.Comments()

		assert.ErrorIs(t, tree.DeleteComment(ctx, "missing"), ErrNotFound)
		assert.ErrorIs(t, tree.EditComment(ctx, "missing", "x"), ErrNotFound)
		assert.ErrorIs(t, tree.DeleteReply(ctx, before[0].ID, "missing"), ErrNotFound)
		assert.ErrorIs(t, tree.EditReply(ctx, "missing", "missing", "x"), ErrNotFound)
		assert.Equal(t, before, tree.Comments())
		assert.Zero(t, backend.Calls("DeleteComment"))
	})

	t.Run("BackendRejectionIsAuthoritative", func(t *testing.T) {
		backend := newFakeBackend()
		tree := newTree(t, backend, AlwaysConfirm)
		created, _ := tree.AddComment(ctx, "mine")
		backend.FailWith("DeleteComment", &api.Error{Status: http.StatusForbidden, Body: "Not your comment"})

		err := tree.DeleteComment(ctx, created.ID)
		msg, redirect := Describe(err)
		assert.Equal(t, "Not your comment", msg)
		assert.Equal(t, LoginRoute, redirect)
		assert.Len(t, tree.Comments(), 1)
	})
}

func TestCommentTreeReplies(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	tree := newTree(t, backend, AlwaysConfirm)
	parent, err := tree.AddComment(ctx, "parent")
	require.NoError(t, err)

	r1, err := tree.AddReply(ctx, parent.ID, "one")
	require.NoError(t, err)
	r2, err := tree.AddReply(ctx, parent.ID, "two")
	require.NoError(t, err)

	replies := tree.Comments()[0].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, []api.ID{r1.ID, r2.ID}, []api.ID{replies[0].ID, replies[1].ID})

	require.NoError(t, tree.EditReply(ctx, parent.ID, r1.ID, "uno"))
	assert.Equal(t, "uno", tree.Comments()[0].Replies[0].Content)

	require.NoError(t, tree.DeleteReply(ctx, parent.ID, r1.ID))
	replies = tree.Comments()[0].Replies
	require.Len(t, replies, 1)
	assert.Equal(t, r2.ID, replies[0].ID)

	_, err = tree.AddReply(ctx, "missing", "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentTreeSnapshotIsolated(t *testing.T) {
	ctx := context.Background()
	tree := newTree(t, newFakeBackend(), nil)
	parent, _ := tree.AddComment(ctx, "parent")
	_, _ = tree.AddReply(ctx, parent.ID, "reply")

	snapshot := tree.Comments()
	snapshot[0].Content = "changed"
	snapshot[0].Replies[0].Content = "changed"

	fresh := tree.Comments()
	assert.Equal(t, "parent", fresh[0].Content)
	assert.Equal(t, "reply", fresh[0].Replies[0].Content)
}

func TestCommentTreeCanModify(t *testing.T) {
	ctx := context.Background()
	tree := NewCommentTree(newFakeBackend(), loggedIn(t, "u1"), nil, "p1")
	assert.True(t, tree.CanModify(ctx, "u1"))
	assert.False(t, tree.CanModify(ctx, "u2"))

	anonymous := NewCommentTree(newFakeBackend(), loggedOut(), nil, "p1")
	assert.False(t, anonymous.CanModify(ctx, ""))
}

func TestCommentTreeClosedDiscardsResponses(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	tree := newTree(t, backend, nil)
	tree.Close()

	assert.ErrorIs(t, tree.Load(ctx), ErrStale)
	_, err := tree.AddComment(ctx, "late")
	require.NoError(t, err)
	assert.Empty(t, tree.Comments())
}

func TestCommentTreeViews(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.comments["p1"] = []api.Comment{
		{ID: "c1", Content: "theirs", OwnerID: "u2", Replies: []api.Reply{
			{ID: "r1", Content: "mine", OwnerID: "u1"},
			{ID: "r2", Content: "theirs too", OwnerID: "u2"},
		}},
		{ID: "c2", Content: "mine", OwnerID: "u1"},
	}
	tree := newTree(t, backend, nil)

	views := tree.Views(ctx)
	require.Len(t, views, 2)
	assert.False(t, views[0].CanModify)
	require.Len(t, views[0].Replies, 2)
	assert.True(t, views[0].Replies[0].CanModify)
	assert.False(t, views[0].Replies[1].CanModify)
	assert.True(t, views[1].CanModify)
	assert.NotNil(t, views[1].Replies)
	assert.Empty(t, views[1].Replies)

	encoded, err := json.Marshal(tree.Comments())
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), `"replies":null`)
}

func TestValidateContent(t *testing.T) {
	for _, blank := range []string{"", " ", "\t", "\r\n "} {
		var validation *ValidationError
		assert.True(t, errors.As(ValidateContent(blank), &validation), "%q", blank)
	}
	assert.NoError(t, ValidateContent(" x "))
}
