package app

import (
	"context"
	"strings"
	"sync"

	"fakeddit/src/api"

	log "github.com/sirupsen/logrus"
)

// CommentTree is the local view of one post's comments and their replies.
//
// Local state changes only after the backend confirms a mutation, so a failed call
// leaves the tree as it was and nothing needs rolling back.
type CommentTree struct {
	backend Backend
	session *Session
	confirm Confirmer
	postID  api.ID

	mu         sync.Mutex
	comments   []api.Comment
	generation uint64
	closed     bool
}

// CommentView is a comment as the page shows it, with the owner-only controls flagged.
type (
	CommentView struct {
		ID        api.ID        `json:"id" yaml:"id"`
		PostID    api.ID        `json:"postId,omitempty" yaml:"postId,omitempty"`
		Content   string        `json:"content" yaml:"content"`
		OwnerID   api.ID        `json:"ownerId" yaml:"ownerId"`
		CreatedAt api.Timestamp `json:"createdAt" yaml:"createdAt"`
		CanModify bool          `json:"canModify" yaml:"canModify"`
		Replies   []ReplyView   `json:"replies" yaml:"replies"`
	}

	ReplyView struct {
		api.Reply `yaml:",inline"`
		CanModify bool `json:"canModify" yaml:"canModify"`
	}
)

// ValidateContent rejects comment and reply text that is empty after trimming.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content"}
	}
	return nil
}

func NewCommentTree(backend Backend, session *Session, confirm Confirmer, postID api.ID) *CommentTree {
	if confirm == nil {
		confirm = NeverConfirm
	}
	return &CommentTree{
		backend:  backend,
		session:  session,
		confirm:  confirm,
		postID:   postID,
		comments: []api.Comment{},
	}
}

func (t *CommentTree) PostID() api.ID {
	return t.postID
}

// Load replaces the local state with the backend's comment list.
func (t *CommentTree) Load(ctx context.Context) error {
	t.mu.Lock()
	t.generation++
	generation := t.generation
	t.mu.Unlock()

	comments, err := t.backend.ListComments(ctx, t.postID)
	if err != nil {
		log.WithError(err).WithField("post", t.postID).Warn("can not load comments")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || generation != t.generation {
		return ErrStale
	}
	if comments == nil {
		comments = []api.Comment{}
	}
	for i := range comments {
		if comments[i].Replies == nil {
			comments[i].Replies = []api.Reply{}
		}
	}
	t.comments = comments
	return nil
}

// Close marks the view as gone. Responses arriving afterwards are dropped.
func (t *CommentTree) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Comments returns a copy of the current forest.
func (t *CommentTree) Comments() []api.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]api.Comment, len(t.comments))
	for i, c := range t.comments {
		out[i] = c
		out[i].Replies = append([]api.Reply{}, c.Replies...)
	}
	return out
}

// Views returns the current forest with CanModify set for every comment and reply.
func (t *CommentTree) Views(ctx context.Context) []CommentView {
	comments := t.Comments()
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		replies := make([]ReplyView, len(c.Replies))
		for j, r := range c.Replies {
			replies[j] = ReplyView{Reply: r, CanModify: t.CanModify(ctx, r.OwnerID)}
		}
		views[i] = CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			OwnerID:   c.OwnerID,
			CreatedAt: c.CreatedAt,
			CanModify: t.CanModify(ctx, c.OwnerID),
			Replies:   replies,
		}
	}
	return views
}

// CanModify reports whether edit and delete controls should be shown to the viewer.
// The backend still decides whether the action is allowed.
func (t *CommentTree) CanModify(ctx context.Context, ownerID api.ID) bool {
	viewer, err := t.session.CurrentUserID(ctx)
	return err == nil && viewer != "" && viewer == ownerID
}

func (t *CommentTree) AddComment(ctx context.Context, content string) (api.Comment, error) {
	if err := ValidateContent(content); err != nil {
		return api.Comment{}, err
	}
	owner, err := t.session.CurrentUserID(ctx)
	if err != nil {
		return api.Comment{}, err
	}
	created, err := t.backend.AddComment(ctx, t.postID, api.NewComment{Content: content, OwnerID: owner})
	if err != nil {
		log.WithError(err).WithField("post", t.postID).Warn("can not add comment")
		return api.Comment{}, err
	}

	if created.Replies == nil {
		created.Replies = []api.Reply{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.comments = append(t.comments, created)
	}
	return created, nil
}

func (t *CommentTree) EditComment(ctx context.Context, commentID api.ID, content string) error {
	if !t.hasComment(commentID) {
		return ErrNotFound
	}
	if err := t.backend.EditComment(ctx, t.postID, commentID, content); err != nil {
		log.WithError(err).WithField("comment", commentID).Warn("can not edit comment")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.commentIndex(commentID); i >= 0 && !t.closed {
		t.comments[i].Content = content
	}
	return nil
}

func (t *CommentTree) DeleteComment(ctx context.Context, commentID api.ID) error {
	if !t.hasComment(commentID) {
		return ErrNotFound
	}
	if !t.confirm.Confirm(ctx, "Are you sure you want to delete this comment?") {
		return ErrDeclined
	}
	if err := t.backend.DeleteComment(ctx, t.postID, commentID); err != nil {
		log.WithError(err).WithField("comment", commentID).Warn("can not delete comment")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.commentIndex(commentID); i >= 0 && !t.closed {
		t.comments = append(t.comments[:i], t.comments[i+1:]...)
	}
	return nil
}

func (t *CommentTree) AddReply(ctx context.Context, commentID api.ID, content string) (api.Reply, error) {
	if err := ValidateContent(content); err != nil {
		return api.Reply{}, err
	}
	if !t.hasComment(commentID) {
		return api.Reply{}, ErrNotFound
	}
	owner, err := t.session.CurrentUserID(ctx)
	if err != nil {
		return api.Reply{}, err
	}
	created, err := t.backend.AddReply(ctx, t.postID, commentID, api.NewComment{Content: content, OwnerID: owner})
	if err != nil {
		log.WithError(err).WithField("comment", commentID).Warn("can not add reply")
		return api.Reply{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.commentIndex(commentID); i >= 0 && !t.closed {
		t.comments[i].Replies = append(t.comments[i].Replies, created)
	}
	return created, nil
}

func (t *CommentTree) EditReply(ctx context.Context, commentID, replyID api.ID, content string) error {
	if !t.hasReply(commentID, replyID) {
		return ErrNotFound
	}
	if err := t.backend.EditReply(ctx, t.postID, commentID, replyID, content); err != nil {
		log.WithError(err).WithField("reply", replyID).Warn("can not edit reply")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i, j := t.replyIndex(commentID, replyID); j >= 0 && !t.closed {
		t.comments[i].Replies[j].Content = content
	}
	return nil
}

func (t *CommentTree) DeleteReply(ctx context.Context, commentID, replyID api.ID) error {
	if !t.hasReply(commentID, replyID) {
		return ErrNotFound
	}
	if !t.confirm.Confirm(ctx, "Are you sure you want to delete this reply?") {
		return ErrDeclined
	}
	if err := t.backend.DeleteReply(ctx, t.postID, commentID, replyID); err != nil {
		log.WithError(err).WithField("reply", replyID).Warn("can not delete reply")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i, j := t.replyIndex(commentID, replyID); j >= 0 && !t.closed {
		replies := t.comments[i].Replies
		t.comments[i].Replies = append(replies[:j], replies[j+1:]...)
	}
	return nil
}

func (t *CommentTree) hasComment(commentID api.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commentIndex(commentID) >= 0
}

func (t *CommentTree) hasReply(commentID, replyID api.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, j := t.replyIndex(commentID, replyID)
	return j >= 0
}

// commentIndex and replyIndex expect t.mu to be held.
func (t *CommentTree) commentIndex(commentID api.ID) int {
	for i := range t.comments {
		if t.comments[i].ID == commentID {
			return i
		}
	}
	return -1
}

func (t *CommentTree) replyIndex(commentID, replyID api.ID) (int, int) {
	i := t.commentIndex(commentID)
	if i < 0 {
		return -1, -1
	}
	for j := range t.comments[i].Replies {
		if t.comments[i].Replies[j].ID == replyID {
			return i, j
		}
	}
	return i, -1
}
