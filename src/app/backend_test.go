package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"fakeddit/src/api"
	"fakeddit/src/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeBackend keeps posts and comments in memory and counts calls.
type fakeBackend struct {
	mu       sync.Mutex
	calls    map[string]int
	nextID   int
	posts    []api.Post
	comments map[api.ID][]api.Comment
	users    map[api.ID]api.User
	tokens   map[string]string // username -> token
	fail     map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:    map[string]int{},
		comments: map[api.ID][]api.Comment{},
		users:    map[api.ID]api.User{},
		tokens:   map[string]string{},
		fail:     map[string]error{},
	}
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeBackend) FailWith(name string, err error) {
	f.mu.Lock()
	f.fail[name] = err
	f.mu.Unlock()
}

func (f *fakeBackend) id() api.ID {
	f.nextID++
	return api.ID(strconv.Itoa(f.nextID))
}

func (f *fakeBackend) Login(_ context.Context, req api.LoginRequest) (api.LoginResponse, error) {
	if err := f.record("Login"); err != nil {
		return api.LoginResponse{}, err
	}
	token, ok := f.tokens[req.Username+":"+req.Password]
	if !ok {
		return api.LoginResponse{}, &api.Error{Status: http.StatusUnauthorized, Body: "Invalid credentials"}
	}
	return api.LoginResponse{Token: token}, nil
}

func (f *fakeBackend) Register(context.Context, api.RegisterRequest) error {
	return f.record("Register")
}

func (f *fakeBackend) ListPosts(context.Context) ([]api.Post, error) {
	if err := f.record("ListPosts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Post{}, f.posts...), nil
}

func (f *fakeBackend) ListOwnPosts(ctx context.Context) ([]api.Post, error) {
	if err := f.record("ListOwnPosts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Post{}, f.posts...), nil
}

func (f *fakeBackend) GetPost(_ context.Context, id api.ID) (api.Post, error) {
	if err := f.record("GetPost"); err != nil {
		return api.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return api.Post{}, &api.Error{Status: http.StatusNotFound, Body: "Post not found"}
}

func (f *fakeBackend) CreatePost(_ context.Context, post api.NewPost) (api.Post, error) {
	if err := f.record("CreatePost"); err != nil {
		return api.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := api.Post{ID: f.id(), Title: post.Title, Description: post.Description, Pictures: post.Pictures}
	f.posts = append(f.posts, created)
	return created, nil
}

func (f *fakeBackend) DeletePost(_ context.Context, id api.ID) error {
	if err := f.record("DeletePost"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return &api.Error{Status: http.StatusNotFound}
}

func (f *fakeBackend) LikePost(context.Context, api.ID) error    { return f.record("LikePost") }
func (f *fakeBackend) DislikePost(context.Context, api.ID) error { return f.record("DislikePost") }

func (f *fakeBackend) ListComments(_ context.Context, postID api.ID) ([]api.Comment, error) {
	if err := f.record("ListComments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Comment, len(f.comments[postID]))
	for i, c := range f.comments[postID] {
		out[i] = c
		out[i].Replies = append([]api.Reply(nil), c.Replies...)
	}
	return out, nil
}

func (f *fakeBackend) AddComment(_ context.Context, postID api.ID, comment api.NewComment) (api.Comment, error) {
	if err := f.record("AddComment"); err != nil {
		return api.Comment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := api.Comment{
		ID:        f.id(),
		PostID:    postID,
		Content:   comment.Content,
		OwnerID:   comment.OwnerID,
		CreatedAt: api.Timestamp{Time: time.Now()},
	}
	f.comments[postID] = append(f.comments[postID], created)
	return created, nil
}

func (f *fakeBackend) EditComment(_ context.Context, postID, commentID api.ID, content string) error {
	if err := f.record("EditComment"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.comments[postID] {
		if f.comments[postID][i].ID == commentID {
			f.comments[postID][i].Content = content
		}
	}
	return nil
}

func (f *fakeBackend) DeleteComment(_ context.Context, postID, commentID api.ID) error {
	if err := f.record("DeleteComment"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.comments[postID]
	for i := range list {
		if list[i].ID == commentID {
			f.comments[postID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) AddReply(_ context.Context, postID, commentID api.ID, reply api.NewComment) (api.Reply, error) {
	if err := f.record("AddReply"); err != nil {
		return api.Reply{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := api.Reply{ID: f.id(), CommentID: commentID, Content: reply.Content, OwnerID: reply.OwnerID}
	for i := range f.comments[postID] {
		if f.comments[postID][i].ID == commentID {
			f.comments[postID][i].Replies = append(f.comments[postID][i].Replies, created)
		}
	}
	return created, nil
}

func (f *fakeBackend) EditReply(context.Context, api.ID, api.ID, api.ID, string) error {
	return f.record("EditReply")
}

func (f *fakeBackend) DeleteReply(context.Context, api.ID, api.ID, api.ID) error {
	return f.record("DeleteReply")
}

func (f *fakeBackend) GetUser(_ context.Context, id api.ID) (api.User, error) {
	if err := f.record("GetUser"); err != nil {
		return api.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return api.User{}, &api.Error{Status: http.StatusNotFound, Body: fmt.Sprintf("user %s not found", id)}
	}
	return user, nil
}

func (f *fakeBackend) UploadProfilePicture(context.Context, api.ID, string) error {
	return f.record("UploadProfilePicture")
}

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// loggedIn returns a session holding a token for userID.
func loggedIn(t *testing.T, userID api.ID) *Session {
	t.Helper()
	session := NewSession(&repository.InMemorySession{}, nil)
	require.NoError(t, session.SetToken(context.Background(), signedToken(t, Claims{UserID: userID})))
	return session
}

func loggedOut() *Session {
	return NewSession(&repository.InMemorySession{}, nil)
}
