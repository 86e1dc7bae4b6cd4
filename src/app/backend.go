package app

import (
	"context"

	"fakeddit/src/api"
)

// Backend is the REST surface the pages use. *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error

	ListPosts(ctx context.Context) ([]api.Post, error)
	ListOwnPosts(ctx context.Context) ([]api.Post, error)
	GetPost(ctx context.Context, id api.ID) (api.Post, error)
	CreatePost(ctx context.Context, post api.NewPost) (api.Post, error)
	DeletePost(ctx context.Context, id api.ID) error
	LikePost(ctx context.Context, id api.ID) error
	DislikePost(ctx context.Context, id api.ID) error

	ListComments(ctx context.Context, postID api.ID) ([]api.Comment, error)
	AddComment(ctx context.Context, postID api.ID, comment api.NewComment) (api.Comment, error)
	EditComment(ctx context.Context, postID, commentID api.ID, content string) error
	DeleteComment(ctx context.Context, postID, commentID api.ID) error
	AddReply(ctx context.Context, postID, commentID api.ID, reply api.NewComment) (api.Reply, error)
	EditReply(ctx context.Context, postID, commentID, replyID api.ID, content string) error
	DeleteReply(ctx context.Context, postID, commentID, replyID api.ID) error

	GetUser(ctx context.Context, id api.ID) (api.User, error)
	UploadProfilePicture(ctx context.Context, userID api.ID, picture string) error
}

var _ Backend = (*api.Client)(nil)
