package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func postPath(id ID) string {
	return "/api/Post/" + url.PathEscape(string(id))
}

func commentPath(postID, commentID ID) string {
	return fmt.Sprintf("%s/Comment/%s", postPath(postID), url.PathEscape(string(commentID)))
}

func replyPath(postID, commentID, replyID ID) string {
	return fmt.Sprintf("%s/Reply/%s", commentPath(postID, commentID), url.PathEscape(string(replyID)))
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.Do(ctx, http.MethodPost, "/Auth/login", req, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.Do(ctx, http.MethodPost, "/Auth/register", req, nil)
}

// ListPosts returns the feed visible to the authenticated user.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := c.Do(ctx, http.MethodGet, "/api/Post/posts", nil, &posts)
	return posts, err
}

// ListOwnPosts returns the posts shown on the settings page.
func (c *Client) ListOwnPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := c.Do(ctx, http.MethodGet, "/api/Post", nil, &posts)
	return posts, err
}

func (c *Client) GetPost(ctx context.Context, id ID) (Post, error) {
	var post Post
	err := c.Do(ctx, http.MethodGet, "/api/Post/post/"+url.PathEscape(string(id)), nil, &post)
	return post, err
}

func (c *Client) CreatePost(ctx context.Context, post NewPost) (Post, error) {
	var created Post
	err := c.Do(ctx, http.MethodPost, "/api/Post", post, &created)
	return created, err
}

func (c *Client) DeletePost(ctx context.Context, id ID) error {
	return c.Do(ctx, http.MethodDelete, postPath(id), nil, nil)
}

func (c *Client) LikePost(ctx context.Context, id ID) error {
	return c.Do(ctx, http.MethodPost, postPath(id)+"/like", nil, nil)
}

func (c *Client) DislikePost(ctx context.Context, id ID) error {
	return c.Do(ctx, http.MethodPost, postPath(id)+"/dislike", nil, nil)
}

func (c *Client) ListComments(ctx context.Context, postID ID) ([]Comment, error) {
	var comments []Comment
	err := c.Do(ctx, http.MethodGet, postPath(postID)+"/Comment", nil, &comments)
	return comments, err
}

func (c *Client) AddComment(ctx context.Context, postID ID, comment NewComment) (Comment, error) {
	var created Comment
	err := c.Do(ctx, http.MethodPost, postPath(postID)+"/Comment", comment, &created)
	return created, err
}

func (c *Client) EditComment(ctx context.Context, postID, commentID ID, content string) error {
	return c.Do(ctx, http.MethodPut, commentPath(postID, commentID), ContentUpdate{Content: content}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID ID) error {
	return c.Do(ctx, http.MethodDelete, commentPath(postID, commentID), nil, nil)
}

func (c *Client) AddReply(ctx context.Context, postID, commentID ID, reply NewComment) (Reply, error) {
	var created Reply
	err := c.Do(ctx, http.MethodPost, commentPath(postID, commentID)+"/Reply", reply, &created)
	return created, err
}

func (c *Client) EditReply(ctx context.Context, postID, commentID, replyID ID, content string) error {
	return c.Do(ctx, http.MethodPut, replyPath(postID, commentID, replyID), ContentUpdate{Content: content}, nil)
}

func (c *Client) DeleteReply(ctx context.Context, postID, commentID, replyID ID) error {
	return c.Do(ctx, http.MethodDelete, replyPath(postID, commentID, replyID), nil, nil)
}

func (c *Client) GetUser(ctx context.Context, id ID) (User, error) {
	var user User
	err := c.Do(ctx, http.MethodGet, "/api/Users/"+url.PathEscape(string(id)), nil, &user)
	return user, err
}

// UploadProfilePicture sends the picture as a JSON string body.
func (c *Client) UploadProfilePicture(ctx context.Context, userID ID, picture string) error {
	return c.Do(ctx, http.MethodPost, "/api/Users/"+url.PathEscape(string(userID))+"/profile-picture", picture, nil)
}
