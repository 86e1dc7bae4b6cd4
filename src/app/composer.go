package app

import (
	"context"

	"fakeddit/src/api"
)

type Draft struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Pictures    []string `json:"pictures" form:"pictures"`
}

// Composer submits new posts.
type Composer struct {
	backend Backend
	session *Session
}

func NewComposer(backend Backend, session *Session) *Composer {
	return &Composer{backend: backend, session: session}
}

func (c *Composer) Submit(ctx context.Context, draft Draft) (api.Post, error) {
	if _, ok := c.session.Token(ctx); !ok {
		return api.Post{}, loginRequired(nil)
	}
	if err := required([2]string{"title", draft.Title}, [2]string{"description", draft.Description}); err != nil {
		return api.Post{}, err
	}
	pictures := draft.Pictures
	if pictures == nil {
		pictures = []string{}
	}
	return c.backend.CreatePost(ctx, api.NewPost{
		Title:       draft.Title,
		Description: draft.Description,
		Pictures:    pictures,
	})
}
