package app

import (
	"context"
	"sync"

	"fakeddit/src/api"

	log "github.com/sirupsen/logrus"
)

// PostDetail is the single post page: the post, its author and the picture carousel.
type PostDetail struct {
	backend Backend
	confirm Confirmer

	mu         sync.Mutex
	post       *api.Post
	owner      *api.User
	carousel   Carousel
	generation uint64
	closed     bool
}

type DetailView struct {
	Post         api.Post  `json:"post" yaml:"post"`
	Owner        *api.User `json:"owner,omitempty" yaml:"owner,omitempty"`
	PictureIndex int       `json:"pictureIndex" yaml:"pictureIndex"`
	Picture      string    `json:"picture,omitempty" yaml:"picture,omitempty"`
}

func NewPostDetail(backend Backend, confirm Confirmer) *PostDetail {
	if confirm == nil {
		confirm = NeverConfirm
	}
	return &PostDetail{backend: backend, confirm: confirm}
}

// Load fetches the post and then its author. A failed author lookup is logged and leaves
// the owner unset.
func (d *PostDetail) Load(ctx context.Context, id api.ID) error {
	d.mu.Lock()
	d.generation++
	generation := d.generation
	d.mu.Unlock()

	post, err := d.backend.GetPost(ctx, id)
	if err != nil {
		log.WithError(err).WithField("post", id).Warn("can not fetch post")
		return err
	}
	var owner *api.User
	if post.UserID != "" {
		user, err := d.backend.GetUser(ctx, post.UserID)
		if err != nil {
			log.WithError(err).WithField("user", post.UserID).Warn("can not fetch post owner")
		} else {
			owner = &user
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || generation != d.generation {
		return ErrStale
	}
	d.post = &post
	d.owner = owner
	d.carousel.Reset(len(post.Pictures))
	return nil
}

func (d *PostDetail) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// View returns the loaded page, ok=false before a successful Load.
func (d *PostDetail) View() (DetailView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *PostDetail) viewLocked() (DetailView, bool) {
	if d.post == nil {
		return DetailView{}, false
	}
	view := DetailView{Post: *d.post, PictureIndex: d.carousel.Index()}
	if d.owner != nil {
		owner := *d.owner
		view.Owner = &owner
	}
	view.Picture, _ = d.carousel.Current(d.post.Pictures)
	return view, true
}

func (d *PostDetail) SeekPicture(i int) DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carousel.Seek(i)
	view, _ := d.viewLocked()
	return view
}

func (d *PostDetail) NextPicture() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carousel.Next()
	view, _ := d.viewLocked()
	return view
}

func (d *PostDetail) PrevPicture() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.carousel.Prev()
	view, _ := d.viewLocked()
	return view
}

func (d *PostDetail) loadedID() (api.ID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.post == nil {
		return "", false
	}
	return d.post.ID, true
}

// Like counts a like locally once the backend has accepted it.
func (d *PostDetail) Like(ctx context.Context) error {
	id, ok := d.loadedID()
	if !ok {
		return ErrNotFound
	}
	if err := d.backend.LikePost(ctx, id); err != nil {
		log.WithError(err).WithField("post", id).Warn("can not like post")
		return err
	}
	d.mu.Lock()
	if d.post != nil && d.post.ID == id {
		d.post.Likes++
	}
	d.mu.Unlock()
	return nil
}

func (d *PostDetail) Dislike(ctx context.Context) error {
	id, ok := d.loadedID()
	if !ok {
		return ErrNotFound
	}
	if err := d.backend.DislikePost(ctx, id); err != nil {
		log.WithError(err).WithField("post", id).Warn("can not dislike post")
		return err
	}
	d.mu.Lock()
	if d.post != nil && d.post.ID == id {
		d.post.Dislikes++
	}
	d.mu.Unlock()
	return nil
}

func (d *PostDetail) Delete(ctx context.Context) error {
	id, ok := d.loadedID()
	if !ok {
		return ErrNotFound
	}
	if !d.confirm.Confirm(ctx, "Are you sure you want to delete this post?") {
		return ErrDeclined
	}
	if err := d.backend.DeletePost(ctx, id); err != nil {
		log.WithError(err).WithField("post", id).Warn("can not delete post")
		return err
	}
	d.mu.Lock()
	if d.post != nil && d.post.ID == id {
		d.post = nil
		d.owner = nil
		d.carousel.Reset(0)
	}
	d.mu.Unlock()
	return nil
}
