package app

import (
	"context"
	"errors"
	"sync"

	"fakeddit/src/api"

	log "github.com/sirupsen/logrus"
)

// Settings is the profile page: the current user, their picture and their posts.
type Settings struct {
	backend Backend
	session *Session
	confirm Confirmer

	mu    sync.Mutex
	user  api.User
	posts []api.Post
}

type SettingsView struct {
	User  api.User   `json:"user" yaml:"user"`
	Posts []api.Post `json:"posts" yaml:"posts"`
}

func NewSettings(backend Backend, session *Session, confirm Confirmer) *Settings {
	if confirm == nil {
		confirm = NeverConfirm
	}
	return &Settings{backend: backend, session: session, confirm: confirm}
}

func (s *Settings) userID(ctx context.Context) (api.ID, error) {
	id, err := s.session.CurrentUserID(ctx)
	if err != nil {
		var auth *AuthError
		if errors.As(err, &auth) {
			return "", err
		}
		return "", loginRequired(err)
	}
	return id, nil
}

func (s *Settings) Load(ctx context.Context) error {
	id, err := s.userID(ctx)
	if err != nil {
		return err
	}
	user, err := s.backend.GetUser(ctx, id)
	if err != nil {
		log.WithError(err).WithField("user", id).Warn("can not fetch user data")
		return err
	}
	posts, err := s.backend.ListOwnPosts(ctx)
	if err != nil {
		log.WithError(err).WithField("user", id).Warn("can not fetch user posts")
		return err
	}
	s.mu.Lock()
	s.user = user
	s.posts = posts
	s.mu.Unlock()
	return nil
}

func (s *Settings) View() SettingsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SettingsView{User: s.user, Posts: append([]api.Post{}, s.posts...)}
}

// UploadProfilePicture stores picture, a data URL, as the user's profile picture.
func (s *Settings) UploadProfilePicture(ctx context.Context, picture string) error {
	if err := required([2]string{"picture", picture}); err != nil {
		return err
	}
	id, err := s.userID(ctx)
	if err != nil {
		return err
	}
	if err := s.backend.UploadProfilePicture(ctx, id, picture); err != nil {
		log.WithError(err).WithField("user", id).Warn("can not upload profile picture")
		return err
	}
	s.mu.Lock()
	s.user.ProfilePicture = picture
	s.mu.Unlock()
	return nil
}

// DeletePost removes one of the user's posts and reloads the page.
func (s *Settings) DeletePost(ctx context.Context, postID api.ID) error {
	if !s.confirm.Confirm(ctx, "Are you sure you want to delete this post?") {
		return ErrDeclined
	}
	if err := s.backend.DeletePost(ctx, postID); err != nil {
		log.WithError(err).WithField("post", postID).Warn("can not delete post")
		return err
	}
	return s.Load(ctx)
}
