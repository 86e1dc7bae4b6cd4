package app

import (
	"context"
	"errors"
	"fmt"

	"fakeddit/src/api"
	"fakeddit/src/repository"

	log "github.com/sirupsen/logrus"
)

// Session is the bearer token slot plus the claims it carries.
type Session struct {
	store   repository.SessionStore
	decoder ClaimsDecoder
}

type Identity struct {
	LoggedIn bool   `json:"loggedIn" yaml:"loggedIn"`
	UserID   api.ID `json:"userId,omitempty" yaml:"userId,omitempty"`
}

func NewSession(store repository.SessionStore, decoder ClaimsDecoder) *Session {
	if decoder == nil {
		decoder = JWTDecoder{}
	}
	return &Session{store: store, decoder: decoder}
}

// Token returns the stored token, ok=false when there is none or the slot is unreadable.
func (s *Session) Token(ctx context.Context) (string, bool) {
	token, err := s.store.GetToken(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoToken) {
			log.WithError(err).Warn("can not read session token")
		}
		return "", false
	}
	return token, true
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *Session) ClearToken(ctx context.Context) error {
	if err := s.store.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentUserID decodes the stored token. A malformed token yields *DecodeError; no
// expiry check is made.
func (s *Session) CurrentUserID(ctx context.Context) (api.ID, error) {
	token, ok := s.Token(ctx)
	if !ok {
		return "", loginRequired(repository.ErrNoToken)
	}
	claims, err := s.decoder.Decode(ctx, token)
	if err != nil {
		return "", err
	}
	id, err := claims.userID()
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return id, nil
}

// Identity reports who is logged in. An undecodable token counts as logged out.
func (s *Session) Identity(ctx context.Context) Identity {
	id, err := s.CurrentUserID(ctx)
	if err != nil {
		var decode *DecodeError
		if errors.As(err, &decode) {
			log.WithError(err).Warn("invalid session token")
		}
		return Identity{}
	}
	return Identity{LoggedIn: true, UserID: id}
}
