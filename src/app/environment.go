package app

import (
	"context"
	"fmt"

	"fakeddit/src/api"
	cfg "fakeddit/src/configuration"
	"fakeddit/src/repository"

	log "github.com/sirupsen/logrus"
)

// Environment holds the process-wide pieces every page is built from.
type Environment struct {
	Config  *cfg.Properties
	Session *Session
	Backend Backend
	Files   PictureSource
	// Bucket is nil unless S3_HOST is configured.
	Bucket PictureSource
}

func NewEnvironment(ctx context.Context, config *cfg.Properties) (*Environment, error) {
	store, err := repository.NewSessionStore(config)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	var decoder ClaimsDecoder = JWTDecoder{}
	if config.Session.JWKSURL != "" {
		decoder = NewOIDCDecoder(ctx, config.Session.JWKSURL)
	}
	session := NewSession(store, decoder)

	client, err := api.NewClient(config.API.BaseURL, session, api.WithTimeout(config.API.Timeout))
	if err != nil {
		return nil, err
	}

	env := &Environment{
		Config:  config,
		Session: session,
		Backend: client,
		Files:   FilePictures{},
	}
	if config.S3.Host != "" {
		bucket, err := NewMinioPictures(
			config.S3.Host,
			config.S3.AccessKey,
			config.S3.SecretKey,
			config.S3.Bucket,
			config.S3.UseSSL,
			config.S3.URLExpiry)
		if err != nil {
			log.WithError(err).Warn("picture bucket disabled")
		} else {
			env.Bucket = bucket
		}
	}
	return env, nil
}

func (e *Environment) AuthForms() *AuthForms {
	return NewAuthForms(e.Backend, e.Session, e.Config.Auth.RedirectDelay)
}

func (e *Environment) Feed() *Feed {
	return NewFeed(e.Backend, e.Session, e.Config.Feed.PageSize)
}

func (e *Environment) PostDetail(confirm Confirmer) *PostDetail {
	return NewPostDetail(e.Backend, confirm)
}

func (e *Environment) CommentTree(postID api.ID, confirm Confirmer) *CommentTree {
	return NewCommentTree(e.Backend, e.Session, confirm, postID)
}

func (e *Environment) Settings(confirm Confirmer) *Settings {
	return NewSettings(e.Backend, e.Session, confirm)
}

func (e *Environment) Composer() *Composer {
	return NewComposer(e.Backend, e.Session)
}
