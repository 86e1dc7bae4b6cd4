package app

import (
	"context"
	"strings"
	"time"

	"fakeddit/src/api"

	log "github.com/sirupsen/logrus"
)

type (
	LoginForm struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	RegisterForm struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}

	// Outcome is what a form shows after submit and where it navigates once the
	// message has been on screen for After.
	Outcome struct {
		Message    string
		RedirectTo string
		After      time.Duration
	}

	AuthForms struct {
		backend Backend
		session *Session
		delay   time.Duration
	}
)

func NewAuthForms(backend Backend, session *Session, delay time.Duration) *AuthForms {
	return &AuthForms{backend: backend, session: session, delay: delay}
}

// required returns a *ValidationError for the first blank field, in argument order.
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return &ValidationError{Field: f[0]}
		}
	}
	return nil
}

// Guard sends an already authenticated user away from the auth forms.
func (a *AuthForms) Guard(ctx context.Context) (Outcome, bool) {
	if _, ok := a.session.Token(ctx); ok {
		return Outcome{RedirectTo: FeedRoute}, true
	}
	return Outcome{}, false
}

func (a *AuthForms) Login(ctx context.Context, form LoginForm) (Outcome, error) {
	if outcome, ok := a.Guard(ctx); ok {
		return outcome, nil
	}
	if err := required([2]string{"username", form.Username}, [2]string{"password", form.Password}); err != nil {
		return Outcome{}, err
	}
	resp, err := a.backend.Login(ctx, api.LoginRequest{Username: form.Username, Password: form.Password})
	if err != nil {
		log.WithError(err).WithField("username", form.Username).Info("login failed")
		return Outcome{}, formRejected(err)
	}
	if resp.Token == "" {
		return Outcome{}, &api.Error{Status: 200, Body: "Login response carried no token"}
	}
	if err := a.session.SetToken(ctx, resp.Token); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: "Login successful", RedirectTo: FeedRoute, After: a.delay}, nil
}

func (a *AuthForms) Register(ctx context.Context, form RegisterForm) (Outcome, error) {
	if outcome, ok := a.Guard(ctx); ok {
		return outcome, nil
	}
	if err := required(
		[2]string{"username", form.Username},
		[2]string{"email", form.Email},
		[2]string{"password", form.Password},
	); err != nil {
		return Outcome{}, err
	}
	err := a.backend.Register(ctx, api.RegisterRequest{Username: form.Username, Email: form.Email, Password: form.Password})
	if err != nil {
		log.WithError(err).WithField("username", form.Username).Info("registration failed")
		return Outcome{}, formRejected(err)
	}
	return Outcome{Message: "Registration successful", RedirectTo: LoginRoute, After: a.delay}, nil
}

func (a *AuthForms) Logout(ctx context.Context) (Outcome, error) {
	if err := a.session.ClearToken(ctx); err != nil {
		return Outcome{}, err
	}
	return Outcome{RedirectTo: LoginRoute}, nil
}
