package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fakeddit/src/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("WrongPassword", func(t *testing.T) {
		backend := newFakeBackend()
		session := loggedOut()
		forms := NewAuthForms(backend, session, time.Second)

		outcome, err := forms.Login(ctx, LoginForm{Username: "alice", Password: "wrong"})
		require.Error(t, err)
		msg, redirect := Describe(err)
		assert.Equal(t, "Invalid credentials", msg)
		assert.Empty(t, redirect)
		var backendErr *api.Error
		require.True(t, errors.As(err, &backendErr))
		assert.Equal(t, http.StatusUnauthorized, backendErr.Status)
		assert.Empty(t, outcome.RedirectTo)
		_, ok := session.Token(ctx)
		assert.False(t, ok)
	})

	t.Run("Success", func(t *testing.T) {
		backend := newFakeBackend()
		token := signedToken(t, Claims{UserID: "u1"})
		backend.tokens["alice:secret"] = token
		session := loggedOut()
		forms := NewAuthForms(backend, session, 1500*time.Millisecond)

		outcome, err := forms.Login(ctx, LoginForm{Username: "alice", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Message: "Login successful", RedirectTo: FeedRoute, After: 1500 * time.Millisecond}, outcome)
		stored, ok := session.Token(ctx)
		assert.True(t, ok)
		assert.Equal(t, token, stored)
	})

	t.Run("RequiredFields", func(t *testing.T) {
		backend := newFakeBackend()
		forms := NewAuthForms(backend, loggedOut(), 0)
		for _, form := range []LoginForm{{}, {Username: "alice"}, {Password: "x"}, {Username: " ", Password: "x"}} {
			_, err := forms.Login(ctx, form)
			var validation *ValidationError
			assert.True(t, errors.As(err, &validation), "%+v", form)
		}
		assert.Zero(t, backend.TotalCalls())
	})

	t.Run("AlreadyLoggedIn", func(t *testing.T) {
		backend := newFakeBackend()
		forms := NewAuthForms(backend, loggedIn(t, "u1"), time.Second)
		outcome, err := forms.Login(ctx, LoginForm{Username: "alice", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{RedirectTo: FeedRoute}, outcome)
		assert.Zero(t, backend.TotalCalls())
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		backend := newFakeBackend()
		forms := NewAuthForms(backend, loggedOut(), time.Second)
		outcome, err := forms.Register(ctx, RegisterForm{Username: "bob", Email: "bob@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, LoginRoute, outcome.RedirectTo)
		assert.Equal(t, time.Second, outcome.After)
		assert.Equal(t, 1, backend.Calls("Register"))
	})

	t.Run("MissingEmail", func(t *testing.T) {
		backend := newFakeBackend()
		forms := NewAuthForms(backend, loggedOut(), 0)
		_, err := forms.Register(ctx, RegisterForm{Username: "bob", Password: "pw"})
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Equal(t, "email", validation.Field)
		assert.Zero(t, backend.TotalCalls())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	session := loggedIn(t, "u1")
	outcome, err := NewAuthForms(newFakeBackend(), session, 0).Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoginRoute, outcome.RedirectTo)
	_, ok := session.Token(ctx)
	assert.False(t, ok)
}
