package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fakeddit/src/api"
	"fakeddit/src/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCurrentUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("UserIdClaim", func(t *testing.T) {
		id, err := loggedIn(t, "42").CurrentUserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, api.ID("42"), id)
	})

	t.Run("SubjectFallback", func(t *testing.T) {
		session := loggedOut()
		token := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-7"}})
		require.NoError(t, session.SetToken(ctx, token))
		id, err := session.CurrentUserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, api.ID("sub-7"), id)
	})

	t.Run("NumericUserId", func(t *testing.T) {
		session := loggedOut()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"UserId": 9}).SignedString([]byte("k"))
		require.NoError(t, err)
		require.NoError(t, session.SetToken(ctx, token))
		id, err := session.CurrentUserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, api.ID("9"), id)
	})

	t.Run("ExpiredStillDecodes", func(t *testing.T) {
		session := loggedOut()
		token := signedToken(t, Claims{
			UserID:           "u1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		})
		require.NoError(t, session.SetToken(ctx, token))
		id, err := session.CurrentUserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, api.ID("u1"), id)
	})

	t.Run("Malformed", func(t *testing.T) {
		session := loggedOut()
		require.NoError(t, session.SetToken(ctx, "not-a-token"))
		_, err := session.CurrentUserID(ctx)
		var decode *DecodeError
		assert.True(t, errors.As(err, &decode))
		assert.Equal(t, Identity{}, session.Identity(ctx))
	})

	t.Run("NoUserClaim", func(t *testing.T) {
		session := loggedOut()
		require.NoError(t, session.SetToken(ctx, signedToken(t, Claims{})))
		_, err := session.CurrentUserID(ctx)
		var decode *DecodeError
		assert.True(t, errors.As(err, &decode))
	})

	t.Run("Absent", func(t *testing.T) {
		_, err := loggedOut().CurrentUserID(ctx)
		var auth *AuthError
		require.True(t, errors.As(err, &auth))
		assert.ErrorIs(t, err, repository.ErrNoToken)
	})

	t.Run("Identity", func(t *testing.T) {
		assert.Equal(t, Identity{LoggedIn: true, UserID: "u1"}, loggedIn(t, "u1").Identity(ctx))
	})

	t.Run("TokenSource", func(t *testing.T) {
		session := loggedIn(t, "u1")
		token, ok := session.Token(ctx)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
		require.NoError(t, session.ClearToken(ctx))
		_, ok = session.Token(ctx)
		assert.False(t, ok)
	})
}

func TestOIDCDecoder(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwks := map[string]any{"keys": []map[string]string{{
		"kty": "RSA",
		"kid": "k1",
		"alg": "RS256",
		"use": "sig",
		"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(server.Close)

	ctx := context.Background()
	decoder := NewOIDCDecoder(ctx, server.URL)

	t.Run("Verified", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{UserID: "u5"})
		token.Header["kid"] = "k1"
		raw, err := token.SignedString(key)
		require.NoError(t, err)

		claims, err := decoder.Decode(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, api.ID("u5"), claims.UserID)
	})

	t.Run("WrongSignature", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{UserID: "u5"})
		token.Header["kid"] = "k1"
		raw, err := token.SignedString(other)
		require.NoError(t, err)

		_, err = decoder.Decode(ctx, raw)
		var decode *DecodeError
		assert.True(t, errors.As(err, &decode))
	})
}
