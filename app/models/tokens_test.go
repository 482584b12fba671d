package models

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)

	encoded, err := NewAccessToken("admin@example.com").Encode(tokenAuth)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := tokenAuth.Decode(encoded)
	require.NoError(t, err)

	claims, ok := decoded.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "admin@example.com", claims["admin"])
}

func TestAccessTokenFromContext(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := &jwt.Token{Valid: true, Claims: jwt.MapClaims{
		"admin": "admin@example.com",
		"exp":   float64(exp),
	}}
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	got, err := AccessTokenFromContext(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", got.Admin)
	require.Equal(t, exp, got.ExpiresAt.Unix())
}

func TestAccessTokenFromContextRejectsMissingClaims(t *testing.T) {
	token := &jwt.Token{Valid: true, Claims: jwt.MapClaims{}}
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	_, err := AccessTokenFromContext(ctx)
	require.Error(t, err)
}
