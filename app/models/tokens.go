package models

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"
	"github.com/pkg/errors"
)

const (
	accessTokenExpiresIn = time.Hour * 24

	claimAdmin = "admin"
	claimExp   = "exp"
)

type TokenEncoder interface {
	Encode(claims jwtauth.Claims) (t *jwt.Token, tokenString string, err error)
}

// AccessToken is the console session token. Admin carries the signed-in
// admin's email.
type AccessToken struct {
	Admin     string
	ExpiresAt time.Time
}

func NewAccessToken(admin string) *AccessToken {
	return &AccessToken{
		Admin:     admin,
		ExpiresAt: time.Now().Add(accessTokenExpiresIn),
	}
}

func AccessTokenFromContext(ctx context.Context) (*AccessToken, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve an access token from a context")
	}

	admin, ok := claims[claimAdmin].(string)
	if !ok || admin == "" {
		return nil, errors.New("empty admin claim")
	}

	exp, ok := claims[claimExp].(float64)
	if !ok || exp == 0 {
		return nil, errors.New("empty exp claim")
	}

	return &AccessToken{
		Admin:     admin,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

func (t *AccessToken) Encode(encoder TokenEncoder) (string, error) {
	_, tokenString, err := encoder.Encode(jwtauth.Claims{
		claimAdmin: t.Admin,
		claimExp:   t.ExpiresAt.Unix(),
	})
	return tokenString, errors.Wrap(err, "failed to encode a jwt")
}
