package auth

import (
	"context"
	"net/http"

	"github.com/frabrice/Emodocar-web/app/models"
)

type Service interface {
	GetJWTVerifier() func(http.Handler) http.Handler
	GetJWTAuthenticator() func(http.Handler) http.Handler
	Login(ctx context.Context, login *models.LoginRequest) (*models.AuthorizedAdmin, error)
}
