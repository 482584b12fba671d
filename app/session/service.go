package session

import (
	"context"

	"github.com/frabrice/Emodocar-web/app/models"
)

// Service holds the admin's backend credentials for the lifetime of the
// process. It is passed explicitly to everything that calls the backend;
// there is no ambient global.
type Service interface {
	SetCredentials(token string, user *models.AdminUser)
	Token() string
	User() *models.AdminUser
	Authenticated() bool
	Expire(ctx context.Context, reason string)
	Clear()
}
