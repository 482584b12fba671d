package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"

	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/session"
	"github.com/frabrice/Emodocar-web/pkg/log"
	"github.com/frabrice/Emodocar-web/pkg/response"
	"github.com/frabrice/Emodocar-web/pkg/web"
)

// Manager signs admins in against the marketplace backend and mints the
// console-scoped JWT that guards the private routes.
type Manager struct {
	JWTAuth *jwtauth.JWTAuth
	Backend backend.Service
	Session session.Service
}

func (m *Manager) GetJWTVerifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(m.JWTAuth)
}

func (m *Manager) GetJWTAuthenticator() func(http.Handler) http.Handler {
	return Authenticator
}

// Login proxies the credentials to the backend, stores the bearer token in
// the session and issues a console access token.
func (m *Manager) Login(ctx context.Context, login *models.LoginRequest) (*models.AuthorizedAdmin, error) {
	log.AddFields(ctx, "login", login.Email)

	resp, err := m.Backend.Login(ctx, login)
	if err != nil {
		return nil, err
	}

	m.Session.SetCredentials(resp.Token, resp.User)

	accessToken := models.NewAccessToken(login.Email)
	encoded, err := accessToken.Encode(m.JWTAuth)
	if err != nil {
		return nil, err
	}

	return &models.AuthorizedAdmin{
		User:        resp.User,
		AccessToken: encoded,
	}, nil
}

func Authenticator(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if err != nil {
			web.RenderError(w, r, response.NewError(response.CodeUnauthorized, err.Error()))
			return
		}

		if token == nil || !token.Valid {
			web.RenderError(
				w, r, response.NewError(response.CodeUnauthorized, http.StatusText(http.StatusUnauthorized)),
			)
			return
		}

		// token is authenticated, pass it through
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
