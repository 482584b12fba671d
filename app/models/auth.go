package models

import "github.com/pkg/errors"

type AdminEmail struct {
	Value  string `json:"value"`
	Status bool   `json:"status"`
}

// AdminUser is the backend's account record for the signed-in admin.
type AdminUser struct {
	ID        string     `json:"id"`
	UserType  string     `json:"userType"`
	Status    string     `json:"status"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     AdminEmail `json:"email"`
	Phone     string     `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l *LoginRequest) Validate() error {
	if !IsValidEmail(l.Email) {
		return errors.New("Invalid email format")
	}
	if l.Password == "" {
		return errors.New("empty password provided")
	}
	return nil
}

// LoginResponse is the backend login payload; Token is the bearer token
// attached to every subsequent backend call.
type LoginResponse struct {
	Token   string     `json:"token"`
	Message string     `json:"message,omitempty"`
	User    *AdminUser `json:"user"`
}

// AuthorizedAdmin is what the console hands back after a login: the admin
// record plus a console-scoped access token.
type AuthorizedAdmin struct {
	User        *AdminUser `json:"user"`
	AccessToken string     `json:"access_token,omitempty"`
}
