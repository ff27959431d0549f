package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// DeleteConfirmation is the literal a caller must type to confirm an account
// deletion. The SDK refuses to issue the request without it.
const DeleteConfirmation = "DELETE"

// Users is the admin-only collection service for accounts. Every call sends
// the bearer token from the TokenSource; the backend enforces the admin
// requirement, so a non-admin token simply gets a 403 back.
type Users struct {
	gw     *Gateway
	tokens TokenSource
	log    zerolog.Logger
}

func NewUsers(gw *Gateway, tokens TokenSource, log zerolog.Logger) *Users {
	return &Users{gw: gw, tokens: tokens, log: log}
}

type userListWire struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type userWire struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// List fetches every account.
func (u *Users) List(ctx context.Context) ([]User, error) {
	var wire userListWire
	if err := u.gw.Call(ctx, http.MethodGet, "/user-management/list", u.tokens.AccessToken(), nil, &wire); err != nil {
		return nil, err
	}
	if wire.Users == nil {
		return []User{}, nil
	}
	return wire.Users, nil
}

// Get fetches a single account by id, returning nil when it does not exist.
func (u *Users) Get(ctx context.Context, id string) (*User, error) {
	var wire userWire
	err := u.gw.Call(ctx, http.MethodGet, "/user-management/user/"+url.PathEscape(id), u.tokens.AccessToken(), nil, &wire)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &wire.User, nil
}

// Create submits a new account. The password is checked against the platform
// policy locally; a weak password is rejected with a Validation error before
// any network call.
func (u *Users) Create(ctx context.Context, input CreateUser) (*User, error) {
	if err := domain.CheckPassword(input.Password); err != nil {
		return nil, &GatewayError{Kind: KindValidation, Message: err.Error()}
	}
	var wire userWire
	if err := u.gw.Call(ctx, http.MethodPost, "/user-management/create", u.tokens.AccessToken(), input, &wire); err != nil {
		return nil, err
	}
	return &wire.User, nil
}

// Update applies a partial account update. A non-empty Password is checked
// against the platform policy locally first.
func (u *Users) Update(ctx context.Context, id string, input UpdateUser) (*User, error) {
	if input.Password != "" {
		if err := domain.CheckPassword(input.Password); err != nil {
			return nil, &GatewayError{Kind: KindValidation, Message: err.Error()}
		}
	}
	var wire userWire
	if err := u.gw.Call(ctx, http.MethodPut, "/user-management/update/"+url.PathEscape(id), u.tokens.AccessToken(), input, &wire); err != nil {
		return nil, err
	}
	return &wire.User, nil
}

// SetActive toggles an account without touching any other field.
func (u *Users) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	return u.Update(ctx, id, UpdateUser{IsActive: &active})
}

// Delete removes an account. The caller must pass DeleteConfirmation,
// typically collected from an operator typing the word out; anything else is
// rejected locally so a stray call can never destroy an account.
func (u *Users) Delete(ctx context.Context, id, confirmation string) error {
	if confirmation != DeleteConfirmation {
		return &GatewayError{Kind: KindValidation, Message: `deletion requires typed confirmation "DELETE"`}
	}
	err := u.gw.Call(ctx, http.MethodDelete, "/user-management/delete/"+url.PathEscape(id), u.tokens.AccessToken(), nil, nil)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

// ResetPassword asks the backend to email the account a reset link. The
// backend answers 202 whether or not mail delivery ultimately succeeds.
func (u *Users) ResetPassword(ctx context.Context, id string) error {
	return u.gw.Call(ctx, http.MethodPost, "/user-management/reset-password/"+url.PathEscape(id), u.tokens.AccessToken(), nil, nil)
}

// ChangePassword sets a new password after verifying the current one
// server-side. The new password is policy-checked locally first.
func (u *Users) ChangePassword(ctx context.Context, id, current, next string) error {
	if err := domain.CheckPassword(next); err != nil {
		return &GatewayError{Kind: KindValidation, Message: err.Error()}
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return u.gw.Call(ctx, http.MethodPost, "/user-management/change-password/"+url.PathEscape(id), u.tokens.AccessToken(), body, nil)
}
