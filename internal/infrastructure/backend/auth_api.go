package backend

import (
	"context"
	"net/http"

	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var _ ports.AuthAPI = (*Client)(nil)

// Login POST /login (público).
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out wireLogin
	if err := c.do(ctx, http.MethodPost, "/login", in, &out, NoAuth()); err != nil {
		return nil, err
	}
	if err := c.check("login", out); err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: out.Token, User: out.User.toEntity()}, nil
}

// VerifyEmail POST /verify-email con el código recibido por correo.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	in := map[string]string{"email": email, "code": code}
	return c.do(ctx, http.MethodPost, "/verify-email", in, nil, NoAuth())
}

// ResendVerification POST /resend-verification.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/resend-verification", map[string]string{"email": email}, nil, NoAuth())
}

// ForgotPassword POST /forgot-password: el backend envía el enlace de recuperación.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/forgot-password", map[string]string{"email": email}, nil, NoAuth())
}

// ResetPassword POST /reset-password con el token del enlace.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	in := map[string]string{"token": resetToken, "password": password}
	return c.do(ctx, http.MethodPost, "/reset-password", in, nil, NoAuth())
}

// Profile GET /profile.
func (c *Client) Profile(ctx context.Context, token string) (*entity.User, error) {
	return c.userRequest(ctx, http.MethodGet, "/profile", nil, token)
}

// UpdateProfile PUT /update-profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, in ports.ProfileUpdate) (*entity.User, error) {
	return c.userRequest(ctx, http.MethodPut, "/update-profile", in, token)
}

// ChangePassword PUT /change-password.
func (c *Client) ChangePassword(ctx context.Context, token, current, next string) error {
	in := map[string]string{"current_password": current, "new_password": next}
	return c.do(ctx, http.MethodPut, "/change-password", in, nil, UseToken(token))
}

func (c *Client) userRequest(ctx context.Context, method, path string, in any, token string) (*entity.User, error) {
	var out wireUser
	if err := c.do(ctx, method, path, in, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("user", out); err != nil {
		return nil, err
	}
	u := out.toEntity()
	return &u, nil
}
