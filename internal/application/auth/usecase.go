package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// AuthUseCase ingreso, cierre de sesión y recuperación de cuenta contra el backend.
type AuthUseCase struct {
	api   ports.AuthAPI
	store session.Store
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. ttl es la duración máxima de la sesión.
func NewAuthUseCase(api ports.AuthAPI, store session.Store, ttl time.Duration, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{api: api, store: store, ttl: ttl, log: log, now: time.Now}
}

// Login valida el formulario, autentica contra el backend y guarda la sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*session.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	res, err := uc.api.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	sess := session.New(res.Token, res.User, uc.now(), uc.ttl)
	if err := uc.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("session_id", sess.ID).
		Str("user_id", res.User.ID).
		Str("role", res.User.Role).
		Msg("sesión iniciada")
	return sess, nil
}

// Logout borra la sesión. Una sesión inexistente no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	uc.log.Info().Str("session_id", sessionID).Msg("sesión cerrada")
	return nil
}

// ForgotPassword pide al backend el correo de recuperación.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.EmailRequest) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	return uc.api.ForgotPassword(ctx, in.Email)
}

// ResetPassword fija la nueva contraseña. La confirmación se revisa antes de llamar al backend.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validation.Struct(in); err != nil {
		return err
	}
	return uc.api.ResetPassword(ctx, in.Token, in.Password)
}

// VerifyEmail confirma el email con el código recibido.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, in dto.VerifyEmailRequest) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	if err := validation.Struct(in); err != nil {
		return err
	}
	return uc.api.VerifyEmail(ctx, in.Email, in.Code)
}

// ResendVerification reenvía el código de verificación.
func (uc *AuthUseCase) ResendVerification(ctx context.Context, in dto.EmailRequest) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	return uc.api.ResendVerification(ctx, in.Email)
}

// ToUserResponse convierte un usuario de dominio en su DTO.
func ToUserResponse(u entity.User) dto.UserResponse {
	out := dto.UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Email:      u.Email,
		Role:       u.Role,
		Permission: u.Permission,
		Verified:   u.Verified,
	}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

// ToLoginResponse arma la respuesta del ingreso a partir de la sesión creada.
func ToLoginResponse(sess *session.Session) *dto.LoginResponse {
	u := sess.User()
	return &dto.LoginResponse{
		User:      ToUserResponse(u),
		Screens:   u.VisibleScreens(),
		ExpiresAt: sess.ExpiresAt,
	}
}
