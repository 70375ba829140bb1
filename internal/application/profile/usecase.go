package profile

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/auth"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// ProfileUseCase pantalla de perfil: ver, editar y cambiar contraseña.
type ProfileUseCase struct {
	api   ports.AuthAPI
	store session.Store
	log   zerolog.Logger
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(api ports.AuthAPI, store session.Store, log zerolog.Logger) *ProfileUseCase {
	return &ProfileUseCase{api: api, store: store, log: log}
}

// Get vuelve a pedir /profile y actualiza el usuario de la sesión.
func (uc *ProfileUseCase) Get(ctx context.Context, sess *session.Session) (*dto.ProfileResponse, error) {
	u, err := uc.api.Profile(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	merged, err := uc.setUser(ctx, sess, *u)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(merged), nil
}

// Update edita nombre y apellido.
func (uc *ProfileUseCase) Update(ctx context.Context, sess *session.Session, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := uc.api.UpdateProfile(ctx, sess.Token, ports.ProfileUpdate{FirstName: in.FirstName, LastName: in.LastName})
	if err != nil {
		return nil, err
	}
	merged, err := uc.setUser(ctx, sess, *u)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(merged), nil
}

// ChangePassword cambia la contraseña. Confirmación y diferencia con la actual se revisan localmente.
func (uc *ProfileUseCase) ChangePassword(ctx context.Context, sess *session.Session, in dto.ChangePasswordRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := uc.api.ChangePassword(ctx, sess.Token, in.CurrentPassword, in.NewPassword); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", sess.User().ID).Msg("contraseña cambiada")
	return nil
}

// setUser guarda en la sesión el usuario recibido y devuelve el resultado de la mezcla.
func (uc *ProfileUseCase) setUser(ctx context.Context, sess *session.Session, u entity.User) (entity.User, error) {
	// el backend a veces omite el rol en /profile; se conserva el de la sesión
	prev := sess.User()
	if u.Role == "" {
		u.Role = prev.Role
	}
	if u.Permission == "" {
		u.Permission = prev.Permission
	}
	sess.SetUser(u)
	return u, uc.store.Save(ctx, sess)
}

func toProfileResponse(u entity.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		User:         auth.ToUserResponse(u),
		Screens:      u.VisibleScreens(),
		CanViewMoney: u.CanViewMoney(),
	}
}
