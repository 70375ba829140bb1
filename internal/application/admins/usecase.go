package admins

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/auth"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// AdminsUseCase gestión de administradores. Solo el superadmin ve esta pantalla.
type AdminsUseCase struct {
	api ports.UsersAPI
	log zerolog.Logger
}

// NewAdminsUseCase construye el caso de uso.
func NewAdminsUseCase(api ports.UsersAPI, log zerolog.Logger) *AdminsUseCase {
	return &AdminsUseCase{api: api, log: log}
}

// List devuelve los usuarios registrados en el backend.
func (uc *AdminsUseCase) List(ctx context.Context, sess *session.Session) (*dto.UserListResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	return uc.listUsers(ctx, sess)
}

// Create da de alta un administrador y devuelve la lista refrescada. La confirmación de
// contraseña se revisa antes de cualquier llamada al backend.
func (uc *AdminsUseCase) Create(ctx context.Context, sess *session.Session, in dto.CreateAdminRequest) (*dto.AdminMutationResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = entity.RoleAdmin
	}
	created, err := uc.api.CreateAdmin(ctx, sess.Token, ports.NewAdmin{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Password:   in.Password,
		Role:       in.Role,
		Permission: in.Permission,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("user_id", created.ID).
		Str("role", created.Role).
		Str("by", sess.User().ID).
		Msg("administrador creado")
	user := auth.ToUserResponse(*created)
	return uc.refreshed(ctx, sess, &dto.AdminMutationResponse{User: &user}), nil
}

// Delete borra un administrador y devuelve la lista refrescada. No se permite borrar la
// cuenta propia.
func (uc *AdminsUseCase) Delete(ctx context.Context, sess *session.Session, id string) (*dto.AdminMutationResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	if id == sess.User().ID {
		return nil, domain.NewValidationError("id", "no puede borrar su propia cuenta")
	}
	if err := uc.api.DeleteUser(ctx, sess.Token, id); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", id).Str("by", sess.User().ID).Msg("administrador borrado")
	return uc.refreshed(ctx, sess, &dto.AdminMutationResponse{Message: "administrador eliminado"}), nil
}

// UpdatePermission cambia la etiqueta de permiso de un administrador.
func (uc *AdminsUseCase) UpdatePermission(ctx context.Context, sess *session.Session, id string, in dto.UpdatePermissionRequest) (*dto.AdminMutationResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	updated, err := uc.api.UpdatePermission(ctx, sess.Token, id, in.Permission)
	if err != nil {
		return nil, err
	}
	user := auth.ToUserResponse(*updated)
	return uc.refreshed(ctx, sess, &dto.AdminMutationResponse{User: &user}), nil
}

func (uc *AdminsUseCase) listUsers(ctx context.Context, sess *session.Session) (*dto.UserListResponse, error) {
	users, err := uc.api.ListUsers(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{Items: make([]dto.UserResponse, 0, len(users)), Total: len(users)}
	for _, u := range users {
		out.Items = append(out.Items, auth.ToUserResponse(u))
	}
	return out, nil
}

// refreshed vuelve a pedir la lista tras una mutación. La mutación ya se hizo, así que un
// fallo del listado solo se registra.
func (uc *AdminsUseCase) refreshed(ctx context.Context, sess *session.Session, out *dto.AdminMutationResponse) *dto.AdminMutationResponse {
	list, err := uc.listUsers(ctx, sess)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo refrescar la lista de administradores")
		return out
	}
	out.Admins = list
	out.Refreshed = true
	return out
}

func requireScreen(sess *session.Session) error {
	if !sess.User().CanSee(entity.ScreenAdmins) {
		return domain.ErrForbidden
	}
	return nil
}
