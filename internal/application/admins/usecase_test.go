package admins_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-admin/internal/application/admins"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

type fakeUsersAPI struct {
	calls      int
	listCalls  int
	listErr    error
	users      []entity.User
	created    ports.NewAdmin
	deletedID  string
	permission string
}

func (f *fakeUsersAPI) ListUsers(_ context.Context, _ string) ([]entity.User, error) {
	f.calls++
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.users, nil
}

func (f *fakeUsersAPI) CreateAdmin(_ context.Context, _ string, in ports.NewAdmin) (*entity.User, error) {
	f.calls++
	f.created = in
	return &entity.User{ID: "nuevo", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Role: in.Role, Permission: in.Permission}, nil
}

func (f *fakeUsersAPI) DeleteUser(_ context.Context, _, id string) error {
	f.calls++
	f.deletedID = id
	return nil
}

func (f *fakeUsersAPI) UpdatePermission(_ context.Context, _, id, permission string) (*entity.User, error) {
	f.calls++
	f.permission = permission
	return &entity.User{ID: id, Role: entity.RoleAdmin, Permission: permission}, nil
}

func superSession() *session.Session {
	return session.New("tok", entity.User{ID: "sa", Role: entity.RoleSuperAdmin}, time.Now(), time.Hour)
}

func validAdmin() dto.CreateAdminRequest {
	return dto.CreateAdminRequest{
		FirstName:            "Luis",
		LastName:             "Gómez",
		Email:                "luis@farmacia.test",
		Password:             "clave-segura",
		PasswordConfirmation: "clave-segura",
		Permission:           entity.PermissionOverTheCounter,
	}
}

func TestCreate_ConfirmacionDistintaSeRechazaSinLlamar(t *testing.T) {
	api := &fakeUsersAPI{}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())
	in := validAdmin()
	in.PasswordConfirmation = "otra-clave"

	_, err := uc.Create(context.Background(), superSession(), in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password_confirmation", ve.Fields[0].Field)
	assert.Equal(t, "las contraseñas no coinciden", ve.Fields[0].Message)
	assert.Zero(t, api.calls, "no debe haber llamadas al backend")
}

func TestCreate_OKConRolPorDefecto(t *testing.T) {
	api := &fakeUsersAPI{}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())

	out, err := uc.Create(context.Background(), superSession(), validAdmin())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, api.created.Role)
	require.NotNil(t, out.User)
	assert.Equal(t, "Luis Gómez", out.User.FullName)
}

func TestCreate_PermisoInvalido(t *testing.T) {
	api := &fakeUsersAPI{}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())
	in := validAdmin()
	in.Permission = "root"

	_, err := uc.Create(context.Background(), superSession(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.calls)
}

func TestPantallaSoloParaSuperadmin(t *testing.T) {
	api := &fakeUsersAPI{}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())
	sess := session.New("tok", entity.User{ID: "a", Role: entity.RoleAdmin, Permission: entity.PermissionOverTheCounter}, time.Now(), time.Hour)

	_, err := uc.List(context.Background(), sess)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(context.Background(), sess, validAdmin())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Delete(context.Background(), sess, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, api.calls)
}

func TestList(t *testing.T) {
	api := &fakeUsersAPI{users: []entity.User{{ID: "1", Email: "a@b.co"}, {ID: "2", FirstName: "Eva"}}}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())

	out, err := uc.List(context.Background(), superSession())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, "a@b.co", out.Items[0].FullName)
}

func TestDelete_NoSePuedeBorrarASiMismo(t *testing.T) {
	api := &fakeUsersAPI{}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())

	_, err := uc.Delete(context.Background(), superSession(), "sa")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.calls)

	_, err = uc.Delete(context.Background(), superSession(), "otro")
	require.NoError(t, err)
	assert.Equal(t, "otro", api.deletedID)
}

func TestUpdatePermission(t *testing.T) {
	api := &fakeUsersAPI{}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())

	_, err := uc.UpdatePermission(context.Background(), superSession(), "u2", dto.UpdatePermissionRequest{Permission: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := uc.UpdatePermission(context.Background(), superSession(), "u2", dto.UpdatePermissionRequest{Permission: entity.PermissionOutDoorPatient})
	require.NoError(t, err)
	require.NotNil(t, out.User)
	assert.Equal(t, entity.PermissionOutDoorPatient, out.User.Permission)
	assert.Equal(t, 2, api.calls, "cambio de permiso y refresco de la lista")
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresco tras mutación
// ──────────────────────────────────────────────────────────────────────────────

func TestMutaciones_RefrescanLaLista(t *testing.T) {
	api := &fakeUsersAPI{users: []entity.User{{ID: "sa", Role: entity.RoleSuperAdmin}, {ID: "nuevo", FirstName: "Luis"}}}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())
	ctx := context.Background()

	created, err := uc.Create(ctx, superSession(), validAdmin())
	require.NoError(t, err)
	assert.True(t, created.Refreshed)
	require.NotNil(t, created.Admins)
	assert.Equal(t, 2, created.Admins.Total)

	updated, err := uc.UpdatePermission(ctx, superSession(), "nuevo", dto.UpdatePermissionRequest{Permission: entity.PermissionOutDoorPatient})
	require.NoError(t, err)
	assert.True(t, updated.Refreshed)

	deleted, err := uc.Delete(ctx, superSession(), "nuevo")
	require.NoError(t, err)
	assert.True(t, deleted.Refreshed)
	assert.Equal(t, "administrador eliminado", deleted.Message)
	assert.Nil(t, deleted.User)

	assert.Equal(t, 3, api.listCalls, "una consulta de la lista por mutación")
}

func TestMutaciones_FalloDelRefrescoNoAnulaLaOperacion(t *testing.T) {
	api := &fakeUsersAPI{listErr: errors.New("backend caído")}
	uc := admins.NewAdminsUseCase(api, zerolog.Nop())

	out, err := uc.Create(context.Background(), superSession(), validAdmin())
	require.NoError(t, err, "el alta ya se hizo en el backend")
	assert.False(t, out.Refreshed)
	assert.Nil(t, out.Admins)
	require.NotNil(t, out.User)
	assert.Equal(t, "nuevo", out.User.ID)

	_, err = uc.Delete(context.Background(), superSession(), "nuevo")
	require.NoError(t, err)
	assert.Equal(t, "nuevo", api.deletedID)
}
