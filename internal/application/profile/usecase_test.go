package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/profile"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

type fakeAPI struct {
	ports.AuthAPI // los métodos no usados hacen panic

	profile      entity.User
	tokens       []string
	updated      ports.ProfileUpdate
	passwordHits int
}

func (f *fakeAPI) Profile(_ context.Context, token string) (*entity.User, error) {
	f.tokens = append(f.tokens, token)
	u := f.profile
	return &u, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, token string, in ports.ProfileUpdate) (*entity.User, error) {
	f.tokens = append(f.tokens, token)
	f.updated = in
	u := f.profile
	u.FirstName, u.LastName = in.FirstName, in.LastName
	return &u, nil
}

func (f *fakeAPI) ChangePassword(_ context.Context, token, _, _ string) error {
	f.tokens = append(f.tokens, token)
	f.passwordHits++
	return nil
}

func setup(t *testing.T) (*profile.ProfileUseCase, *fakeAPI, *session.Session, *session.MemoryStore) {
	t.Helper()
	api := &fakeAPI{profile: entity.User{ID: "u1", FirstName: "Ana", Email: "ana@farmacia.test", Role: entity.RoleAdmin, Permission: entity.PermissionOverTheCounter}}
	store := session.NewMemoryStore()
	sess := session.New("tok-1", entity.User{ID: "u1", Role: entity.RoleAdmin, Permission: entity.PermissionOverTheCounter}, time.Now(), time.Hour)
	require.NoError(t, store.Save(context.Background(), sess))
	return profile.NewProfileUseCase(api, store, zerolog.Nop()), api, sess, store
}

func TestGet_RefrescaUsuarioDeLaSesion(t *testing.T) {
	uc, api, sess, _ := setup(t)

	out, err := uc.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, api.tokens, "usa el token de la sesión")
	assert.Equal(t, "Ana", sess.User().FirstName)
	assert.Equal(t, []string{entity.ScreenProfile, entity.ScreenPharmacy}, out.Screens)
	assert.False(t, out.CanViewMoney)
}

func TestGet_ConservaRolSiElBackendLoOmite(t *testing.T) {
	uc, api, sess, _ := setup(t)
	api.profile.Role = ""
	api.profile.Permission = ""

	out, err := uc.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.Equal(t, entity.PermissionOverTheCounter, sess.User().Permission)
}

func TestGet_SuperadminSinRolEnBackend_ConservaPantallas(t *testing.T) {
	uc, api, sess, _ := setup(t)
	sess.SetUser(entity.User{ID: "u1", Role: entity.RoleSuperAdmin})
	api.profile.Role = ""
	api.profile.Permission = ""

	out, err := uc.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, out.User.Role)
	assert.Equal(t, []string{entity.ScreenProfile, entity.ScreenPharmacy, entity.ScreenPatients, entity.ScreenAdmins, entity.ScreenFinance}, out.Screens)
	assert.True(t, out.CanViewMoney)
}

func TestUpdate_ConservaRolSiElBackendLoOmite(t *testing.T) {
	uc, api, sess, _ := setup(t)
	api.profile.Role = ""
	api.profile.Permission = ""

	out, err := uc.Update(context.Background(), sess, dto.UpdateProfileRequest{FirstName: "Ana", LastName: "Pérez"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.Equal(t, entity.PermissionOverTheCounter, out.User.Permission)
	assert.Equal(t, []string{entity.ScreenProfile, entity.ScreenPharmacy}, out.Screens)
}

func TestUpdate_Valida(t *testing.T) {
	uc, api, sess, _ := setup(t)

	_, err := uc.Update(context.Background(), sess, dto.UpdateProfileRequest{FirstName: "  ", LastName: "Pérez"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, api.tokens)

	out, err := uc.Update(context.Background(), sess, dto.UpdateProfileRequest{FirstName: " Ana María ", LastName: "Pérez"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", api.updated.FirstName)
	assert.Equal(t, "Ana María Pérez", out.User.FullName)
	assert.Equal(t, "Ana María Pérez", sess.User().FullName())
}

func TestChangePassword_ConfirmacionDistinta(t *testing.T) {
	uc, api, sess, _ := setup(t)

	err := uc.ChangePassword(context.Background(), sess, dto.ChangePasswordRequest{
		CurrentPassword:         "actual-123",
		NewPassword:             "nueva-1234",
		NewPasswordConfirmation: "nueva-9999",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.passwordHits)
}

func TestChangePassword_IgualALaActual(t *testing.T) {
	uc, api, sess, _ := setup(t)

	err := uc.ChangePassword(context.Background(), sess, dto.ChangePasswordRequest{
		CurrentPassword:         "misma-clave",
		NewPassword:             "misma-clave",
		NewPasswordConfirmation: "misma-clave",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.passwordHits)
}

func TestChangePassword_OK(t *testing.T) {
	uc, api, sess, _ := setup(t)

	err := uc.ChangePassword(context.Background(), sess, dto.ChangePasswordRequest{
		CurrentPassword:         "actual-123",
		NewPassword:             "nueva-1234",
		NewPasswordConfirmation: "nueva-1234",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, api.passwordHits)
}
