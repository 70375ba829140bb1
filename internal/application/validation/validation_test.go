package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
)

type form struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Confirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Lines        []line `json:"lines" validate:"required,min=1,dive"`
}

type line struct {
	Quantity int64 `json:"quantity" validate:"gt=0"`
}

func TestStruct_Valido(t *testing.T) {
	err := validation.Struct(form{
		Email:        "ana@farmacia.test",
		Password:     "secreto123",
		Confirmation: "secreto123",
		Lines:        []line{{Quantity: 1}},
	})
	assert.NoError(t, err)
}

func TestStruct_CamposConNombreJSON(t *testing.T) {
	err := validation.Struct(form{
		Email:        "no-es-email",
		Password:     "corta",
		Confirmation: "otra",
		Lines:        []line{{Quantity: 0}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	byField := map[string]string{}
	for _, f := range ve.Fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "email no es un email válido", byField["email"])
	assert.Equal(t, "password debe tener al menos 8 caracteres", byField["password"])
	assert.Equal(t, "las contraseñas no coinciden", byField["password_confirmation"])
	assert.Equal(t, "quantity debe ser mayor que 0", byField["lines[0].quantity"])
}

func TestStruct_ListaVacia(t *testing.T) {
	err := validation.Struct(form{Email: "a@b.co", Password: "12345678", Confirmation: "12345678"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "lines", ve.Fields[0].Field)
}

func TestMerge(t *testing.T) {
	assert.NoError(t, validation.Merge(nil, nil))

	err := validation.Merge(
		domain.NewValidationError("a", "a mal"),
		nil,
		domain.NewValidationError("b", "b mal"),
	)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "a mal; b mal", err.Error())

	other := errors.New("otro")
	assert.Equal(t, other, validation.Merge(domain.NewValidationError("a", "x"), other))
}
