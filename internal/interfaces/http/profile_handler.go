package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/profile"
)

// ProfileHandler pantalla de perfil del usuario autenticado.
type ProfileHandler struct {
	uc *profile.ProfileUseCase
}

// NewProfileHandler construye el handler de perfil.
func NewProfileHandler(uc *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get godoc
// @Summary      Perfil actual
// @Description  Vuelve a leer el perfil del backend e incluye las pantallas visibles.
// @Tags         profile
// @Produce      json
// @Security     Session
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nombre y apellido
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.UpdateProfileRequest  true  "first_name, last_name"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.ChangePasswordRequest  true  "contraseña actual, nueva y confirmación"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile/password [put]
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.ChangePassword(c.Context(), GetSession(c), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}
