package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-admin/internal/application/admins"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
)

// AdminsHandler gestión de usuarios administradores (solo superadmin).
type AdminsHandler struct {
	uc *admins.AdminsUseCase
}

// NewAdminsHandler construye el handler de administradores.
func NewAdminsHandler(uc *admins.AdminsUseCase) *AdminsHandler {
	return &AdminsHandler{uc: uc}
}

// List godoc
// @Summary      Listar administradores
// @Tags         admins
// @Produce      json
// @Security     Session
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admins [get]
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear administrador
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.CreateAdminRequest  true  "datos del administrador"
// @Success      201   {object}  dto.AdminMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admins [post]
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar administrador
// @Tags         admins
// @Produce      json
// @Security     Session
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.AdminMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admins/{id} [delete]
func (h *AdminsHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePermission godoc
// @Summary      Cambiar permiso de un administrador
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        id    path  string                       true  "ID del usuario"
// @Param        body  body  dto.UpdatePermissionRequest  true  "permission"
// @Success      200   {object}  dto.AdminMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admins/{id}/permission [put]
func (h *AdminsHandler) UpdatePermission(c *fiber.Ctx) error {
	var in dto.UpdatePermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePermission(c.Context(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
