package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-admin/internal/application/clinic"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
)

// ClinicHandler pacientes, consultas y resumen financiero.
type ClinicHandler struct {
	uc *clinic.ClinicUseCase
}

// NewClinicHandler construye el handler de clínica.
func NewClinicHandler(uc *clinic.ClinicUseCase) *ClinicHandler {
	return &ClinicHandler{uc: uc}
}

// ListPatients godoc
// @Summary      Listar pacientes
// @Tags         patients
// @Produce      json
// @Security     Session
// @Success      200  {object}  dto.PatientListResponse
// @Router       /api/patients [get]
func (h *ClinicHandler) ListPatients(c *fiber.Ctx) error {
	out, err := h.uc.Patients(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPatient godoc
// @Summary      Obtener paciente
// @Tags         patients
// @Produce      json
// @Security     Session
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.PatientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [get]
func (h *ClinicHandler) GetPatient(c *fiber.Ctx) error {
	out, err := h.uc.Patient(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePatient godoc
// @Summary      Registrar paciente
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.PatientRequest  true  "datos del paciente"
// @Success      201   {object}  dto.PatientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/patients [post]
func (h *ClinicHandler) CreatePatient(c *fiber.Ctx) error {
	var in dto.PatientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreatePatient(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListVisits godoc
// @Summary      Consultas de un paciente
// @Tags         patients
// @Produce      json
// @Security     Session
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.VisitListResponse
// @Router       /api/patients/{id}/visits [get]
func (h *ClinicHandler) ListVisits(c *fiber.Ctx) error {
	out, err := h.uc.Visits(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateVisit godoc
// @Summary      Registrar consulta
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        id    path  string            true  "ID del paciente"
// @Param        body  body  dto.VisitRequest  true  "motivo y notas"
// @Success      201   {object}  dto.VisitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/visits [post]
func (h *ClinicHandler) CreateVisit(c *fiber.Ctx) error {
	var in dto.VisitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateVisit(c.Context(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Finance godoc
// @Summary      Resumen financiero
// @Tags         finance
// @Produce      json
// @Security     Session
// @Success      200  {object}  dto.FinanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/finance/summary [get]
func (h *ClinicHandler) Finance(c *fiber.Ctx) error {
	out, err := h.uc.Finance(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
