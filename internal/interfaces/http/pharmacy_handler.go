package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/pharmacy"
)

// PharmacyHandler productos, consignaciones y ventas de la farmacia.
type PharmacyHandler struct {
	uc *pharmacy.PharmacyUseCase
}

// NewPharmacyHandler construye el handler de farmacia.
func NewPharmacyHandler(uc *pharmacy.PharmacyUseCase) *PharmacyHandler {
	return &PharmacyHandler{uc: uc}
}

// ListItems godoc
// @Summary      Listar productos
// @Description  Sirve la caché de la sesión salvo refresh=true; búsqueda y orden en memoria.
// @Tags         pharmacy
// @Produce      json
// @Security     Session
// @Param        q        query  string  false  "búsqueda por nombre o unidad"
// @Param        sort     query  string  false  "name, unit_price, quantity, created_at"
// @Param        desc     query  bool    false  "orden descendente"
// @Param        refresh  query  bool    false  "forzar lectura del backend"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/items [get]
func (h *PharmacyHandler) ListItems(c *fiber.Ctx) error {
	var q dto.ItemQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Items(c.Context(), GetSession(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateItem godoc
// @Summary      Crear producto
// @Tags         pharmacy
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.ItemRequest  true  "name, unit_name, unit_price, discount"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/items [post]
func (h *PharmacyHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateItem(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar producto
// @Tags         pharmacy
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        id    path  string           true  "ID del producto"
// @Param        body  body  dto.ItemRequest  true  "campos del producto"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/items/{id} [put]
func (h *PharmacyHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateItem(c.Context(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Quitar producto de la lista
// @Description  Solo afecta la caché de la sesión; el backend no se entera (persisted=false).
// @Tags         pharmacy
// @Produce      json
// @Security     Session
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DeleteItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/items/{id} [delete]
func (h *PharmacyHandler) DeleteItem(c *fiber.Ctx) error {
	out, err := h.uc.DeleteItem(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListConsignments godoc
// @Summary      Listar consignaciones
// @Description  Los montos solo aparecen para superadmin.
// @Tags         pharmacy
// @Produce      json
// @Security     Session
// @Param        refresh  query  bool  false  "forzar lectura del backend"
// @Success      200  {object}  dto.ConsignmentListResponse
// @Router       /api/pharmacy/consignments [get]
func (h *PharmacyHandler) ListConsignments(c *fiber.Ctx) error {
	out, err := h.uc.Consignments(c.Context(), GetSession(c), c.QueryBool("refresh"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateConsignment godoc
// @Summary      Registrar consignación
// @Tags         pharmacy
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.ConsignmentRequest  true  "lote recibido"
// @Success      201   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/consignments [post]
func (h *PharmacyHandler) CreateConsignment(c *fiber.Ctx) error {
	var in dto.ConsignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateConsignment(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateConsignment godoc
// @Summary      Actualizar consignación
// @Tags         pharmacy
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        id    path  string                  true  "ID de la consignación"
// @Param        body  body  dto.ConsignmentRequest  true  "lote"
// @Success      200   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/consignments/{id} [put]
func (h *PharmacyHandler) UpdateConsignment(c *fiber.Ctx) error {
	var in dto.ConsignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateConsignment(c.Context(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ConsignmentReport godoc
// @Summary      Reporte PDF de consignaciones
// @Tags         pharmacy
// @Produce      application/pdf
// @Security     Session
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/consignments/report [get]
func (h *PharmacyHandler) ConsignmentReport(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.ConsignmentReport(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         pharmacy
// @Produce      json
// @Security     Session
// @Param        refresh  query  bool  false  "forzar lectura del backend"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/pharmacy/sales [get]
func (h *PharmacyHandler) ListSales(c *fiber.Ctx) error {
	out, err := h.uc.Sales(c.Context(), GetSession(c), c.QueryBool("refresh"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Precio y descuento salen de la lista de productos; el total se calcula aquí.
// @Tags         pharmacy
// @Accept       json
// @Produce      json
// @Security     Session
// @Param        body  body  dto.SaleRequest  true  "cliente y líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/sales [post]
func (h *PharmacyHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateSale(c.Context(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SaleReceipt godoc
// @Summary      Recibo PDF de una venta
// @Tags         pharmacy
// @Produce      application/pdf
// @Security     Session
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/sales/{id}/receipt [get]
func (h *PharmacyHandler) SaleReceipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.SaleReceipt(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}
