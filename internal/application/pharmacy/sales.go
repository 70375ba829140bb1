package pharmacy

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// Sales lista las ventas.
func (uc *PharmacyUseCase) Sales(ctx context.Context, sess *session.Session, refresh bool) (*dto.SaleListResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	sales, fromCache, err := uc.loadSales(ctx, sess, refresh)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(sales)), FromCache: fromCache}
	for i := range sales {
		out.Items = append(out.Items, toSaleResponse(&sales[i]))
	}
	out.Total = len(out.Items)
	return out, nil
}

// CreateSale arma las líneas con el precio y descuento vigentes de cada producto,
// revisa la existencia y envía la venta con su total.
func (uc *PharmacyUseCase) CreateSale(ctx context.Context, sess *session.Session, in dto.SaleRequest) (*dto.SaleResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	items, _, err := uc.loadItems(ctx, sess, false)
	if err != nil {
		return nil, err
	}
	lines, err := buildSaleLines(in.Lines, items)
	if err != nil {
		return nil, err
	}
	total := entity.SaleTotal(lines)

	created, err := uc.api.CreateSale(ctx, sess.Token, ports.SaleInput{
		CustomerName: in.CustomerName,
		Lines:        lines,
		TotalAmount:  total,
	})
	if err != nil {
		return nil, err
	}
	// algunos despliegues del backend devuelven solo el id
	if len(created.Lines) == 0 {
		created.Lines = lines
	}
	if created.TotalAmount.IsZero() {
		created.TotalAmount = total
	}
	if created.CustomerName == "" {
		created.CustomerName = in.CustomerName
	}
	fillItemNames(created, items)

	uc.reloadAfterSale(ctx, sess, created)
	uc.log.Info().
		Str("sale_id", created.ID).
		Int("lines", len(lines)).
		Str("total", total.StringFixed(2)).
		Msg("venta registrada")
	out := toSaleResponse(created)
	return &out, nil
}

// SaleReceipt genera el recibo PDF de una venta. Devuelve los bytes y el nombre de archivo.
func (uc *PharmacyUseCase) SaleReceipt(ctx context.Context, sess *session.Session, id string) ([]byte, string, error) {
	if err := requireScreen(sess); err != nil {
		return nil, "", err
	}
	sale, err := uc.findSale(ctx, sess, id)
	if err != nil {
		return nil, "", err
	}
	if items, ok := sess.Cache.Items(); ok {
		fillItemNames(sale, items)
	}
	pdf, err := uc.receipts.SaleReceipt(ctx, sale, sess.User())
	if err != nil {
		return nil, "", fmt.Errorf("recibo de venta %s: %w", id, err)
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", sale.ID), nil
}

// ConsignmentReport genera el reporte PDF de lotes con la misma regla de montos del listado.
func (uc *PharmacyUseCase) ConsignmentReport(ctx context.Context, sess *session.Session) ([]byte, string, error) {
	if err := requireScreen(sess); err != nil {
		return nil, "", err
	}
	list, _, err := uc.loadConsignments(ctx, sess, false)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	user := sess.User()
	pdf, err := uc.receipts.ConsignmentReport(ctx, list, user.CanViewMoney(), user, now)
	if err != nil {
		return nil, "", fmt.Errorf("reporte de consignaciones: %w", err)
	}
	return pdf, fmt.Sprintf("consignaciones-%s.pdf", now.Format(dateLayout)), nil
}

func (uc *PharmacyUseCase) loadSales(ctx context.Context, sess *session.Session, refresh bool) ([]entity.Sale, bool, error) {
	if !refresh {
		if cached, ok := sess.Cache.Sales(); ok && len(cached) > 0 {
			return cached, true, nil
		}
	}
	sales, err := uc.api.ListSales(ctx, sess.Token)
	if err != nil {
		return nil, false, err
	}
	sess.Cache.SetSales(sales)
	return sales, false, nil
}

func (uc *PharmacyUseCase) findSale(ctx context.Context, sess *session.Session, id string) (*entity.Sale, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	if cached, ok := sess.Cache.Sales(); ok {
		for i := range cached {
			if cached[i].ID == id {
				sale := cached[i].Clone()
				return &sale, nil
			}
		}
	}
	return uc.api.GetSale(ctx, sess.Token, id)
}

// reloadAfterSale refresca ventas y productos (la existencia cambió). Si la lista de
// ventas falla, se agrega la venta creada a la caché.
func (uc *PharmacyUseCase) reloadAfterSale(ctx context.Context, sess *session.Session, created *entity.Sale) {
	if sales, err := uc.api.ListSales(ctx, sess.Token); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo refrescar la lista de ventas")
		cached, _ := sess.Cache.Sales()
		sess.Cache.SetSales(append([]entity.Sale{*created}, cached...))
	} else {
		sess.Cache.SetSales(sales)
	}
	uc.reloadItems(ctx, sess, nil)
}

// buildSaleLines resuelve cada línea contra la lista de productos. Las cantidades del
// mismo producto se suman antes de comparar con la existencia.
func buildSaleLines(req []dto.SaleLineRequest, items []entity.PharmacyItem) ([]entity.SaleLine, error) {
	byID := make(map[string]entity.PharmacyItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	var missing []domain.FieldError
	requested := make(map[string]int64, len(req))
	lines := make([]entity.SaleLine, 0, len(req))
	for i, l := range req {
		it, ok := byID[strings.TrimSpace(l.ItemID)]
		if !ok {
			missing = append(missing, domain.FieldError{
				Field:   fmt.Sprintf("lines[%d].item_id", i),
				Message: fmt.Sprintf("el producto %q no existe", l.ItemID),
			})
			continue
		}
		requested[it.ID] += l.Quantity
		lines = append(lines, entity.SaleLine{
			ItemID:    it.ID,
			ItemName:  it.Name,
			Quantity:  l.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			LineTotal: entity.LineTotal(l.Quantity, it.UnitPrice, it.Discount),
		})
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}
	for _, l := range lines {
		it := byID[l.ItemID]
		if !it.InStock(requested[it.ID]) {
			return nil, &domain.StockError{ItemName: it.Name, Requested: requested[it.ID], Available: it.Quantity}
		}
	}
	return lines, nil
}

func fillItemNames(sale *entity.Sale, items []entity.PharmacyItem) {
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}
	for i := range sale.Lines {
		if sale.Lines[i].ItemName == "" {
			sale.Lines[i].ItemName = names[sale.Lines[i].ItemID]
		}
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:           s.ID,
		CustomerName: s.CustomerName,
		Lines:        make([]dto.SaleLineResponse, 0, len(s.Lines)),
		TotalAmount:  s.TotalAmount,
		UploadedBy:   s.UploadedBy,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			LineTotal: l.LineTotal,
		})
	}
	if !s.CreatedAt.IsZero() {
		t := s.CreatedAt
		out.CreatedAt = &t
	}
	return out
}
