package pharmacy

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Consignments lista los lotes. Costos, pagos y saldos solo se muestran al superadmin.
func (uc *PharmacyUseCase) Consignments(ctx context.Context, sess *session.Session, refresh bool) (*dto.ConsignmentListResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	list, fromCache, err := uc.loadConsignments(ctx, sess, refresh)
	if err != nil {
		return nil, err
	}
	showMoney := sess.User().CanViewMoney()
	now := uc.now()
	out := &dto.ConsignmentListResponse{
		Items:        make([]dto.ConsignmentResponse, 0, len(list)),
		FromCache:    fromCache,
		MoneyVisible: showMoney,
	}
	for _, c := range list {
		out.Items = append(out.Items, toConsignmentResponse(c, showMoney, now))
	}
	out.Total = len(out.Items)
	return out, nil
}

// CreateConsignment registra un lote. El backend recalcula la existencia del producto,
// por eso se vuelven a traer consignaciones y productos.
func (uc *PharmacyUseCase) CreateConsignment(ctx context.Context, sess *session.Session, in dto.ConsignmentRequest) (*dto.ConsignmentResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	input, err := consignmentInput(in)
	if err != nil {
		return nil, err
	}
	created, err := uc.api.CreateConsignment(ctx, sess.Token, input)
	if err != nil {
		return nil, err
	}
	uc.reloadAfterConsignment(ctx, sess)
	uc.log.Info().
		Str("consignment_id", created.ID).
		Str("item_id", created.ItemID).
		Int64("quantity", created.Quantity).
		Msg("consignación registrada")
	out := toConsignmentResponse(*created, sess.User().CanViewMoney(), uc.now())
	return &out, nil
}

// UpdateConsignment edita un lote.
func (uc *PharmacyUseCase) UpdateConsignment(ctx context.Context, sess *session.Session, id string, in dto.ConsignmentRequest) (*dto.ConsignmentResponse, error) {
	if err := requireScreen(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	input, err := consignmentInput(in)
	if err != nil {
		return nil, err
	}
	updated, err := uc.api.UpdateConsignment(ctx, sess.Token, id, input)
	if err != nil {
		return nil, err
	}
	uc.reloadAfterConsignment(ctx, sess)
	out := toConsignmentResponse(*updated, sess.User().CanViewMoney(), uc.now())
	return &out, nil
}

func (uc *PharmacyUseCase) loadConsignments(ctx context.Context, sess *session.Session, refresh bool) ([]entity.Consignment, bool, error) {
	if !refresh {
		if cached, ok := sess.Cache.Consignments(); ok && len(cached) > 0 {
			return cached, true, nil
		}
	}
	list, err := uc.api.ListConsignments(ctx, sess.Token)
	if err != nil {
		return nil, false, err
	}
	sess.Cache.SetConsignments(list)
	return list, false, nil
}

func (uc *PharmacyUseCase) reloadAfterConsignment(ctx context.Context, sess *session.Session) {
	if list, err := uc.api.ListConsignments(ctx, sess.Token); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo refrescar la lista de consignaciones")
	} else {
		sess.Cache.SetConsignments(list)
	}
	uc.reloadItems(ctx, sess, nil)
}

// consignmentInput valida el formulario y lo convierte al puerto.
func consignmentInput(in dto.ConsignmentRequest) (ports.ConsignmentInput, error) {
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.BatchNumber = strings.TrimSpace(in.BatchNumber)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if err := validation.Struct(in); err != nil {
		return ports.ConsignmentInput{}, err
	}
	var fields []domain.FieldError
	if in.PurchaseCost.IsNegative() {
		fields = append(fields, domain.FieldError{Field: "purchase_cost", Message: "purchase_cost no puede ser negativo"})
	}
	if in.TotalPaid.IsNegative() {
		fields = append(fields, domain.FieldError{Field: "total_paid", Message: "total_paid no puede ser negativo"})
	}
	if in.TotalPaid.GreaterThan(in.PurchaseCost) {
		fields = append(fields, domain.FieldError{Field: "total_paid", Message: "total_paid no puede superar purchase_cost"})
	}
	// el formato ya lo revisó la etiqueta datetime
	purchase, _ := time.Parse(dateLayout, in.PurchaseDate)
	expiry, _ := time.Parse(dateLayout, in.ExpiryDate)
	if !expiry.After(purchase) {
		fields = append(fields, domain.FieldError{Field: "expiry_date", Message: "expiry_date debe ser posterior a purchase_date"})
	}
	if len(fields) > 0 {
		return ports.ConsignmentInput{}, &domain.ValidationError{Fields: fields}
	}
	return ports.ConsignmentInput{
		ItemID:       in.ItemID,
		BatchNumber:  in.BatchNumber,
		Quantity:     in.Quantity,
		PurchaseCost: in.PurchaseCost.Round(2),
		TotalPaid:    in.TotalPaid.Round(2),
		Supplier:     in.Supplier,
		PurchaseDate: purchase,
		ExpiryDate:   expiry,
	}, nil
}

func toConsignmentResponse(c entity.Consignment, showMoney bool, now time.Time) dto.ConsignmentResponse {
	out := dto.ConsignmentResponse{
		ID:           c.ID,
		ItemID:       c.ItemID,
		ItemName:     c.ItemName,
		BatchNumber:  c.BatchNumber,
		Quantity:     c.Quantity,
		Supplier:     c.Supplier,
		Expired:      c.IsExpired(now),
		ExpiringSoon: c.ExpiresWithin(now, expiryWarning),
		UploadedBy:   c.UploadedBy,
	}
	if showMoney {
		out.PurchaseCost = decimalPtr(c.PurchaseCost)
		out.TotalPaid = decimalPtr(c.TotalPaid)
		out.Balance = decimalPtr(c.Balance)
		out.PaymentStatus = c.PaymentStatus
	}
	if !c.PurchaseDate.IsZero() {
		t := c.PurchaseDate
		out.PurchaseDate = &t
	}
	if !c.ExpiryDate.IsZero() {
		t := c.ExpiryDate
		out.ExpiryDate = &t
	}
	return out
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
