package pharmacy

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// ReceiptGenerator genera los documentos imprimibles de la farmacia en PDF.
type ReceiptGenerator interface {
	// SaleReceipt recibo de una venta para entregar al cliente.
	SaleReceipt(ctx context.Context, sale *entity.Sale, cashier entity.User) ([]byte, error)
	// ConsignmentReport listado de lotes; los montos solo aparecen si showMoney es true.
	ConsignmentReport(ctx context.Context, list []entity.Consignment, showMoney bool, generatedBy entity.User, at time.Time) ([]byte, error)
}
