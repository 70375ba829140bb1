package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una consignación.
const (
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
	PaymentUnpaid  = "unpaid"
)

// Consignment es un lote de reposición de un PharmacyItem.
// Balance y PaymentStatus los deriva el backend.
type Consignment struct {
	ID            string
	ItemID        string
	ItemName      string
	BatchNumber   string
	Quantity      int64
	PurchaseCost  decimal.Decimal
	TotalPaid     decimal.Decimal
	Balance       decimal.Decimal
	PaymentStatus string
	Supplier      string
	PurchaseDate  time.Time
	ExpiryDate    time.Time
	UploadedBy    string
}

// IsExpired informa si el lote venció a la fecha now.
func (c Consignment) IsExpired(now time.Time) bool {
	return !c.ExpiryDate.IsZero() && !now.Before(c.ExpiryDate)
}

// ExpiresWithin informa si el lote vence dentro de d (y aún no venció).
func (c Consignment) ExpiresWithin(now time.Time, d time.Duration) bool {
	if c.ExpiryDate.IsZero() || c.IsExpired(now) {
		return false
	}
	return c.ExpiryDate.Before(now.Add(d))
}
