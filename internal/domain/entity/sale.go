package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SaleLine línea de una venta.
type SaleLine struct {
	ItemID    string
	ItemName  string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // porcentaje 0-100
	LineTotal decimal.Decimal
}

// Sale transacción de venta registrada en el backend.
type Sale struct {
	ID           string
	CustomerName string
	Lines        []SaleLine
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
	UploadedBy   string
}

// Clone copia la venta con sus propias líneas.
func (s Sale) Clone() Sale {
	s.Lines = append([]SaleLine(nil), s.Lines...)
	return s
}

// LineTotal = qty × precio × (100 − descuento) / 100, redondeado a 2 decimales.
func LineTotal(qty int64, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return applyDiscount(unitPrice.Mul(decimal.NewFromInt(qty)), discount).Round(2)
}

// SaleTotal suma los LineTotal de las líneas.
func SaleTotal(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total.Round(2)
}

func applyDiscount(amount, discount decimal.Decimal) decimal.Decimal {
	if discount.IsZero() || discount.IsNegative() {
		return amount
	}
	if discount.GreaterThan(hundred) {
		discount = hundred
	}
	return amount.Mul(hundred.Sub(discount)).Div(hundred)
}
