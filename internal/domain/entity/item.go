package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PharmacyItem es un producto del inventario de farmacia.
// Quantity la calcula el backend a partir de las consignaciones.
type PharmacyItem struct {
	ID                string
	Name              string
	UnitName          string
	UnitPrice         decimal.Decimal
	Discount          decimal.Decimal // porcentaje 0-100
	Quantity          int64
	SalesInstructions string
	CreatedAt         time.Time
}

// DiscountedPrice precio unitario con el descuento aplicado, redondeado a 2 decimales.
func (i PharmacyItem) DiscountedPrice() decimal.Decimal {
	return applyDiscount(i.UnitPrice, i.Discount).Round(2)
}

// InStock informa si hay al menos qty unidades.
func (i PharmacyItem) InStock(qty int64) bool {
	return qty <= i.Quantity
}
