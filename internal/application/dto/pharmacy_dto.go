package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemQuery filtros del listado de productos.
type ItemQuery struct {
	Search  string `query:"q"`
	SortBy  string `query:"sort" validate:"omitempty,oneof=name unit_price quantity created_at"`
	Desc    bool   `query:"desc"`
	Refresh bool   `query:"refresh"`
}

// ItemRequest alta o edición de un producto. Discount es un porcentaje (0-100).
type ItemRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	UnitName          string          `json:"unit_name" validate:"required,max=50"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	SalesInstructions string          `json:"sales_instructions"`
}

// ItemResponse salida de un producto.
type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	UnitName          string          `json:"unit_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	DiscountedPrice   decimal.Decimal `json:"discounted_price"`
	Quantity          int64           `json:"quantity"`
	InStock           bool            `json:"in_stock"`
	SalesInstructions string          `json:"sales_instructions,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
}

// ItemListResponse listado de productos. FromCache indica que no hubo consulta al backend.
type ItemListResponse struct {
	Items     []ItemResponse `json:"items"`
	Total     int            `json:"total"`
	FromCache bool           `json:"from_cache"`
}

// DeleteItemResponse resultado de quitar un producto. Persisted es false mientras el
// backend no ofrezca borrado: el producto solo desaparece de la lista de esta sesión.
type DeleteItemResponse struct {
	ID        string `json:"id"`
	Persisted bool   `json:"persisted"`
	Message   string `json:"message"`
}

// ConsignmentRequest alta o edición de una consignación. Fechas en formato AAAA-MM-DD.
type ConsignmentRequest struct {
	ItemID       string          `json:"item_id" validate:"required"`
	BatchNumber  string          `json:"batch_number" validate:"required,max=100"`
	Quantity     int64           `json:"quantity" validate:"gt=0"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Supplier     string          `json:"supplier" validate:"required,max=200"`
	PurchaseDate string          `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate   string          `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

// ConsignmentResponse salida de una consignación. Los montos solo se incluyen si el
// usuario puede verlos.
type ConsignmentResponse struct {
	ID            string           `json:"id"`
	ItemID        string           `json:"item_id"`
	ItemName      string           `json:"item_name"`
	BatchNumber   string           `json:"batch_number"`
	Quantity      int64            `json:"quantity"`
	PurchaseCost  *decimal.Decimal `json:"purchase_cost,omitempty"`
	TotalPaid     *decimal.Decimal `json:"total_paid,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	PaymentStatus string           `json:"payment_status,omitempty"`
	Supplier      string           `json:"supplier"`
	PurchaseDate  *time.Time       `json:"purchase_date,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	Expired       bool             `json:"expired"`
	ExpiringSoon  bool             `json:"expiring_soon"`
	UploadedBy    string           `json:"uploaded_by,omitempty"`
}

// ConsignmentListResponse listado de consignaciones.
type ConsignmentListResponse struct {
	Items        []ConsignmentResponse `json:"items"`
	Total        int                   `json:"total"`
	FromCache    bool                  `json:"from_cache"`
	MoneyVisible bool                  `json:"money_visible"`
}

// SaleLineRequest línea del formulario de venta; precio y descuento salen del producto.
// El tope de cantidad evita que la suma por producto desborde int64.
type SaleLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0,max=1000000"`
}

// SaleRequest registro de una venta.
type SaleRequest struct {
	CustomerName string            `json:"customer_name" validate:"required,max=200"`
	Lines        []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineResponse línea de una venta con su total calculado.
type SaleLineResponse struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name"`
	Lines        []SaleLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	CreatedAt    *time.Time         `json:"created_at,omitempty"`
	UploadedBy   string             `json:"uploaded_by,omitempty"`
}

// SaleListResponse listado de ventas.
type SaleListResponse struct {
	Items     []SaleResponse `json:"items"`
	Total     int            `json:"total"`
	FromCache bool           `json:"from_cache"`
}
