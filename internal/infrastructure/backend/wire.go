package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// Esquemas del contrato JSON del backend. Los campos obligatorios se validan con
// go-playground/validator antes de mapear a entidades.

// wireTime acepta RFC3339, fecha simple (2006-01-02), "" y null.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida %s", string(b))
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("fecha inválida %q", s)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02"))
}

type wireUser struct {
	ID         string   `json:"id" validate:"required"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Email      string   `json:"email" validate:"required"`
	Role       string   `json:"role" validate:"omitempty,oneof=admin superadmin"`
	Permission string   `json:"permission"`
	Verified   bool     `json:"is_verified"`
	CreatedAt  wireTime `json:"created_at"`
}

func (w wireUser) toEntity() entity.User {
	return entity.User{
		ID:         w.ID,
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		Email:      w.Email,
		Role:       w.Role,
		Permission: w.Permission,
		Verified:   w.Verified,
		CreatedAt:  w.CreatedAt.Time,
	}
}

type wireLogin struct {
	Token string   `json:"token" validate:"required"`
	User  wireUser `json:"user"`
}

type wireItem struct {
	ID                string          `json:"id" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	UnitName          string          `json:"unit_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	Quantity          int64           `json:"quantity"`
	SalesInstructions string          `json:"sales_instructions"`
	CreatedAt         wireTime        `json:"created_at"`
}

func (w wireItem) toEntity() entity.PharmacyItem {
	return entity.PharmacyItem{
		ID:                w.ID,
		Name:              w.Name,
		UnitName:          w.UnitName,
		UnitPrice:         w.UnitPrice,
		Discount:          w.Discount,
		Quantity:          w.Quantity,
		SalesInstructions: w.SalesInstructions,
		CreatedAt:         w.CreatedAt.Time,
	}
}

type wireConsignment struct {
	ID            string          `json:"id" validate:"required"`
	ItemID        string          `json:"item_id" validate:"required"`
	ItemName      string          `json:"item_name"`
	BatchNumber   string          `json:"batch_number"`
	Quantity      int64           `json:"quantity"`
	PurchaseCost  decimal.Decimal `json:"purchase_cost"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Balance       decimal.Decimal `json:"balance"`
	PaymentStatus string          `json:"payment_status"`
	Supplier      string          `json:"supplier"`
	PurchaseDate  wireTime        `json:"purchase_date"`
	ExpiryDate    wireTime        `json:"expiry_date"`
	UploadedBy    string          `json:"uploaded_by"`
}

func (w wireConsignment) toEntity() entity.Consignment {
	return entity.Consignment{
		ID:            w.ID,
		ItemID:        w.ItemID,
		ItemName:      w.ItemName,
		BatchNumber:   w.BatchNumber,
		Quantity:      w.Quantity,
		PurchaseCost:  w.PurchaseCost,
		TotalPaid:     w.TotalPaid,
		Balance:       w.Balance,
		PaymentStatus: w.PaymentStatus,
		Supplier:      w.Supplier,
		PurchaseDate:  w.PurchaseDate.Time,
		ExpiryDate:    w.ExpiryDate.Time,
		UploadedBy:    w.UploadedBy,
	}
}

type wireSaleLine struct {
	ItemID    string          `json:"item_id" validate:"required"`
	ItemName  string          `json:"item_name,omitempty"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

type wireSale struct {
	ID           string          `json:"id" validate:"required"`
	CustomerName string          `json:"customer_name"`
	Items        []wireSaleLine  `json:"items" validate:"dive"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    wireTime        `json:"created_at"`
	UploadedBy   string          `json:"uploaded_by"`
}

func (w wireSale) toEntity() entity.Sale {
	lines := make([]entity.SaleLine, 0, len(w.Items))
	for _, l := range w.Items {
		lines = append(lines, entity.SaleLine{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			LineTotal: l.Total,
		})
	}
	return entity.Sale{
		ID:           w.ID,
		CustomerName: w.CustomerName,
		Lines:        lines,
		TotalAmount:  w.TotalAmount,
		CreatedAt:    w.CreatedAt.Time,
		UploadedBy:   w.UploadedBy,
	}
}

type wirePatient struct {
	ID          string   `json:"id" validate:"required"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Phone       string   `json:"phone"`
	Gender      string   `json:"gender"`
	DateOfBirth wireTime `json:"date_of_birth"`
	CreatedAt   wireTime `json:"created_at"`
}

func (w wirePatient) toEntity() entity.Patient {
	return entity.Patient{
		ID:          w.ID,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		Phone:       w.Phone,
		Gender:      w.Gender,
		DateOfBirth: w.DateOfBirth.Time,
		CreatedAt:   w.CreatedAt.Time,
	}
}

type wireVisit struct {
	ID        string   `json:"id" validate:"required"`
	PatientID string   `json:"patient_id" validate:"required"`
	Reason    string   `json:"reason"`
	Notes     string   `json:"notes"`
	CreatedAt wireTime `json:"created_at"`
}

func (w wireVisit) toEntity() entity.Visit {
	return entity.Visit{
		ID:        w.ID,
		PatientID: w.PatientID,
		Reason:    w.Reason,
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt.Time,
	}
}

type wireFinance struct {
	TotalSales         decimal.Decimal `json:"total_sales"`
	TotalPurchases     decimal.Decimal `json:"total_purchases"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}
