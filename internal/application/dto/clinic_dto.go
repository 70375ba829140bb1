package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PatientRequest alta de un paciente de consulta externa.
type PatientRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// PatientResponse salida de un paciente.
type PatientResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// PatientListResponse listado de pacientes.
type PatientListResponse struct {
	Items []PatientResponse `json:"items"`
	Total int               `json:"total"`
}

// VisitRequest registro de una consulta.
type VisitRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// VisitResponse salida de una consulta.
type VisitResponse struct {
	ID        string     `json:"id"`
	PatientID string     `json:"patient_id"`
	Reason    string     `json:"reason"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// VisitListResponse consultas de un paciente.
type VisitListResponse struct {
	Items []VisitResponse `json:"items"`
	Total int             `json:"total"`
}

// FinanceResponse resumen financiero (solo superadmin).
type FinanceResponse struct {
	TotalSales         decimal.Decimal `json:"total_sales"`
	TotalPurchases     decimal.Decimal `json:"total_purchases"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	GrossMargin        decimal.Decimal `json:"gross_margin"`
}
