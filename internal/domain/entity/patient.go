package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patient paciente de consulta externa.
type Patient struct {
	ID          string
	FirstName   string
	LastName    string
	Phone       string
	Gender      string
	DateOfBirth time.Time
	CreatedAt   time.Time
}

// Visit visita de un paciente.
type Visit struct {
	ID        string
	PatientID string
	Reason    string
	Notes     string
	CreatedAt time.Time
}

// FinanceSummary resumen financiero calculado por el backend.
type FinanceSummary struct {
	TotalSales         decimal.Decimal
	TotalPurchases     decimal.Decimal
	OutstandingBalance decimal.Decimal
}
