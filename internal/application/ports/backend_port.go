package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// Puertos de salida hacia el backend REST remoto. La implementación concreta vive en
// infrastructure/backend; los tests inyectan fakes. Todas las operaciones autenticadas
// reciben el token de la sesión de forma explícita.

// LoginResult token del backend más el usuario autenticado.
type LoginResult struct {
	Token string
	User  entity.User
}

// ProfileUpdate campos editables del perfil.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewAdmin datos para crear un administrador.
type NewAdmin struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Permission string `json:"permission"`
}

// ItemInput alta o edición de un producto.
type ItemInput struct {
	Name              string          `json:"name"`
	UnitName          string          `json:"unit_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	SalesInstructions string          `json:"sales_instructions"`
}

// ConsignmentInput alta o edición de una consignación.
type ConsignmentInput struct {
	ItemID       string
	BatchNumber  string
	Quantity     int64
	PurchaseCost decimal.Decimal
	TotalPaid    decimal.Decimal
	Supplier     string
	PurchaseDate time.Time
	ExpiryDate   time.Time
}

// SaleInput venta ya calculada (líneas con total y total general).
type SaleInput struct {
	CustomerName string
	Lines        []entity.SaleLine
	TotalAmount  decimal.Decimal
}

// PatientInput alta de paciente.
type PatientInput struct {
	FirstName   string
	LastName    string
	Phone       string
	Gender      string
	DateOfBirth time.Time
}

// VisitInput alta de visita.
type VisitInput struct {
	PatientID string `json:"patient_id"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// AuthAPI autenticación y perfil.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) error
	Profile(ctx context.Context, token string) (*entity.User, error)
	UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (*entity.User, error)
	ChangePassword(ctx context.Context, token, current, next string) error
}

// UsersAPI gestión de administradores (super-admin).
type UsersAPI interface {
	ListUsers(ctx context.Context, token string) ([]entity.User, error)
	CreateAdmin(ctx context.Context, token string, in NewAdmin) (*entity.User, error)
	DeleteUser(ctx context.Context, token, id string) error
	UpdatePermission(ctx context.Context, token, id, permission string) (*entity.User, error)
}

// PharmacyAPI inventario, consignaciones y ventas.
type PharmacyAPI interface {
	ListItems(ctx context.Context, token string) ([]entity.PharmacyItem, error)
	CreateItem(ctx context.Context, token string, in ItemInput) (*entity.PharmacyItem, error)
	UpdateItem(ctx context.Context, token, id string, in ItemInput) (*entity.PharmacyItem, error)
	ListConsignments(ctx context.Context, token string) ([]entity.Consignment, error)
	CreateConsignment(ctx context.Context, token string, in ConsignmentInput) (*entity.Consignment, error)
	UpdateConsignment(ctx context.Context, token, id string, in ConsignmentInput) (*entity.Consignment, error)
	ListSales(ctx context.Context, token string) ([]entity.Sale, error)
	CreateSale(ctx context.Context, token string, in SaleInput) (*entity.Sale, error)
	GetSale(ctx context.Context, token, id string) (*entity.Sale, error)
}

// ClinicAPI pacientes, visitas y finanzas.
type ClinicAPI interface {
	ListPatients(ctx context.Context, token string) ([]entity.Patient, error)
	CreatePatient(ctx context.Context, token string, in PatientInput) (*entity.Patient, error)
	GetPatient(ctx context.Context, token, id string) (*entity.Patient, error)
	ListVisits(ctx context.Context, token, patientID string) ([]entity.Visit, error)
	CreateVisit(ctx context.Context, token string, in VisitInput) (*entity.Visit, error)
	FinanceSummary(ctx context.Context, token string) (*entity.FinanceSummary, error)
}
