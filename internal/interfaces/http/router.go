package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/admins"
	"github.com/jhoicas/farmacia-admin/internal/application/auth"
	"github.com/jhoicas/farmacia-admin/internal/application/clinic"
	"github.com/jhoicas/farmacia-admin/internal/application/pharmacy"
	"github.com/jhoicas/farmacia-admin/internal/application/profile"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProfileUC  *profile.ProfileUseCase
	PharmacyUC *pharmacy.PharmacyUseCase
	AdminsUC   *admins.AdminsUseCase
	ClinicUC   *clinic.ClinicUseCase
	Sessions   session.Store
	Cookie     CookieConfig
	Log        zerolog.Logger
}

// Router registra las rutas del API del dashboard.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, deps.Log)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/resend-verification", authHandler.ResendVerification)

	// Rutas protegidas (requieren cookie de sesión)
	protected := api.Group("/", SessionMiddleware(deps.Sessions, deps.Cookie))

	profileHandler := NewProfileHandler(deps.ProfileUC)
	protected.Get("/profile", profileHandler.Get)
	protected.Put("/profile", profileHandler.Update)
	protected.Put("/profile/password", profileHandler.ChangePassword)

	// Farmacia (permiso over-the-counter o superadmin)
	pharmacyGroup := protected.Group("/pharmacy", RequireScreen(entity.ScreenPharmacy))
	pharmacyHandler := NewPharmacyHandler(deps.PharmacyUC)
	pharmacyGroup.Get("/items", pharmacyHandler.ListItems)
	pharmacyGroup.Post("/items", pharmacyHandler.CreateItem)
	pharmacyGroup.Put("/items/:id", pharmacyHandler.UpdateItem)
	pharmacyGroup.Delete("/items/:id", pharmacyHandler.DeleteItem)
	pharmacyGroup.Get("/consignments/report", pharmacyHandler.ConsignmentReport)
	pharmacyGroup.Get("/consignments", pharmacyHandler.ListConsignments)
	pharmacyGroup.Post("/consignments", pharmacyHandler.CreateConsignment)
	pharmacyGroup.Put("/consignments/:id", pharmacyHandler.UpdateConsignment)
	pharmacyGroup.Get("/sales", pharmacyHandler.ListSales)
	pharmacyGroup.Post("/sales", pharmacyHandler.CreateSale)
	pharmacyGroup.Get("/sales/:id/receipt", pharmacyHandler.SaleReceipt)

	// Administradores (superadmin)
	adminsGroup := protected.Group("/admins", RequireScreen(entity.ScreenAdmins))
	adminsHandler := NewAdminsHandler(deps.AdminsUC)
	adminsGroup.Get("/", adminsHandler.List)
	adminsGroup.Post("/", adminsHandler.Create)
	adminsGroup.Delete("/:id", adminsHandler.Delete)
	adminsGroup.Put("/:id/permission", adminsHandler.UpdatePermission)

	// Pacientes (permiso out-door-patient o superadmin)
	clinicHandler := NewClinicHandler(deps.ClinicUC)
	patients := protected.Group("/patients", RequireScreen(entity.ScreenPatients))
	patients.Get("/", clinicHandler.ListPatients)
	patients.Post("/", clinicHandler.CreatePatient)
	patients.Get("/:id", clinicHandler.GetPatient)
	patients.Get("/:id/visits", clinicHandler.ListVisits)
	patients.Post("/:id/visits", clinicHandler.CreateVisit)

	finance := protected.Group("/finance", RequireScreen(entity.ScreenFinance))
	finance.Get("/summary", clinicHandler.Finance)
}
