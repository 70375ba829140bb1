package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/farmacia-admin/internal/application/admins"
	"github.com/jhoicas/farmacia-admin/internal/application/auth"
	"github.com/jhoicas/farmacia-admin/internal/application/clinic"
	"github.com/jhoicas/farmacia-admin/internal/application/pharmacy"
	"github.com/jhoicas/farmacia-admin/internal/application/profile"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/farmacia-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/farmacia-admin/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/farmacia-admin/internal/interfaces/http"
	"github.com/jhoicas/farmacia-admin/pkg/config"
	"github.com/jhoicas/farmacia-admin/pkg/logger"
)

const (
	swaggerFile  = "./docs/swagger.json"
	purgeEvery   = 15 * time.Minute
	shutdownWait = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Str("auth_mode", cfg.Backend.AuthMode).
		Msg("iniciando dashboard")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Almacén de sesiones: memoria (una réplica) o PostgreSQL (varias réplicas).
	var store session.Store
	switch cfg.Session.Store {
	case config.SessionStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		pgStore := postgres.NewSessionStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear tabla de sesiones")
		}
		go purgeSessions(ctx, pgStore, log)
		store = pgStore
	default:
		store = session.NewMemoryStore()
	}

	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Auth:    backend.NewAuthenticator(cfg.Backend.AuthMode, cfg.Backend.TokenHeader, log.Component("backend-auth")),
		Log:     log.Component("backend"),
	})

	receipts := infrapdf.NewMarotoReceiptGenerator(cfg.App.PharmacyName, cfg.App.Locale)

	authUC := auth.NewAuthUseCase(client, store, cfg.Session.TTL, log.Component("auth"))
	profileUC := profile.NewProfileUseCase(client, store, log.Component("profile"))
	pharmacyUC := pharmacy.NewPharmacyUseCase(client, receipts, log.Component("pharmacy"))
	adminsUC := admins.NewAdminsUseCase(client, log.Component("admins"))
	clinicUC := clinic.NewClinicUseCase(client, log.Component("clinic"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // los PDF pueden tardar más que un JSON
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Farmacia Admin API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "session_store": cfg.Session.Store})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProfileUC:  profileUC,
		PharmacyUC: pharmacyUC,
		AdminsUC:   adminsUC,
		ClinicUC:   clinicUC,
		Sessions:   store,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secret: cfg.Session.Secret,
			Secure: cfg.Session.CookieSecure,
			Issuer: cfg.App.Name,
		},
		Log: log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeSessions borra periódicamente las sesiones vencidas de PostgreSQL.
func purgeSessions(ctx context.Context, store *postgres.SessionStore, log *logger.Logger) {
	ticker := time.NewTicker(purgeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purgar sesiones vencidas")
				continue
			}
			if n > 0 {
				log.Info().Int64("purged", n).Msg("sesiones vencidas eliminadas")
			}
		}
	}
}
