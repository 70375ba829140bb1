// Package pharmacy contiene la pantalla de farmacia: productos, consignaciones y ventas.
// Las listas se leen de la caché de la sesión y solo se piden al backend cuando están
// vacías, cuando el usuario refresca o después de una escritura.
package pharmacy

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// Días antes del vencimiento en que un lote se marca como próximo a vencer.
const expiryWarning = 30 * 24 * time.Hour

// PharmacyUseCase casos de uso de la pantalla de farmacia.
type PharmacyUseCase struct {
	api      ports.PharmacyAPI
	receipts ReceiptGenerator
	log      zerolog.Logger
	now      func() time.Time
}

// NewPharmacyUseCase construye el caso de uso.
func NewPharmacyUseCase(api ports.PharmacyAPI, receipts ReceiptGenerator, log zerolog.Logger) *PharmacyUseCase {
	return &PharmacyUseCase{api: api, receipts: receipts, log: log, now: time.Now}
}

// requireScreen corta el acceso de usuarios que no ven la pantalla de farmacia.
func requireScreen(sess *session.Session) error {
	if !sess.User().CanSee(entity.ScreenPharmacy) {
		return domain.ErrForbidden
	}
	return nil
}
