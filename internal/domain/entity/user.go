package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Etiquetas de permiso asignadas por el backend.
const (
	PermissionOutDoorPatient = "out-door-patient"
	PermissionOverTheCounter = "over-the-counter"
)

// Pantallas del dashboard.
const (
	ScreenProfile  = "profile"
	ScreenPharmacy = "pharmacy"
	ScreenPatients = "patients"
	ScreenAdmins   = "admins"
	ScreenFinance  = "finance"
)

// User representa un usuario administrador tal como lo devuelve el backend.
type User struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Role       string // admin, superadmin
	Permission string // out-door-patient, over-the-counter
	Verified   bool
	CreatedAt  time.Time
}

// FullName une nombre y apellido; si ambos faltan devuelve el email.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// IsSuperAdmin informa si el usuario tiene el rol superadmin.
func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// CanViewMoney indica si la vista puede mostrar costos, pagos y saldos.
// Es solo presentación: el backend decide qué datos entrega.
func (u User) CanViewMoney() bool {
	return u.IsSuperAdmin()
}

// VisibleScreens lista las pantallas que la navegación muestra a este usuario.
func (u User) VisibleScreens() []string {
	if u.IsSuperAdmin() {
		return []string{ScreenProfile, ScreenPharmacy, ScreenPatients, ScreenAdmins, ScreenFinance}
	}
	screens := []string{ScreenProfile}
	switch u.Permission {
	case PermissionOverTheCounter:
		screens = append(screens, ScreenPharmacy)
	case PermissionOutDoorPatient:
		screens = append(screens, ScreenPatients)
	}
	return screens
}

// CanSee informa si screen está entre las pantallas visibles.
func (u User) CanSee(screen string) bool {
	for _, s := range u.VisibleScreens() {
		if s == screen {
			return true
		}
	}
	return false
}
