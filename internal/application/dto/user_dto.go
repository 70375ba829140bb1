package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Permission string     `json:"permission,omitempty"`
	Verified   bool       `json:"is_verified"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// ProfileResponse usuario actual con lo que la navegación le deja ver.
type ProfileResponse struct {
	User         UserResponse `json:"user"`
	Screens      []string     `json:"screens"`
	CanViewMoney bool         `json:"can_view_money"`
}

// UpdateProfileRequest edición de nombre y apellido.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// ChangePasswordRequest cambio de contraseña del usuario actual.
type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

// CreateAdminRequest alta de un administrador (solo superadmin).
type CreateAdminRequest struct {
	FirstName            string `json:"first_name" validate:"required,max=100"`
	LastName             string `json:"last_name" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 string `json:"role" validate:"omitempty,oneof=admin superadmin"`
	Permission           string `json:"permission" validate:"required,oneof=out-door-patient over-the-counter"`
}

// UpdatePermissionRequest nueva etiqueta de permiso de un administrador.
type UpdatePermissionRequest struct {
	Permission string `json:"permission" validate:"required,oneof=out-door-patient over-the-counter"`
}

// UserListResponse listado de administradores.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}

// AdminMutationResponse resultado de un alta, baja o cambio de permiso junto con la lista
// refrescada. Si el refresco falla, Admins va vacío y Refreshed en false.
type AdminMutationResponse struct {
	User      *UserResponse     `json:"user,omitempty"`
	Message   string            `json:"message,omitempty"`
	Admins    *UserListResponse `json:"admins,omitempty"`
	Refreshed bool              `json:"refreshed"`
}
