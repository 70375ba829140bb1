package dto

import "time"

// LoginRequest credenciales del formulario de ingreso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse datos de la sesión recién creada. El token del backend no se expone.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Screens   []string     `json:"screens"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// EmailRequest formularios que solo piden el email (olvidé mi contraseña, reenviar código).
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmailRequest código recibido por correo.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResetPasswordRequest nueva contraseña con el token del enlace de recuperación.
type ResetPasswordRequest struct {
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}
