package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/auth"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/pkg/jwt"
)

// AuthHandler maneja ingreso, salida y recuperación de cuenta.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
	log    zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Autentica contra el backend y entrega la cookie de sesión del dashboard.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	if err := setSessionCookie(c, h.cookie, sess); err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID).Msg("firmar cookie de sesión")
		return writeError(c, err)
	}
	return c.JSON(auth.ToLoginResponse(sess))
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	raw := c.Cookies(h.cookie.Name)
	if raw == "" {
		raw = bearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if raw != "" {
		// una cookie vencida o ajena igual termina en 200: solo se limpia
		if claims, err := jwt.Parse(h.cookie.Secret, raw); err == nil {
			if err := h.uc.Logout(c.Context(), claims.SessionID); err != nil {
				return writeError(c, err)
			}
		}
	}
	clearSessionCookie(c, h.cookie)
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// ForgotPassword godoc
// @Summary      Solicitar recuperación de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmailRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.EmailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.ForgotPassword(c.Context(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "si el email existe, recibirá un enlace de recuperación"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, password, password_confirmation"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.ResetPassword(c.Context(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}

// VerifyEmail godoc
// @Summary      Verificar email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyEmailRequest  true  "email, code"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var in dto.VerifyEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.VerifyEmail(c.Context(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "email verificado"})
}

// ResendVerification godoc
// @Summary      Reenviar código de verificación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmailRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var in dto.EmailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.ResendVerification(c.Context(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "código reenviado"})
}
