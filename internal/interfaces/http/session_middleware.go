package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/pkg/jwt"
)

// LocalSession clave de c.Locals donde queda la sesión autenticada.
const LocalSession = "session"

// CookieConfig parámetros de la cookie de sesión.
type CookieConfig struct {
	Name   string
	Secret string
	Secure bool
	Issuer string
}

// SessionMiddleware resuelve la sesión desde la cookie firmada (o Authorization: Bearer
// con el mismo JWT) y la deja en c.Locals. Sin sesión válida responde 401.
func SessionMiddleware(store session.Store, cookie CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(cookie.Name)
		if raw == "" {
			raw = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if raw == "" {
			return unauthorized(c, "sesión requerida")
		}
		claims, err := jwt.Parse(cookie.Secret, raw)
		if err != nil {
			clearSessionCookie(c, cookie)
			return unauthorized(c, "sesión inválida o expirada")
		}
		sess, err := store.Get(c.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSessionExpired) {
				clearSessionCookie(c, cookie)
				return unauthorized(c, domain.ErrSessionExpired.Error())
			}
			return writeError(c, err)
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después de SessionMiddleware).
func GetSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(LocalSession).(*session.Session)
	return s
}

// RequireScreen bloquea con 403 las rutas de una pantalla que el usuario no ve.
// Debe usarse después de SessionMiddleware.
func RequireScreen(screen string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return unauthorized(c, "sesión requerida")
		}
		if !sess.User().CanSee(screen) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    CodeForbidden,
				Message: "la sección '" + screen + "' no está habilitada para su usuario",
			})
		}
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeUnauthorized, Message: msg})
}

// setSessionCookie firma el id de sesión y lo envía como cookie HttpOnly.
func setSessionCookie(c *fiber.Ctx, cookie CookieConfig, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}
	u := sess.User()
	signed, err := jwt.Generate(cookie.Secret, sess.ID, u.ID, u.Role, cookie.Issuer, ttl)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    signed,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(c *fiber.Ctx, cookie CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
