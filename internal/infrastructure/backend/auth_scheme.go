package backend

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Scheme adjunta la credencial del usuario a una petición saliente.
type Scheme interface {
	Name() string
	Apply(h http.Header, token string)
}

// HeaderScheme envía el token crudo en una cabecera propia (ej: x-auth-token).
type HeaderScheme struct {
	Header string
}

func (s HeaderScheme) Name() string { return "header:" + s.Header }

func (s HeaderScheme) Apply(h http.Header, token string) {
	h.Set(s.Header, token)
}

// BearerScheme envía Authorization: Bearer <token>.
type BearerScheme struct{}

func (BearerScheme) Name() string { return "bearer" }

func (BearerScheme) Apply(h http.Header, token string) {
	h.Set("Authorization", "Bearer "+token)
}

// AttemptFunc construye y envía la petición usando el esquema indicado.
type AttemptFunc func(s Scheme) (*http.Response, error)

// Authenticator es la única capacidad "autenticar petición" del cliente.
// Las implementaciones deciden cuántos intentos y con qué esquema.
type Authenticator interface {
	Send(ctx context.Context, token string, attempt AttemptFunc) (*http.Response, error)
}

// StaticAuth usa siempre el mismo esquema, un solo intento.
type StaticAuth struct {
	Scheme Scheme
}

func (a StaticAuth) Send(_ context.Context, _ string, attempt AttemptFunc) (*http.Response, error) {
	return attempt(a.Scheme)
}

// FallbackAuth intenta con Primary y, si el backend responde 401 o 403, reintenta
// exactamente una vez con Alternate. Devuelve la segunda respuesta tal cual.
//
// Existe porque el backend no usa la misma cabecera en todos los endpoints; cuando
// eso se corrija basta con configurar BACKEND_AUTH_MODE=token o bearer.
type FallbackAuth struct {
	Primary   Scheme
	Alternate Scheme
	Log       zerolog.Logger
}

func (a FallbackAuth) Send(ctx context.Context, _ string, attempt AttemptFunc) (*http.Response, error) {
	resp, err := attempt(a.Primary)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	drain(resp)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.Log.Warn().
		Int("status", resp.StatusCode).
		Str("primary", a.Primary.Name()).
		Str("alternate", a.Alternate.Name()).
		Str("path", resp.Request.URL.Path).
		Msg("backend rechazó la credencial, reintentando con esquema alterno")
	return attempt(a.Alternate)
}

// NewAuthenticator arma el Authenticator según BACKEND_AUTH_MODE.
func NewAuthenticator(mode, tokenHeader string, log zerolog.Logger) Authenticator {
	if tokenHeader == "" {
		tokenHeader = "x-auth-token"
	}
	header := HeaderScheme{Header: tokenHeader}
	switch mode {
	case "token":
		return StaticAuth{Scheme: header}
	case "bearer":
		return StaticAuth{Scheme: BearerScheme{}}
	default:
		return FallbackAuth{Primary: header, Alternate: BearerScheme{}, Log: log}
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
}
