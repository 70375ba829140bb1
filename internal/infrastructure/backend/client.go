// Package backend es el adaptador HTTP hacia el backend REST remoto, dueño de todos los
// datos del dashboard. Contiene el helper de peticiones, la autenticación y una función
// por operación del backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20 // 1 MB

// Config parámetros del cliente.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Auth       Authenticator // nil = sin credencial
	HTTPClient *http.Client  // opcional, tests
	Log        zerolog.Logger
}

// Client implementa los puertos de la aplicación contra el backend remoto.
type Client struct {
	baseURL  string
	http     *http.Client
	auth     Authenticator
	log      zerolog.Logger
	validate *validator.Validate
}

// New construye el cliente.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		auth:     cfg.Auth,
		log:      cfg.Log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type requestOptions struct {
	token  string
	noAuth bool
}

// RequestOption ajusta una petición individual.
type RequestOption func(*requestOptions)

// UseToken adjunta el token de la sesión.
func UseToken(token string) RequestOption {
	return func(o *requestOptions) { o.token = token }
}

// NoAuth marca la petición como pública (login, recuperación de contraseña).
func NoAuth() RequestOption {
	return func(o *requestOptions) { o.noAuth = true }
}

// do envía la petición y decodifica la respuesta 2xx en out (si no es nil).
// La cancelación llega por ctx. Errores: ErrTransport, *APIError o ErrMalformedResponse.
func (c *Client) do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: serializar %s %s: %w", method, path, err)
		}
	}

	requestID := uuid.NewString()
	scheme := "none"
	attempt := func(s Scheme) (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if s != nil {
			s.Apply(req.Header, o.token)
			scheme = s.Name()
		}
		return c.http.Do(req)
	}

	start := time.Now()
	var resp *http.Response
	var err error
	if o.noAuth || o.token == "" || c.auth == nil {
		resp, err = attempt(nil)
	} else {
		resp, err = c.auth.Send(ctx, o.token, attempt)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta de %s %s: %v", ErrTransport, method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("scheme", scheme).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}
	if out == nil {
		return nil
	}
	data := unwrapData(raw)
	if len(data) == 0 {
		return fmt.Errorf("%w: %s %s: cuerpo vacío", ErrMalformedResponse, method, path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// unwrapData devuelve el contenido de {"data": ...} si la respuesta viene envuelta.
func unwrapData(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return raw
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw
	}
	if data, ok := envelope["data"]; ok && len(data) > 0 && string(data) != "null" {
		return data
	}
	return raw
}

// check valida el esquema de una respuesta ya decodificada.
func (c *Client) check(what string, v any) error {
	if err := c.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s: campo %s (%s)", ErrMalformedResponse, what, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, what, err)
	}
	return nil
}

// listOf permite validar cada elemento de una lista con dive.
type listOf[T any] struct {
	Items []T `validate:"dive"`
}
