package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrTransport fallo de red: el backend no respondió.
	ErrTransport = errors.New("backend: no se pudo contactar al servidor")
	// ErrMalformedResponse la respuesta 2xx no cumple el esquema esperado.
	ErrMalformedResponse = errors.New("backend: respuesta con formato inesperado")
)

const maxRawMessage = 200

// APIError respuesta no-2xx del backend con un mensaje legible para el usuario.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError extrae el mensaje del cuerpo: campos message, error o detail del JSON;
// si no es JSON, el texto plano; si es HTML, el título de la página. Nunca devuelve markup.
func newAPIError(status int, contentType string, body []byte) *APIError {
	msg := messageFromBody(contentType, body)
	if msg == "" {
		msg = statusMessage(status)
	}
	return &APIError{Status: status, Message: msg}
}

func messageFromBody(contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	if json.Valid(body) {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			// JSON válido pero no es objeto (ej: "texto" o [..])
			var v any
			_ = json.Unmarshal(body, &v)
			return textOf(v)
		}
		for _, key := range []string{"message", "error", "detail"} {
			if s := textOf(payload[key]); s != "" {
				return s
			}
		}
		return ""
	}
	if isHTML(contentType, body) {
		return htmlHeadline(body)
	}
	return truncate(collapseSpaces(stripTags(string(body))), maxRawMessage)
}

// textOf aplana los formatos de error habituales: string, {"message": ...}, [{"msg": ...}].
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return truncate(collapseSpaces(stripTags(t)), maxRawMessage)
	case map[string]any:
		for _, key := range []string{"message", "msg", "error", "detail"} {
			if s := textOf(t[key]); s != "" {
				return s
			}
		}
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := textOf(e); s != "" {
				parts = append(parts, s)
			}
		}
		return truncate(strings.Join(parts, "; "), maxRawMessage)
	}
	return ""
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") || body[0] == '<' {
		return true
	}
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.HasPrefix(head, "<!doctype") || strings.Contains(head, "<html") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<head")
}

// htmlHeadline devuelve el <title> o, si falta, el primer <h1>/<h2> de una página de error.
func htmlHeadline(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	var capture atom.Atom
	var heading string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return heading
		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title, atom.H1, atom.H2:
				capture = tok.DataAtom
			}
		case html.EndTagToken:
			capture = 0
		case html.TextToken:
			if capture == 0 {
				continue
			}
			text := collapseSpaces(string(z.Text()))
			if text == "" {
				continue
			}
			text = strings.NewReplacer("<", "", ">", "").Replace(text)
			if capture == atom.Title {
				return truncate(text, maxRawMessage)
			}
			if heading == "" {
				heading = truncate(text, maxRawMessage)
			}
		}
	}
}

// stripTags deja solo el texto de un fragmento con markup; descarta script y style.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.NewReplacer("<", "", ">", "").Replace(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			skip = tok.DataAtom == atom.Script || tok.DataAtom == atom.Style
			b.WriteByte(' ')
		case html.EndTagToken:
			skip = false
			b.WriteByte(' ')
		case html.TextToken:
			if !skip {
				b.Write(z.Text())
			}
		}
	}
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "solicitud inválida"
	case http.StatusUnauthorized:
		return "no autorizado, inicie sesión de nuevo"
	case http.StatusForbidden:
		return "no tiene permisos para esta acción"
	case http.StatusNotFound:
		return "recurso no encontrado"
	case http.StatusConflict:
		return "conflicto con el estado actual del recurso"
	case http.StatusUnprocessableEntity:
		return "datos no procesables"
	case http.StatusTooManyRequests:
		return "demasiadas solicitudes, intente más tarde"
	}
	if status >= 500 {
		return fmt.Sprintf("error del servidor (HTTP %d)", status)
	}
	return fmt.Sprintf("la solicitud falló (HTTP %d)", status)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
