package marketplace

import (
	"errors"
	"fmt"
)

// Taxonomía de fallas del API remoto. Los handlers deciden el mensaje;
// acá solo se clasifica.
var (
	// ErrUnauthorized: 401. La credencial guardada ya no sirve.
	ErrUnauthorized = errors.New("marketplace: unauthorized")
	// ErrNotFound: 404.
	ErrNotFound = errors.New("marketplace: not found")
	// ErrConflict: 409 (p.ej. cuenta ya existente).
	ErrConflict = errors.New("marketplace: conflict")
	// ErrUnavailable: no hubo respuesta (red caída, timeout).
	ErrUnavailable = errors.New("marketplace: service unavailable")
)

// ValidationError es un 400 con errores por campo, como los devuelve
// el API: {"username": ["ya está tomado"], ...}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("marketplace: validation failed (%d fields)", len(e.Fields))
}

// First devuelve el primer mensaje del campo, o "" si no hay.
func (e *ValidationError) First(field string) string {
	if e == nil {
		return ""
	}
	msgs := e.Fields[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// UpstreamError es cualquier otro status no-2xx.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("marketplace: upstream status %d", e.Status)
}
