// Package view renderiza las vistas HTML. Los templates van
// embebidos en el binario; cada página se parsea junto al layout
// (navbar + footer) una sola vez al arrancar.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"
	"unicode"

	"petconnect-web/internal/ports/marketplace"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page son los datos comunes a toda vista: identidad para el navbar,
// banners de éxito/error.
type Page struct {
	Title string
	User  *marketplace.User
	Flash string
	Error string
}

type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"home.html",
	"pets_list.html",
	"pet_detail.html",
	"pet_form.html",
	"my_pets.html",
	"dashboard.html",
	"admin.html",
	"gallery.html",
	"login.html",
	"register.html",
	"profile.html",
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"title":        TitleCase,
		"date":         FormatDate,
		"badgeClass":   BadgeClass,
		"badgeLabel":   BadgeLabel,
		"purposeClass": PurposeClass,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render ejecuta la página sobre un buffer antes de escribir, para
// no mandar media respuesta si el template falla.
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := rn.pages[page]
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// TitleCase pone la primera letra en mayúscula, el resto como vino
// (mismo render que usaba el listado para purpose/status).
func TitleCase(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// BadgeClass mapea estado de solicitud => clase de badge.
// Cualquier estado desconocido cae en secondary.
func BadgeClass(status string) string {
	switch status {
	case marketplace.StatusPending:
		return "bg-warning"
	case marketplace.StatusApproved:
		return "bg-success"
	case marketplace.StatusRejected:
		return "bg-danger"
	default:
		return "bg-secondary"
	}
}

// BadgeLabel es el texto del badge; estado vacío => "Unknown".
func BadgeLabel(status string) string {
	if status == "" {
		return "Unknown"
	}
	return TitleCase(status)
}

// PurposeClass mapea propósito del aviso => clase de badge.
func PurposeClass(purpose string) string {
	switch purpose {
	case marketplace.PurposeAdoption:
		return "bg-success"
	case marketplace.PurposeSale:
		return "bg-warning text-dark"
	default:
		return "bg-info"
	}
}

// FormatDate para listados (equivalente a toLocaleDateString).
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
