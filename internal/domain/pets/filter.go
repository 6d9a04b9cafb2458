package pets

import (
	"net/url"
	"strings"

	"petconnect-web/internal/ports/marketplace"
)

// Criteria es la terna de filtros del listado. Campo vacío = sin
// restricción. Viaja en el query string (search, type, gender) para
// que el listado filtrado sea compartible.
type Criteria struct {
	Search string
	Type   string
	Gender string
}

// CriteriaFromQuery siembra los filtros desde la URL (un link
// compartido reproduce la misma vista).
func CriteriaFromQuery(q url.Values) Criteria {
	return Criteria{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Gender: q.Get("gender"),
	}
}

func (c Criteria) IsZero() bool {
	return c.Search == "" && c.Type == "" && c.Gender == ""
}

// Query devuelve exactamente los filtros no vacíos.
func (c Criteria) Query() url.Values {
	q := url.Values{}
	if c.Search != "" {
		q.Set("search", c.Search)
	}
	if c.Type != "" {
		q.Set("type", c.Type)
	}
	if c.Gender != "" {
		q.Set("gender", c.Gender)
	}
	return q
}

// Encode arma el query string canónico (vacío si no hay filtros).
func (c Criteria) Encode() string {
	return c.Query().Encode()
}

// Filter proyecta el subconjunto que matchea los tres predicados:
// - search: substring case-insensitive sobre el nombre
// - type / gender: igualdad case-insensitive
// Un campo ausente en la mascota solo matchea si ese filtro está
// vacío. Es una función pura: mismo input, mismo output, sin tocar
// la colección de origen; el orden de llegada se preserva.
func Filter(items []marketplace.Pet, c Criteria) []marketplace.Pet {
	out := make([]marketplace.Pet, 0, len(items))
	search := strings.ToLower(c.Search)

	for _, p := range items {
		if c.Search != "" && (p.Name == "" || !strings.Contains(strings.ToLower(p.Name), search)) {
			continue
		}
		if c.Type != "" && (p.Type == "" || !strings.EqualFold(p.Type, c.Type)) {
			continue
		}
		if c.Gender != "" && (p.Gender == "" || !strings.EqualFold(p.Gender, c.Gender)) {
			continue
		}
		out = append(out, p)
	}
	return out
}
