package rest

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"petconnect-web/internal/ports/marketplace"
)

// userFromToken arma un perfil mínimo desde los claims del access
// token (el serializer del API agrega username e is_staff al JWT).
// Decode sin verificar firma: la validez la decide el servidor en
// cada request; acá el token solo se usa como cache de identidad.
func userFromToken(token string) (marketplace.User, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return marketplace.User{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return marketplace.User{}, false
	}

	u := marketplace.User{}
	if v, ok := claims["username"].(string); ok {
		u.Username = strings.TrimSpace(v)
	}
	if v, ok := claims["is_staff"].(bool); ok {
		u.IsStaff = v
	}
	if v, ok := claims["user_id"].(float64); ok {
		u.ID = int64(v)
	}

	if u.Username == "" {
		return marketplace.User{}, false
	}
	return u, true
}
