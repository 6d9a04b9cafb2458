package middleware

import (
	"context"
	"net/http"
	"strings"

	"petconnect-web/internal/ports/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// CookieName de la cookie de sesión (opaca, HttpOnly).
const CookieName = "pc_session"

// SessionContext resuelve la cookie a una sesión y la deja en el
// contexto. Sin cookie o sesión desconocida/expirada el request sigue
// igual: anónimo no es un error, es una rama.
func SessionContext(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || strings.TrimSpace(cookie.Value) == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				// Sesión vencida o borrada: limpiar la cookie huérfana.
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession devuelve la sesión del contexto, si hay.
func GetSession(ctx context.Context) (session.Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}

// RequireSession es el gate de las vistas protegidas: sin sesión
// redirige a /login. Se evalúa en cada request, nunca se cachea la
// decisión (la sesión puede desaparecer entre una vista y otra).
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie instala la cookie tras el login.
func SetSessionCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie borra la cookie (logout o 401).
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// DropSession borra sesión + cookie juntas. Es el camino de
// recuperación cuando el API rechaza la credencial con 401.
func DropSession(w http.ResponseWriter, r *http.Request, store session.Store) {
	if sess, ok := GetSession(r.Context()); ok {
		_ = store.Delete(r.Context(), sess.ID)
	}
	ClearSessionCookie(w)
}
