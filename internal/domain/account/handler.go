package account

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"petconnect-web/internal/middleware"
	"petconnect-web/internal/platform/view"
	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
)

// RegisterRoutes monta login, registro, logout y perfil.
func RegisterRoutes(r chi.Router, api marketplace.API, sessions session.Store, rnd *view.Renderer, ttl time.Duration) {
	r.Get("/login", loginFormHandler(rnd))
	r.Post("/login", loginSubmitHandler(api, sessions, rnd, ttl))
	r.Get("/register", registerFormHandler(rnd))
	r.Post("/register", registerSubmitHandler(api, rnd))
	r.Post("/logout", logoutHandler(sessions))

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession)
		pr.Get("/profile", profileHandler(api, sessions, rnd))
		pr.Post("/profile", profileUpdateHandler(api, sessions, rnd))
	})
}

type loginPage struct {
	view.Page
	Username string
}

func loginFormHandler(rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Con sesión viva el login no tiene nada que ofrecer.
		if _, ok := middleware.GetSession(r.Context()); ok {
			http.Redirect(w, r, "/gallery", http.StatusSeeOther)
			return
		}
		rnd.Render(w, http.StatusOK, "login.html", loginPage{Page: basePage(w, r, "Login")})
	}
}

func loginSubmitHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := marketplace.Credentials{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}
		page := loginPage{Page: basePage(w, r, "Login"), Username: creds.Username}

		res, err := api.Login(r.Context(), creds)
		if err != nil {
			page.Error = loginErrorMessage(err)
			rnd.Render(w, http.StatusOK, "login.html", page)
			return
		}

		now := time.Now()
		sess := session.Session{
			ID:        uuid.NewString(),
			Token:     res.Access,
			User:      res.User,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
		if err := sessions.Put(r.Context(), sess); err != nil {
			page.Error = "Login failed. Please try again later."
			rnd.Render(w, http.StatusOK, "login.html", page)
			return
		}

		middleware.SetSessionCookie(w, sess.ID, int(ttl.Seconds()))
		http.Redirect(w, r, "/gallery", http.StatusSeeOther)
	}
}

type registerPage struct {
	view.Page
	Username string
	Email    string
}

func registerFormHandler(rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetSession(r.Context()); ok {
			http.Redirect(w, r, "/gallery", http.StatusSeeOther)
			return
		}
		rnd.Render(w, http.StatusOK, "register.html", registerPage{Page: basePage(w, r, "Register")})
	}
}

func registerSubmitHandler(api marketplace.API, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg := marketplace.Registration{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}

		if _, err := api.Register(r.Context(), reg); err != nil {
			// La contraseña no se re-rellena nunca.
			page := registerPage{
				Page:     basePage(w, r, "Register"),
				Username: reg.Username,
				Email:    reg.Email,
			}
			page.Error = registerErrorMessage(err)
			rnd.Render(w, http.StatusOK, "register.html", page)
			return
		}

		view.SetFlash(w, "Welcome to the Pet Pack! 🐾 Please log in.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func logoutHandler(sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.DropSession(w, r, sessions)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

type profilePage struct {
	view.Page
	Profile *marketplace.User
}

// profileHandler trae el perfil fresco del API y de paso refresca la
// copia cacheada en la sesión (el navbar la usa en cada vista).
func profileHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())
		page := profilePage{Page: basePage(w, r, "User Profile")}

		u, err := api.Profile(r.Context(), sess.Token)
		switch {
		case errors.Is(err, marketplace.ErrUnauthorized):
			middleware.DropSession(w, r, sessions)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case err != nil:
			page.Error = "Failed to fetch user profile. Please try again later."
		default:
			page.Profile = &u
			sess.User = u
			_ = sessions.Put(r.Context(), sess)
		}
		rnd.Render(w, http.StatusOK, "profile.html", page)
	}
}

func profileUpdateHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())
		upd := marketplace.ProfileUpdate{
			Username:  r.FormValue("username"),
			Email:     r.FormValue("email"),
			FirstName: r.FormValue("first_name"),
			LastName:  r.FormValue("last_name"),
		}

		u, err := api.UpdateProfile(r.Context(), sess.Token, upd)
		if err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			page := profilePage{Page: basePage(w, r, "User Profile")}
			page.Error = "Failed to update profile. Please try again."
			// Lo tipeado se mantiene a la vista para corregirlo.
			typed := marketplace.User{
				ID:        sess.User.ID,
				Username:  upd.Username,
				Email:     upd.Email,
				FirstName: upd.FirstName,
				LastName:  upd.LastName,
				IsStaff:   sess.User.IsStaff,
			}
			page.Profile = &typed
			rnd.Render(w, http.StatusOK, "profile.html", page)
			return
		}

		sess.User = u
		_ = sessions.Put(r.Context(), sess)
		view.SetFlash(w, "Profile updated successfully!")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	}
}

// basePage arma los datos comunes del layout. Duplicado a propósito
// en cada módulo de vistas para no acoplarlos entre sí.
func basePage(w http.ResponseWriter, r *http.Request, title string) view.Page {
	p := view.Page{Title: title, Flash: view.TakeFlash(w, r)}
	if sess, ok := middleware.GetSession(r.Context()); ok {
		u := sess.User
		p.User = &u
	}
	return p
}
