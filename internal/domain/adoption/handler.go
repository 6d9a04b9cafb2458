package adoption

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"petconnect-web/internal/middleware"
	"petconnect-web/internal/platform/view"
	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
)

// RegisterRoutes monta el dashboard del usuario y el panel admin.
// Todo detrás del gate de sesión; el panel admin además chequea el
// flag is_staff de la identidad cacheada.
func RegisterRoutes(r chi.Router, api marketplace.API, sessions session.Store, rnd *view.Renderer, log *zap.Logger) {
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession)
		pr.Get("/dashboard", dashboardHandler(api, sessions, rnd))
		pr.Get("/admin", adminHandler(api, sessions, rnd))
		pr.Post("/admin/requests/{requestID}/status", statusHandler(api, sessions, log))
	})
}

type dashboardPage struct {
	view.Page
	Requests []marketplace.AdoptionRequest
}

func dashboardHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())
		page := dashboardPage{Page: basePage(w, r, "My Dashboard")}

		reqs, err := api.MyAdoptionRequests(r.Context(), sess.Token)
		switch {
		case errors.Is(err, marketplace.ErrUnauthorized):
			middleware.DropSession(w, r, sessions)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case err != nil:
			page.Error = "Failed to fetch your adoption requests. Please try again later."
		default:
			page.Requests = reqs
		}
		rnd.Render(w, http.StatusOK, "dashboard.html", page)
	}
}

type adminPage struct {
	view.Page
	Requests []marketplace.AdoptionRequest
	Pets     []marketplace.Pet
}

func adminHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())
		if !sess.User.IsStaff {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		page := adminPage{Page: basePage(w, r, "Admin Dashboard")}

		reqs, err := api.AdoptionRequests(r.Context(), sess.Token)
		if err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			page.Error = "Failed to fetch admin data. Please try again later."
			rnd.Render(w, http.StatusOK, "admin.html", page)
			return
		}
		page.Requests = reqs

		// El listado de mascotas es secundario: si falla se muestra
		// vacío en vez de tirar abajo toda la página.
		if pets, err := api.Pets(r.Context()); err == nil {
			page.Pets = pets
		}
		rnd.Render(w, http.StatusOK, "admin.html", page)
	}
}

// statusHandler aprueba o rechaza una solicitud. Con el header de
// XHR responde JSON para parchear la fila; como form común redirige
// de vuelta al panel.
func statusHandler(api marketplace.API, sessions session.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())
		isXHR := r.Header.Get("X-Requested-With") == "XMLHttpRequest"

		if !sess.User.IsStaff {
			if isXHR {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid request id", http.StatusBadRequest)
			return
		}

		status := r.FormValue("status")
		if status != marketplace.StatusApproved && status != marketplace.StatusRejected {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		updated, err := api.UpdateAdoptionStatus(r.Context(), sess.Token, id, status)
		if err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				if isXHR {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			log.Warn("update adoption status",
				zap.Int64("request_id", id),
				zap.String("status", status),
				zap.Error(err))
			if isXHR {
				http.Error(w, "failed to update request status", http.StatusBadGateway)
				return
			}
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		if isXHR {
			writeJSON(w, http.StatusOK, map[string]any{
				"id":          updated.ID,
				"status":      updated.Status,
				"badge_class": view.BadgeClass(updated.Status),
				"badge_label": view.BadgeLabel(updated.Status),
			})
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// writeJSON duplicado a propósito: cada módulo serializa lo suyo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
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
