// Package router arma el http.Handler completo de la aplicación:
// middlewares globales, home, health y las rutas de cada módulo.
package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"petconnect-web/internal/adapters/sessionstore/memory"
	"petconnect-web/internal/domain/account"
	"petconnect-web/internal/domain/adoption"
	"petconnect-web/internal/domain/gallery"
	"petconnect-web/internal/domain/pets"
	"petconnect-web/internal/middleware"
	"petconnect-web/internal/platform/view"
	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
)

type Options struct {
	API        marketplace.API
	Sessions   session.Store  // nil => memoria
	Renderer   *view.Renderer // nil => view.New()
	Log        *zap.Logger    // nil => nop
	SessionTTL time.Duration  // <=0 => 24h
}

func New(opts Options) (http.Handler, error) {
	if opts.API == nil {
		return nil, errors.New("router: API client is required")
	}
	if opts.Sessions == nil {
		opts.Sessions = memory.NewStore()
	}
	if opts.Renderer == nil {
		rnd, err := view.New()
		if err != nil {
			return nil, err
		}
		opts.Renderer = rnd
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Log))
	r.Use(middleware.SessionContext(opts.Sessions))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", homeHandler(opts.Renderer))

	account.RegisterRoutes(r, opts.API, opts.Sessions, opts.Renderer, opts.SessionTTL)
	pets.RegisterRoutes(r, opts.API, opts.Sessions, opts.Renderer)
	adoption.RegisterRoutes(r, opts.API, opts.Sessions, opts.Renderer, opts.Log)
	gallery.RegisterRoutes(r, opts.API, opts.Sessions, opts.Renderer)

	return r, nil
}

type category struct {
	Type  string
	Emoji string
	Name  string
}

type homePage struct {
	view.Page
	Categories []category
}

// Los accesos directos de la portada; cada uno linkea al listado ya
// filtrado por tipo.
var categories = []category{
	{Type: "dog", Emoji: "🐕", Name: "Dogs"},
	{Type: "cat", Emoji: "🐱", Name: "Cats"},
	{Type: "bird", Emoji: "🦜", Name: "Birds"},
	{Type: "fish", Emoji: "🐠", Name: "Fish"},
	{Type: "rabbit", Emoji: "🐰", Name: "Rabbits"},
}

func homeHandler(rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := homePage{Categories: categories}
		page.Title = "PetConnect"
		page.Flash = view.TakeFlash(w, r)
		if sess, ok := middleware.GetSession(r.Context()); ok {
			u := sess.User
			page.User = &u
		}
		rnd.Render(w, http.StatusOK, "home.html", page)
	}
}
