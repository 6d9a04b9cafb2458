package gallery

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"petconnect-web/internal/middleware"
	"petconnect-web/internal/platform/view"
	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
)

// RegisterRoutes monta la galería comunitaria: mirar es público,
// subir pide sesión.
func RegisterRoutes(r chi.Router, api marketplace.API, sessions session.Store, rnd *view.Renderer) {
	r.Get("/gallery", listHandler(api, rnd))
	r.Post("/gallery", uploadHandler(api, sessions, rnd))
}

type galleryPage struct {
	view.Page
	Images      []marketplace.GalleryImage
	Caption     string
	UploadError string
}

func listHandler(api marketplace.API, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := galleryPage{Page: basePage(w, r, "Pet Gallery")}

		images, err := api.Gallery(r.Context())
		if err != nil {
			page.Error = "Failed to fetch gallery images. Please try again later."
		} else {
			page.Images = images
		}
		rnd.Render(w, http.StatusOK, "gallery.html", page)
	}
}

func uploadHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		render := func(page galleryPage) {
			// El re-render con error vuelve a traer la galería para
			// no dejar la página vacía debajo del formulario.
			if images, err := api.Gallery(r.Context()); err == nil {
				page.Images = images
			}
			rnd.Render(w, http.StatusOK, "gallery.html", page)
		}

		if err := r.ParseMultipartForm(16 << 20); err != nil {
			page := galleryPage{Page: basePage(w, r, "Pet Gallery")}
			page.UploadError = "Please select an image and provide a caption."
			render(page)
			return
		}

		caption := r.FormValue("caption")
		file, header, err := r.FormFile("image")
		if err != nil || caption == "" {
			page := galleryPage{Page: basePage(w, r, "Pet Gallery"), Caption: caption}
			page.UploadError = "Please select an image and provide a caption."
			render(page)
			return
		}

		upload := marketplace.Upload{Filename: header.Filename, Content: file}
		if _, err := api.UploadGalleryImage(r.Context(), sess.Token, upload, caption); err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			page := galleryPage{Page: basePage(w, r, "Pet Gallery"), Caption: caption}
			page.UploadError = "Failed to upload image. Please try again."
			render(page)
			return
		}

		view.SetFlash(w, "Image uploaded successfully!")
		http.Redirect(w, r, "/gallery", http.StatusSeeOther)
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
