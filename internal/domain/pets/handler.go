package pets

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"petconnect-web/internal/middleware"
	"petconnect-web/internal/platform/view"
	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
)

// RegisterRoutes monta las vistas de mascotas: listado y detalle
// públicos, alta/edición/baja detrás del gate de sesión.
func RegisterRoutes(r chi.Router, api marketplace.API, sessions session.Store, rnd *view.Renderer) {
	r.Get("/pets", listHandler(api, rnd))
	r.Get("/pets/{petID}", detailHandler(api, rnd))
	r.Post("/pets/{petID}/adopt", adoptHandler(api, sessions, rnd))

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession)
		pr.Get("/add-pet", addFormHandler(rnd))
		pr.Post("/add-pet", addSubmitHandler(api, sessions, rnd))
		pr.Get("/pets/{petID}/edit", editFormHandler(api, rnd))
		pr.Post("/pets/{petID}/edit", editSubmitHandler(api, sessions, rnd))
		pr.Get("/my-pets", myPetsHandler(api, sessions, rnd))
		pr.Post("/pets/{petID}/delete", deleteHandler(api, sessions, rnd))
	})
}

type listPage struct {
	view.Page
	Criteria     Criteria
	Pets         []marketplace.Pet
	HasFilters   bool
	RemoveSearch string
	RemoveType   string
	RemoveGender string
}

func listHandler(api marketplace.API, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crit := CriteriaFromQuery(r.URL.Query())

		// La URL se canonicaliza para que refleje exactamente los
		// filtros activos: params vacíos o desconocidos se caen, y
		// "limpiar todo" vuelve a /pets a secas.
		if canonical := crit.Encode(); canonical != r.URL.RawQuery {
			target := "/pets"
			if canonical != "" {
				target += "?" + canonical
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		page := listPage{
			Page:         basePage(w, r, "Find a Pet"),
			Criteria:     crit,
			HasFilters:   !crit.IsZero(),
			RemoveSearch: removeQS(Criteria{Type: crit.Type, Gender: crit.Gender}),
			RemoveType:   removeQS(Criteria{Search: crit.Search, Gender: crit.Gender}),
			RemoveGender: removeQS(Criteria{Search: crit.Search, Type: crit.Type}),
		}

		all, err := api.Pets(r.Context())
		if err != nil {
			page.Error = "Failed to fetch pets. Please try again later."
			rnd.Render(w, http.StatusOK, "pets_list.html", page)
			return
		}

		page.Pets = Filter(all, crit)
		rnd.Render(w, http.StatusOK, "pets_list.html", page)
	}
}

// removeQS es el href del chip "✕": los filtros que quedan si saco
// este ("" cuando no queda ninguno).
func removeQS(c Criteria) string {
	if enc := c.Encode(); enc != "" {
		return "?" + enc
	}
	return ""
}

type detailPage struct {
	view.Page
	Pet         *marketplace.Pet
	Message     string
	SubmitError string
}

func detailHandler(api marketplace.API, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := detailPage{Page: basePage(w, r, "Pet Details")}

		id, err := petID(r)
		if err != nil {
			page.Error = "Pet not found."
			rnd.Render(w, http.StatusNotFound, "pet_detail.html", page)
			return
		}

		pet, err := api.Pet(r.Context(), id)
		switch {
		case errors.Is(err, marketplace.ErrNotFound):
			page.Error = "Pet not found."
			rnd.Render(w, http.StatusNotFound, "pet_detail.html", page)
		case err != nil:
			page.Error = "Failed to fetch pet details. Please try again later."
			rnd.Render(w, http.StatusOK, "pet_detail.html", page)
		default:
			page.Pet = &pet
			page.Title = pet.Name
			rnd.Render(w, http.StatusOK, "pet_detail.html", page)
		}
	}
}

// adoptHandler procesa el formulario de solicitud. La sesión se exige
// recién al enviar: el detalle es público, la intención de adoptar no.
func adoptHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		id, err := petID(r)
		if err != nil {
			http.Redirect(w, r, "/pets", http.StatusSeeOther)
			return
		}
		message := r.FormValue("message")

		_, err = api.RequestAdoption(r.Context(), sess.Token, id, message)
		if err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			// Re-render del detalle preservando el texto escrito.
			page := detailPage{
				Page:        basePage(w, r, "Pet Details"),
				Message:     message,
				SubmitError: "Failed to submit adoption request. Please try again.",
			}
			if pet, perr := api.Pet(r.Context(), id); perr == nil {
				page.Pet = &pet
				page.Title = pet.Name
			}
			rnd.Render(w, http.StatusOK, "pet_detail.html", page)
			return
		}

		view.SetFlash(w, "Adoption request submitted successfully!")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

type formPage struct {
	view.Page
	Editing bool
	Action  string
	Form    marketplace.PetForm
}

func addFormHandler(rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.Render(w, http.StatusOK, "pet_form.html", formPage{
			Page:   basePage(w, r, "Add a Pet"),
			Action: "/add-pet",
			Form:   marketplace.PetForm{Gender: "unknown", Purpose: marketplace.PurposeAdoption},
		})
	}
}

func addSubmitHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())

		form, err := petFormFromRequest(r)
		page := formPage{Page: basePage(w, r, "Add a Pet"), Action: "/add-pet", Form: form}
		if err != nil {
			page.Error = "Invalid form data. Please check your info."
			rnd.Render(w, http.StatusBadRequest, "pet_form.html", page)
			return
		}

		if _, err := api.CreatePet(r.Context(), sess.Token, form); err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			page.Error = "Failed to add pet. Please try again."
			rnd.Render(w, http.StatusOK, "pet_form.html", page)
			return
		}

		view.SetFlash(w, "Pet added successfully!")
		http.Redirect(w, r, "/pets", http.StatusSeeOther)
	}
}

func editFormHandler(api marketplace.API, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := formPage{Page: basePage(w, r, "Edit Pet"), Editing: true}

		id, err := petID(r)
		if err != nil {
			page.Error = "Pet not found."
			rnd.Render(w, http.StatusNotFound, "pet_form.html", page)
			return
		}
		page.Action = fmt.Sprintf("/pets/%d/edit", id)

		pet, err := api.Pet(r.Context(), id)
		switch {
		case errors.Is(err, marketplace.ErrNotFound):
			page.Error = "Pet not found."
			rnd.Render(w, http.StatusNotFound, "pet_form.html", page)
			return
		case err != nil:
			page.Error = "Failed to fetch pet details. Please try again later."
			rnd.Render(w, http.StatusOK, "pet_form.html", page)
			return
		}

		page.Form = marketplace.PetForm{
			Name:        pet.Name,
			Type:        pet.Type,
			Breed:       pet.Breed,
			Age:         strconv.Itoa(pet.Age),
			Gender:      pet.Gender,
			Purpose:     pet.Purpose,
			Description: pet.Description,
		}
		rnd.Render(w, http.StatusOK, "pet_form.html", page)
	}
}

func editSubmitHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())

		id, err := petID(r)
		if err != nil {
			http.Redirect(w, r, "/my-pets", http.StatusSeeOther)
			return
		}

		form, err := petFormFromRequest(r)
		page := formPage{
			Page:    basePage(w, r, "Edit Pet"),
			Editing: true,
			Action:  fmt.Sprintf("/pets/%d/edit", id),
			Form:    form,
		}
		if err != nil {
			page.Error = "Invalid form data. Please check your info."
			rnd.Render(w, http.StatusBadRequest, "pet_form.html", page)
			return
		}

		if _, err := api.UpdatePet(r.Context(), sess.Token, id, form); err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			page.Error = "Failed to update pet. Please try again."
			rnd.Render(w, http.StatusOK, "pet_form.html", page)
			return
		}

		view.SetFlash(w, "Pet updated successfully!")
		http.Redirect(w, r, "/my-pets", http.StatusSeeOther)
	}
}

type myPetsPage struct {
	view.Page
	Pets []marketplace.Pet
}

func myPetsHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.GetSession(r.Context())
		page := myPetsPage{Page: basePage(w, r, "My Pets")}

		pets, err := api.MyPets(r.Context(), sess.Token)
		switch {
		case errors.Is(err, marketplace.ErrUnauthorized):
			middleware.DropSession(w, r, sessions)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case err != nil:
			page.Error = "Failed to fetch your pets. Please try again later."
		default:
			page.Pets = pets
		}
		rnd.Render(w, http.StatusOK, "my_pets.html", page)
	}
}

// deleteHandler borra una publicación propia. El campo confirm lo
// setea en "yes" el diálogo de confirmación del navegador; si llega
// con otro valor no se toca el API y se vuelve al listado tal cual.
func deleteHandler(api marketplace.API, sessions session.Store, rnd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("confirm") != "yes" {
			http.Redirect(w, r, "/my-pets", http.StatusSeeOther)
			return
		}

		sess, _ := middleware.GetSession(r.Context())
		id, err := petID(r)
		if err != nil {
			http.Redirect(w, r, "/my-pets", http.StatusSeeOther)
			return
		}

		if err := api.DeletePet(r.Context(), sess.Token, id); err != nil {
			if errors.Is(err, marketplace.ErrUnauthorized) {
				middleware.DropSession(w, r, sessions)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			page := myPetsPage{Page: basePage(w, r, "My Pets")}
			page.Error = "Failed to delete pet. Please try again."
			rnd.Render(w, http.StatusOK, "my_pets.html", page)
			return
		}

		view.SetFlash(w, "Pet deleted successfully!")
		http.Redirect(w, r, "/my-pets", http.StatusSeeOther)
	}
}

func petID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
}

// petFormFromRequest levanta el multipart del alta/edición. La foto
// es opcional acá: el required del input se encarga en el alta.
func petFormFromRequest(r *http.Request) (marketplace.PetForm, error) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		return marketplace.PetForm{}, err
	}

	form := marketplace.PetForm{
		Name:        r.FormValue("name"),
		Type:        r.FormValue("type"),
		Breed:       r.FormValue("breed"),
		Age:         r.FormValue("age"),
		Gender:      r.FormValue("gender"),
		Purpose:     r.FormValue("purpose"),
		Description: r.FormValue("description"),
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		form.Photo = &marketplace.Upload{Filename: header.Filename, Content: file}
	}
	return form, nil
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
