// Package rest implementa marketplace.API contra el servicio HTTP
// remoto. El contrato (paths, payloads, errores de campo) es el del
// API de PetConnect; acá solo se traduce a los tipos del port.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petconnect-web/internal/platform/httpclient"
	"petconnect-web/internal/ports/marketplace"
)

type Client struct {
	http *httpclient.Client
}

// New crea el cliente del marketplace. baseURL es la raíz del API
// (p.ej. http://localhost:8000/api).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(hc.BaseURL) == "" {
		return nil, errors.New("rest: base url required")
	}
	return &Client{http: hc}, nil
}

var _ marketplace.API = (*Client)(nil)

// ---------------------------------
// Auth / perfil
// ---------------------------------

func (c *Client) Login(ctx context.Context, creds marketplace.Credentials) (marketplace.LoginResult, error) {
	var out marketplace.LoginResult
	err := c.http.DoJSON(ctx, http.MethodPost, "/token/", nil, creds, &out)
	if err != nil {
		return marketplace.LoginResult{}, mapError(err)
	}

	// Algunas respuestas de token no traen el objeto user; el access
	// token igual lleva username/is_staff como claims.
	if strings.TrimSpace(out.User.Username) == "" {
		if u, ok := userFromToken(out.Access); ok {
			out.User = u
		}
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, reg marketplace.Registration) (marketplace.User, error) {
	var out marketplace.User
	if err := c.http.DoJSON(ctx, http.MethodPost, "/register/", nil, reg, &out); err != nil {
		return marketplace.User{}, mapError(err)
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (marketplace.User, error) {
	var out marketplace.User
	if err := c.http.DoJSON(ctx, http.MethodGet, "/profile/", authHeaders(token), nil, &out); err != nil {
		return marketplace.User{}, mapError(err)
	}
	return out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, upd marketplace.ProfileUpdate) (marketplace.User, error) {
	var out marketplace.User
	if err := c.http.DoJSON(ctx, http.MethodPut, "/profile/", authHeaders(token), upd, &out); err != nil {
		return marketplace.User{}, mapError(err)
	}
	return out, nil
}

// ---------------------------------
// Mascotas
// ---------------------------------

func (c *Client) Pets(ctx context.Context) ([]marketplace.Pet, error) {
	var out []marketplace.Pet
	if err := c.http.DoJSON(ctx, http.MethodGet, "/pets/", nil, nil, &out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (c *Client) Pet(ctx context.Context, id int64) (marketplace.Pet, error) {
	var out marketplace.Pet
	path := fmt.Sprintf("/pets/%d/", id)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return marketplace.Pet{}, mapError(err)
	}
	return out, nil
}

func (c *Client) CreatePet(ctx context.Context, token string, form marketplace.PetForm) (marketplace.Pet, error) {
	var out marketplace.Pet
	err := c.http.DoMultipart(ctx, http.MethodPost, "/pets/", authHeaders(token),
		petFields(form), petFiles(form), &out)
	if err != nil {
		return marketplace.Pet{}, mapError(err)
	}
	return out, nil
}

func (c *Client) UpdatePet(ctx context.Context, token string, id int64, form marketplace.PetForm) (marketplace.Pet, error) {
	var out marketplace.Pet
	path := fmt.Sprintf("/pets/%d/", id)
	err := c.http.DoMultipart(ctx, http.MethodPut, path, authHeaders(token),
		petFields(form), petFiles(form), &out)
	if err != nil {
		return marketplace.Pet{}, mapError(err)
	}
	return out, nil
}

func (c *Client) DeletePet(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/pets/%d/", id)
	if err := c.http.DoJSON(ctx, http.MethodDelete, path, authHeaders(token), nil, nil); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) MyPets(ctx context.Context, token string) ([]marketplace.Pet, error) {
	var out []marketplace.Pet
	if err := c.http.DoJSON(ctx, http.MethodGet, "/pets/my-pets/", authHeaders(token), nil, &out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ---------------------------------
// Solicitudes de adopción
// ---------------------------------

func (c *Client) RequestAdoption(ctx context.Context, token string, petID int64, message string) (marketplace.AdoptionRequest, error) {
	in := map[string]any{
		"pet_id":  petID,
		"message": message,
	}
	var out marketplace.AdoptionRequest
	if err := c.http.DoJSON(ctx, http.MethodPost, "/adoption-requests/", authHeaders(token), in, &out); err != nil {
		return marketplace.AdoptionRequest{}, mapError(err)
	}
	return out, nil
}

func (c *Client) MyAdoptionRequests(ctx context.Context, token string) ([]marketplace.AdoptionRequest, error) {
	var out []marketplace.AdoptionRequest
	err := c.http.DoJSON(ctx, http.MethodGet, "/adoption-requests/my-adoption-requests/", authHeaders(token), nil, &out)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (c *Client) AdoptionRequests(ctx context.Context, token string) ([]marketplace.AdoptionRequest, error) {
	var out []marketplace.AdoptionRequest
	if err := c.http.DoJSON(ctx, http.MethodGet, "/adoption-requests/", authHeaders(token), nil, &out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (c *Client) UpdateAdoptionStatus(ctx context.Context, token string, id int64, status string) (marketplace.AdoptionRequest, error) {
	in := map[string]string{"status": status}
	path := fmt.Sprintf("/admin/adoption-requests/%d/", id)
	var out marketplace.AdoptionRequest
	if err := c.http.DoJSON(ctx, http.MethodPut, path, authHeaders(token), in, &out); err != nil {
		return marketplace.AdoptionRequest{}, mapError(err)
	}
	return out, nil
}

// ---------------------------------
// Galería
// ---------------------------------

func (c *Client) Gallery(ctx context.Context) ([]marketplace.GalleryImage, error) {
	var out []marketplace.GalleryImage
	if err := c.http.DoJSON(ctx, http.MethodGet, "/gallery/", nil, nil, &out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (c *Client) UploadGalleryImage(ctx context.Context, token string, image marketplace.Upload, caption string) (marketplace.GalleryImage, error) {
	fields := map[string]string{"caption": caption}
	files := []httpclient.FilePart{{
		Field:    "image",
		Filename: image.Filename,
		Content:  image.Content,
	}}

	var out marketplace.GalleryImage
	if err := c.http.DoMultipart(ctx, http.MethodPost, "/gallery/", authHeaders(token), fields, files, &out); err != nil {
		return marketplace.GalleryImage{}, mapError(err)
	}
	return out, nil
}

// ---------------------------------
// Helpers
// ---------------------------------

func authHeaders(token string) map[string]string {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func petFields(form marketplace.PetForm) map[string]string {
	return map[string]string{
		"name":        form.Name,
		"type":        form.Type,
		"age":         form.Age,
		"breed":       form.Breed,
		"description": form.Description,
		"purpose":     form.Purpose,
		"gender":      form.Gender,
	}
}

func petFiles(form marketplace.PetForm) []httpclient.FilePart {
	if form.Photo == nil || form.Photo.Content == nil {
		return nil
	}
	return []httpclient.FilePart{{
		Field:    "photo",
		Filename: form.Photo.Filename,
		Content:  form.Photo.Content,
	}}
}

// mapError clasifica la falla en la taxonomía del port.
// Un no-2xx llega como *httpclient.HTTPError; cualquier otra cosa
// significa que no hubo respuesta (red, timeout).
func mapError(err error) error {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %v", marketplace.ErrUnavailable, err)
	}

	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		return marketplace.ErrUnauthorized
	case http.StatusNotFound:
		return marketplace.ErrNotFound
	case http.StatusConflict:
		return marketplace.ErrConflict
	case http.StatusBadRequest:
		if fields := fieldErrors(httpErr.Body); len(fields) > 0 {
			return &marketplace.ValidationError{Fields: fields}
		}
		return &marketplace.UpstreamError{Status: httpErr.StatusCode}
	default:
		return &marketplace.UpstreamError{Status: httpErr.StatusCode}
	}
}

// fieldErrors intenta leer el body de un 400 como mapa campo => mensajes.
// El API manda {"username": ["..."]} pero también {"detail": "..."};
// solo el primer formato cuenta como error de validación.
func fieldErrors(body string) map[string][]string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil
	}

	fields := make(map[string][]string)
	for k, v := range raw {
		var msgs []string
		if err := json.Unmarshal(v, &msgs); err == nil && len(msgs) > 0 {
			fields[k] = msgs
			continue
		}
		var msg string
		if err := json.Unmarshal(v, &msg); err == nil && msg != "" && k != "detail" {
			fields[k] = []string{msg}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
