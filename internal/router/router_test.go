package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"petconnect-web/internal/adapters/sessionstore/memory"
	"petconnect-web/internal/middleware"
	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
	"petconnect-web/internal/router"
)

// fakeAPI implementa el port del marketplace con datos en memoria,
// suficiente para recorrer las vistas de punta a punta.
type fakeAPI struct {
	mu       sync.Mutex
	pets     []marketplace.Pet
	requests []marketplace.AdoptionRequest
	nextID   int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pets: []marketplace.Pet{
			{ID: 1, Name: "Rex", Type: "dog", Breed: "mixed", Age: 3, Gender: "male", Purpose: "adoption", Description: "Friendly"},
			{ID: 2, Name: "Milo", Type: "cat", Breed: "siamese", Age: 2, Gender: "male", Purpose: "adoption", Description: "Calm"},
		},
		nextID: 100,
	}
}

func (f *fakeAPI) Login(_ context.Context, creds marketplace.Credentials) (marketplace.LoginResult, error) {
	if creds.Password != "good" {
		return marketplace.LoginResult{}, marketplace.ErrUnauthorized
	}
	u := marketplace.User{ID: 7, Username: creds.Username}
	if creds.Username == "admin" {
		u.IsStaff = true
	}
	return marketplace.LoginResult{Access: "tok-" + creds.Username, User: u}, nil
}

func (f *fakeAPI) Register(_ context.Context, reg marketplace.Registration) (marketplace.User, error) {
	if reg.Username == "taken" {
		return marketplace.User{}, marketplace.ErrConflict
	}
	return marketplace.User{ID: 8, Username: reg.Username, Email: reg.Email}, nil
}

func (f *fakeAPI) Profile(_ context.Context, token string) (marketplace.User, error) {
	if token == "" {
		return marketplace.User{}, marketplace.ErrUnauthorized
	}
	return marketplace.User{ID: 7, Username: strings.TrimPrefix(token, "tok-")}, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, token string, upd marketplace.ProfileUpdate) (marketplace.User, error) {
	if token == "" {
		return marketplace.User{}, marketplace.ErrUnauthorized
	}
	return marketplace.User{ID: 7, Username: upd.Username, Email: upd.Email, FirstName: upd.FirstName, LastName: upd.LastName}, nil
}

func (f *fakeAPI) Pets(context.Context) ([]marketplace.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]marketplace.Pet(nil), f.pets...), nil
}

func (f *fakeAPI) Pet(_ context.Context, id int64) (marketplace.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pets {
		if p.ID == id {
			return p, nil
		}
	}
	return marketplace.Pet{}, marketplace.ErrNotFound
}

func (f *fakeAPI) CreatePet(_ context.Context, token string, form marketplace.PetForm) (marketplace.Pet, error) {
	if token == "" {
		return marketplace.Pet{}, marketplace.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := marketplace.Pet{ID: f.nextID, Name: form.Name, Type: form.Type}
	f.pets = append(f.pets, p)
	return p, nil
}

func (f *fakeAPI) UpdatePet(_ context.Context, token string, id int64, form marketplace.PetForm) (marketplace.Pet, error) {
	if token == "" {
		return marketplace.Pet{}, marketplace.ErrUnauthorized
	}
	return marketplace.Pet{ID: id, Name: form.Name}, nil
}

func (f *fakeAPI) DeletePet(_ context.Context, token string, id int64) error {
	if token == "" {
		return marketplace.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pets {
		if p.ID == id {
			f.pets = append(f.pets[:i], f.pets[i+1:]...)
			return nil
		}
	}
	return marketplace.ErrNotFound
}

func (f *fakeAPI) MyPets(_ context.Context, token string) ([]marketplace.Pet, error) {
	if token == "" {
		return nil, marketplace.ErrUnauthorized
	}
	return f.Pets(context.Background())
}

func (f *fakeAPI) RequestAdoption(_ context.Context, token string, petID int64, message string) (marketplace.AdoptionRequest, error) {
	if token == "" {
		return marketplace.AdoptionRequest{}, marketplace.ErrUnauthorized
	}
	pet, err := f.Pet(context.Background(), petID)
	if err != nil {
		return marketplace.AdoptionRequest{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req := marketplace.AdoptionRequest{
		ID:        f.nextID,
		Pet:       &pet,
		Status:    marketplace.StatusPending,
		Message:   message,
		CreatedAt: time.Now(),
	}
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakeAPI) MyAdoptionRequests(_ context.Context, token string) ([]marketplace.AdoptionRequest, error) {
	if token == "" {
		return nil, marketplace.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]marketplace.AdoptionRequest(nil), f.requests...), nil
}

func (f *fakeAPI) AdoptionRequests(ctx context.Context, token string) ([]marketplace.AdoptionRequest, error) {
	return f.MyAdoptionRequests(ctx, token)
}

func (f *fakeAPI) UpdateAdoptionStatus(_ context.Context, token string, id int64, status string) (marketplace.AdoptionRequest, error) {
	if token == "" {
		return marketplace.AdoptionRequest{}, marketplace.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = status
			return f.requests[i], nil
		}
	}
	return marketplace.AdoptionRequest{}, marketplace.ErrNotFound
}

func (f *fakeAPI) Gallery(context.Context) ([]marketplace.GalleryImage, error) {
	return []marketplace.GalleryImage{{ID: 1, Image: "/img/1.jpg", Caption: "Nap time"}}, nil
}

func (f *fakeAPI) UploadGalleryImage(_ context.Context, token string, _ marketplace.Upload, caption string) (marketplace.GalleryImage, error) {
	if token == "" {
		return marketplace.GalleryImage{}, marketplace.ErrUnauthorized
	}
	return marketplace.GalleryImage{ID: 2, Caption: caption}, nil
}

var _ marketplace.API = (*fakeAPI)(nil)

func newTestServer(t *testing.T, api marketplace.API, sessions session.Store) *httptest.Server {
	t.Helper()
	h, err := router.New(router.Options{API: api, Sessions: sessions})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

// browser simula un navegador: guarda cookies, no sigue redirects.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (int, string, http.Header) {
	t.Helper()
	resp, err := c.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func postForm(t *testing.T, c *http.Client, u string, form url.Values) (int, string, http.Header) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func TestHTTP_EndToEnd_BrowseLoginAdopt(t *testing.T) {
	ts := newTestServer(t, newFakeAPI(), memory.NewStore())
	b := browser(t)

	// 1) Home pública con categorías
	{
		st, body, _ := get(t, b, ts.URL+"/")
		if st != http.StatusOK {
			t.Fatalf("expected 200 home, got %d", st)
		}
		if !strings.Contains(body, "Explore Pet Categories") {
			t.Fatalf("home missing categories section")
		}
	}

	// 2) Listado con filtro por tipo: Rex sí, Milo no
	{
		st, body, _ := get(t, b, ts.URL+"/pets?type=dog")
		if st != http.StatusOK {
			t.Fatalf("expected 200 pets list, got %d", st)
		}
		if !strings.Contains(body, "Rex") || strings.Contains(body, "Milo") {
			t.Fatalf("type=dog should list Rex and not Milo")
		}
	}

	// 3) Query con params vacíos se canonicaliza
	{
		st, _, hdr := get(t, b, ts.URL+"/pets?search=&type=dog&gender=")
		if st != http.StatusSeeOther {
			t.Fatalf("expected 303 canonical redirect, got %d", st)
		}
		if loc := hdr.Get("Location"); loc != "/pets?type=dog" {
			t.Fatalf("expected /pets?type=dog, got %q", loc)
		}
	}

	// 4) Detalle público
	{
		st, body, _ := get(t, b, ts.URL+"/pets/1")
		if st != http.StatusOK {
			t.Fatalf("expected 200 pet detail, got %d", st)
		}
		if !strings.Contains(body, "Rex") {
			t.Fatalf("detail missing pet name")
		}
	}

	// 5) Detalle inexistente => 404 con mensaje
	{
		st, body, _ := get(t, b, ts.URL+"/pets/999")
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown pet, got %d", st)
		}
		if !strings.Contains(body, "Pet not found.") {
			t.Fatalf("missing not-found message")
		}
	}

	// 6) Adoptar sin sesión => a /login
	{
		st, _, hdr := postForm(t, b, ts.URL+"/pets/1/adopt", url.Values{"message": {"please"}})
		if st != http.StatusSeeOther || hdr.Get("Location") != "/login" {
			t.Fatalf("expected redirect to /login, got %d %q", st, hdr.Get("Location"))
		}
	}

	// 7) Login con credenciales malas => mensaje, sin cookie
	{
		st, body, _ := postForm(t, b, ts.URL+"/login", url.Values{
			"username": {"maria"}, "password": {"bad"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login error page, got %d", st)
		}
		if !strings.Contains(body, "Invalid username or password. Please try again.") {
			t.Fatalf("missing login error message")
		}
	}

	// 8) Login OK => redirect a /gallery con cookie de sesión
	{
		st, _, hdr := postForm(t, b, ts.URL+"/login", url.Values{
			"username": {"maria"}, "password": {"good"},
		})
		if st != http.StatusSeeOther || hdr.Get("Location") != "/gallery" {
			t.Fatalf("expected redirect to /gallery, got %d %q", st, hdr.Get("Location"))
		}
	}

	// 9) El navbar ya muestra la identidad
	{
		_, body, _ := get(t, b, ts.URL+"/gallery")
		if !strings.Contains(body, "maria") {
			t.Fatalf("navbar missing username after login")
		}
	}

	// 10) Adoptar con sesión => flash + dashboard con la solicitud
	{
		st, _, hdr := postForm(t, b, ts.URL+"/pets/1/adopt", url.Values{"message": {"I love Rex"}})
		if st != http.StatusSeeOther || hdr.Get("Location") != "/dashboard" {
			t.Fatalf("expected redirect to /dashboard, got %d %q", st, hdr.Get("Location"))
		}

		_, body, _ := get(t, b, ts.URL+"/dashboard")
		if !strings.Contains(body, "Adoption request submitted successfully!") {
			t.Fatalf("missing adoption flash")
		}
		if !strings.Contains(body, "I love Rex") || !strings.Contains(body, "Pending") {
			t.Fatalf("dashboard missing the new request")
		}
	}

	// 11) Usuario común no entra al panel admin
	{
		st, _, hdr := get(t, b, ts.URL+"/admin")
		if st != http.StatusSeeOther || hdr.Get("Location") != "/dashboard" {
			t.Fatalf("expected non-staff redirect to /dashboard, got %d %q", st, hdr.Get("Location"))
		}
	}

	// 12) Logout => vuelta al home, y las vistas protegidas piden login
	{
		st, _, hdr := postForm(t, b, ts.URL+"/logout", url.Values{})
		if st != http.StatusSeeOther || hdr.Get("Location") != "/" {
			t.Fatalf("expected redirect to /, got %d %q", st, hdr.Get("Location"))
		}

		st, _, hdr = get(t, b, ts.URL+"/my-pets")
		if st != http.StatusSeeOther || hdr.Get("Location") != "/login" {
			t.Fatalf("expected /my-pets to require login, got %d %q", st, hdr.Get("Location"))
		}
	}
}

func TestHTTP_Register_ConflictShowsMessage(t *testing.T) {
	ts := newTestServer(t, newFakeAPI(), memory.NewStore())
	b := browser(t)

	st, body, _ := postForm(t, b, ts.URL+"/register", url.Values{
		"username": {"taken"}, "email": {"t@x.com"}, "password": {"secret1"},
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 register error page, got %d", st)
	}
	if !strings.Contains(body, "That pawfile already exists!") {
		t.Fatalf("missing conflict message, body=%s", body)
	}
}

func TestHTTP_Register_SuccessRedirectsToLoginWithFlash(t *testing.T) {
	ts := newTestServer(t, newFakeAPI(), memory.NewStore())
	b := browser(t)

	st, _, hdr := postForm(t, b, ts.URL+"/register", url.Values{
		"username": {"nueva"}, "email": {"n@x.com"}, "password": {"secret1"},
	})
	if st != http.StatusSeeOther || hdr.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", st, hdr.Get("Location"))
	}

	_, body, _ := get(t, b, ts.URL+"/login")
	if !strings.Contains(body, "Welcome to the Pet Pack!") {
		t.Fatalf("missing register flash on login page")
	}
}

// staffSession instala una sesión de staff directamente en el store y
// devuelve la cookie lista para usar.
func staffSession(t *testing.T, sessions session.Store) *http.Cookie {
	t.Helper()
	sess := session.Session{
		ID:        "staff-sess",
		Token:     "tok-admin",
		User:      marketplace.User{ID: 1, Username: "admin", IsStaff: true},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := sessions.Put(context.Background(), sess); err != nil {
		t.Fatalf("put session: %v", err)
	}
	return &http.Cookie{Name: middleware.CookieName, Value: sess.ID}
}

func TestHTTP_AdminStatusUpdate_XHRPatchesRow(t *testing.T) {
	api := newFakeAPI()
	sessions := memory.NewStore()
	ts := newTestServer(t, api, sessions)
	cookie := staffSession(t, sessions)

	// semilla: una solicitud pendiente
	req, err := api.RequestAdoption(context.Background(), "tok-admin", 1, "hi")
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}

	// 1) Aprobar vía XHR => JSON con los datos del badge
	{
		form := url.Values{"status": {"approved"}}
		httpReq, _ := http.NewRequest(http.MethodPost,
			ts.URL+"/admin/requests/"+strconv.FormatInt(req.ID, 10)+"/status",
			strings.NewReader(form.Encode()))
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
		httpReq.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(httpReq)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var out struct {
			Status     string `json:"status"`
			BadgeClass string `json:"badge_class"`
			BadgeLabel string `json:"badge_label"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Status != "approved" || out.BadgeClass != "bg-success" || out.BadgeLabel != "Approved" {
			t.Fatalf("unexpected payload: %+v", out)
		}
	}

	// 2) Status inválido => 400, la solicitud no cambia
	{
		form := url.Values{"status": {"bogus"}}
		httpReq, _ := http.NewRequest(http.MethodPost,
			ts.URL+"/admin/requests/"+strconv.FormatInt(req.ID, 10)+"/status",
			strings.NewReader(form.Encode()))
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		httpReq.AddCookie(cookie)

		resp, err := http.DefaultClient.Do(httpReq)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for bogus status, got %d", resp.StatusCode)
		}
	}

	// 3) Sin XHR el form común redirige al panel
	{
		b := browser(t)
		u, _ := url.Parse(ts.URL)
		b.Jar.SetCookies(u, []*http.Cookie{cookie})

		st, _, hdr := postForm(t, b, ts.URL+"/admin/requests/"+strconv.FormatInt(req.ID, 10)+"/status",
			url.Values{"status": {"rejected"}})
		if st != http.StatusSeeOther || hdr.Get("Location") != "/admin" {
			t.Fatalf("expected redirect to /admin, got %d %q", st, hdr.Get("Location"))
		}
	}
}

func TestHTTP_DeleteWithoutConfirmDoesNothing(t *testing.T) {
	api := newFakeAPI()
	sessions := memory.NewStore()
	ts := newTestServer(t, api, sessions)
	cookie := staffSession(t, sessions)

	b := browser(t)
	u, _ := url.Parse(ts.URL)
	b.Jar.SetCookies(u, []*http.Cookie{cookie})

	// sin confirm=yes no se borra nada
	st, _, hdr := postForm(t, b, ts.URL+"/pets/1/delete", url.Values{"confirm": {""}})
	if st != http.StatusSeeOther || hdr.Get("Location") != "/my-pets" {
		t.Fatalf("expected redirect to /my-pets, got %d %q", st, hdr.Get("Location"))
	}
	if _, err := api.Pet(context.Background(), 1); err != nil {
		t.Fatalf("pet should still exist: %v", err)
	}

	// con confirm=yes sí
	st, _, hdr = postForm(t, b, ts.URL+"/pets/1/delete", url.Values{"confirm": {"yes"}})
	if st != http.StatusSeeOther || hdr.Get("Location") != "/my-pets" {
		t.Fatalf("expected redirect to /my-pets, got %d %q", st, hdr.Get("Location"))
	}
	if _, err := api.Pet(context.Background(), 1); err == nil {
		t.Fatalf("pet should be deleted")
	}
}
