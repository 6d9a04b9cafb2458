package marketplace

import "context"

// API es el contrato contra el servicio remoto del marketplace.
// Las operaciones autenticadas reciben el bearer token explícito:
// quién guarda el token (la sesión) es problema de otro módulo.
type API interface {
	// Auth / perfil
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Register(ctx context.Context, reg Registration) (User, error)
	Profile(ctx context.Context, token string) (User, error)
	UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (User, error)

	// Mascotas
	Pets(ctx context.Context) ([]Pet, error)
	Pet(ctx context.Context, id int64) (Pet, error)
	CreatePet(ctx context.Context, token string, form PetForm) (Pet, error)
	UpdatePet(ctx context.Context, token string, id int64, form PetForm) (Pet, error)
	DeletePet(ctx context.Context, token string, id int64) error
	MyPets(ctx context.Context, token string) ([]Pet, error)

	// Solicitudes de adopción
	RequestAdoption(ctx context.Context, token string, petID int64, message string) (AdoptionRequest, error)
	MyAdoptionRequests(ctx context.Context, token string) ([]AdoptionRequest, error)
	AdoptionRequests(ctx context.Context, token string) ([]AdoptionRequest, error)
	UpdateAdoptionStatus(ctx context.Context, token string, id int64, status string) (AdoptionRequest, error)

	// Galería
	Gallery(ctx context.Context) ([]GalleryImage, error)
	UploadGalleryImage(ctx context.Context, token string, image Upload, caption string) (GalleryImage, error)
}
