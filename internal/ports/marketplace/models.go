package marketplace

import (
	"io"
	"time"
)

// User es el perfil tal como lo entrega el API.
// IsStaff habilita el panel de administración.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

// Purpose del aviso de una mascota.
const (
	PurposeAdoption = "adoption"
	PurposeSale     = "sale"
	PurposeOther    = "other"
)

// Pet es un aviso publicado en el marketplace.
// Varios campos son opcionales río arriba (gender, purpose, photo),
// por eso pueden venir vacíos.
type Pet struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Breed       string    `json:"breed"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Purpose     string    `json:"purpose"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	Available   bool      `json:"available"`
	Owner       *User     `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// Estados de una solicitud de adopción.
// pending es el inicial; approved y rejected son terminales.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type AdoptionRequest struct {
	ID        int64     `json:"id"`
	User      *User     `json:"user"`
	Pet       *Pet      `json:"pet"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type GalleryImage struct {
	ID         int64     `json:"id"`
	Image      string    `json:"image"`
	Caption    string    `json:"caption"`
	UploadedBy *User     `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult es la respuesta de POST /token/: el bearer y el perfil.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type ProfileUpdate struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Upload es un archivo a subir (foto de mascota, imagen de galería).
type Upload struct {
	Filename string
	Content  io.Reader
}

// PetForm son los campos del alta/edición de mascota.
// Van como multipart; Photo nil => no se manda archivo.
type PetForm struct {
	Name        string
	Type        string
	Breed       string
	Age         string
	Gender      string
	Purpose     string
	Description string
	Photo       *Upload
}
