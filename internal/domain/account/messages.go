package account

import (
	"errors"
	"fmt"
	"net/http"

	"petconnect-web/internal/ports/marketplace"
)

// loginErrorMessage traduce la falla del login a texto para el
// usuario. 401 es credencial mala; 400 es request malformado.
func loginErrorMessage(err error) string {
	var ve *marketplace.ValidationError
	var ue *marketplace.UpstreamError

	switch {
	case errors.Is(err, marketplace.ErrUnauthorized):
		return "Invalid username or password. Please try again."
	case errors.As(err, &ve):
		return "Please check your credentials and try again."
	case errors.As(err, &ue) && ue.Status == http.StatusBadRequest:
		return "Please check your credentials and try again."
	}
	return "Login failed. Please try again later."
}

// registerErrorMessage arma el mensaje del alta de cuenta. El orden
// importa: primero el error de campo más específico (username gana a
// email, email a password), después los códigos conocidos, después
// el genérico con el status, y recién al final la falta de respuesta.
func registerErrorMessage(err error) string {
	var ve *marketplace.ValidationError
	if errors.As(err, &ve) {
		if m := ve.First("username"); m != "" {
			return "🐾 Username issue: " + m
		}
		if m := ve.First("email"); m != "" {
			return "📧 Email issue: " + m
		}
		if m := ve.First("password"); m != "" {
			return "🔐 Password issue: " + m
		}
		return "Invalid registration data. Please check your info."
	}

	var ue *marketplace.UpstreamError
	switch {
	case errors.Is(err, marketplace.ErrConflict):
		return "That pawfile already exists! 🐶 Try a different one."
	case errors.Is(err, marketplace.ErrUnavailable):
		return "🐾 Server not responding. Check your internet connection."
	case errors.Is(err, marketplace.ErrUnauthorized):
		return fmt.Sprintf("Registration failed (%d). Try again soon!", http.StatusUnauthorized)
	case errors.Is(err, marketplace.ErrNotFound):
		return fmt.Sprintf("Registration failed (%d). Try again soon!", http.StatusNotFound)
	case errors.As(err, &ue):
		if ue.Status == http.StatusBadRequest {
			return "Invalid registration data. Please check your info."
		}
		return fmt.Sprintf("Registration failed (%d). Try again soon!", ue.Status)
	}
	return "Registration failed. Please try again."
}
