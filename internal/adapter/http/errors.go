package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

type ErrorResponse struct {
	Error  string                   `json:"error"`
	Code   string                   `json:"code"`
	Errors []domain.ValidationError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorStatus maps service errors onto HTTP status codes and stable error codes.
func errorStatus(err error) (int, ErrorResponse) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Code: "validation", Errors: verrs}
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_status"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: "unauthorized"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "order not found", Code: "not_found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"}
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, body := errorStatus(err)
	respondJSON(w, status, body)
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request"})
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// decodeJSON reads at most maxBodyBytes of r.Body into dst. On failure it has
// already answered the request and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: "too_large"})
			return false
		}
		respondBadRequest(w, "invalid request body")
		return false
	}
	return true
}
