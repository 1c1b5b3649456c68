package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Cheertaboi/ofertas-service/internal/models"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       any                 `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Errors     []models.FieldError `json:"errors,omitempty"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	PageSize   int `json:"pageSize"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Envelope{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, code int, message string, fieldErrs []models.FieldError) {
	writeJSON(w, code, Envelope{Success: false, Message: message, Errors: fieldErrs})
}

// writeError maps an error from the service layer onto a status code. Only
// unexpected failures are logged; their detail is withheld in production.
func writeError(w http.ResponseWriter, r *http.Request, err error, production bool) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeFail(w, http.StatusBadRequest, "Validation failed", verrs)
	case errors.Is(err, models.ErrInvalidOfferID):
		writeFail(w, http.StatusBadRequest, "Invalid offer id", []models.FieldError{
			{Field: "id", Message: "must be a UUID", Code: "uuid"},
		})
	case errors.Is(err, models.ErrOfferNotFound):
		writeFail(w, http.StatusNotFound, "Offer not found", nil)
	case errors.Is(err, models.ErrNoLinkForOffer):
		writeFail(w, http.StatusNotFound, "Offer has no link to encode", nil)
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		msg := "Internal server error"
		if !production {
			msg = err.Error()
		}
		writeFail(w, http.StatusInternalServerError, msg, nil)
	}
}
