package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RespondWithJSON writes payload as a JSON response with the given status.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// SendJSONError writes a JSON error body {"error": msg} with the given status.
func SendJSONError(w http.ResponseWriter, msg string, statusCode int) {
	RespondWithJSON(w, statusCode, map[string]string{"error": msg})
}

// RespondWithError is an alias kept for handler symmetry with SendJSONError.
func RespondWithError(w http.ResponseWriter, statusCode int, msg string) {
	SendJSONError(w, msg, statusCode)
}
