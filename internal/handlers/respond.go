package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Error().Err(err).Msg("Failed to encode response")
		}
	}
}

// respondDetail writes a {"detail": ...} message body
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// respondError maps an application error to its status code. Errors
// carrying field details are rendered as a field→message object, the
// rest as {"detail": ...}.
func respondError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal {
		log.Error().Err(err).Msg("Request failed")
	}

	status := apperr.Status(err)
	if len(ae.Fields) > 0 {
		respondJSON(w, status, ae.Fields)
		return
	}
	respondDetail(w, status, ae.Message)
}

// decodeBody parses the JSON request body into v
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.ValidationMsg("Invalid request body")
	}
	return nil
}

// urlID parses the {id} URL parameter
func urlID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.ValidationMsg("Invalid id")
	}
	return id, nil
}
