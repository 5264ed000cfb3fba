package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"duskSkyWeb/internal/logging"
	"duskSkyWeb/internal/types/friendship"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps friendship errors onto HTTP statuses. A
// failed directory lookup is a 502, never an empty relationship. The logged
// error names which directory failed.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, friendship.ErrInvalidArgument):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, friendship.ErrRequestNotFound):
		respondWithError(w, http.StatusNotFound, "Friend request not found")
	case errors.Is(err, friendship.ErrSelfRequest),
		errors.Is(err, friendship.ErrAlreadyFriends),
		errors.Is(err, friendship.ErrRequestPending):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, friendship.ErrCollaboratorUnavailable):
		logging.Error("directory unavailable",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondWithError(w, http.StatusBadGateway, "A directory service is temporarily unavailable")
	default:
		logging.Error("unhandled service error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
