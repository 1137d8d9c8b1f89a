package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/storage"
)

// Error codes surfaced to clients.
const (
	codeInvalidInput     = "INVALID_INPUT"
	codeURLResolveFailed = "URL_RESOLVE_FAILED"
	codeSearchFailed     = "SEARCH_FAILED"
	codeNotFound         = "NOT_FOUND"
	codeWatchlistLimit   = "WATCHLIST_LIMIT"
	codeUnauthorized     = "UNAUTHORIZED"
	codeUnavailable      = "UNAVAILABLE"
	codeInternal         = "INTERNAL"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// respondMappedError translates pipeline and storage errors onto the HTTP
// taxonomy: input problems are 400s, backend problems are 500s.
func (s *Server) respondMappedError(w http.ResponseWriter, err error) {
	message := err.Error()
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		message = userErr.UserMessage
	}

	switch {
	case errors.Is(err, common.ErrURLResolveFailed):
		respondError(w, http.StatusBadRequest, message, codeURLResolveFailed)
	case errors.Is(err, common.ErrQueryTooShort),
		errors.Is(err, storage.ErrNoFields), errors.Is(err, storage.ErrEmptyString):
		respondError(w, http.StatusBadRequest, message, codeInvalidInput)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "Item not found", codeNotFound)
	case errors.Is(err, storage.ErrWatchlistFull):
		respondError(w, http.StatusForbidden, message, codeWatchlistLimit)
	case errors.Is(err, common.ErrUpstreamUnavailable), errors.Is(err, common.ErrMalformedResponse),
		errors.Is(err, common.ErrSearchFailed), errors.Is(err, common.ErrRateLimit):
		s.logger.Error("search failed", "error", err)
		respondError(w, http.StatusInternalServerError, message, codeSearchFailed)
	default:
		s.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error", codeInternal)
	}
}
