package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/savvit/savvit-server/internal/calendar"
	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/pipeline"
	"github.com/savvit/savvit-server/internal/region"
)

// handleSearch is the main endpoint: product in, verdict out.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req pipeline.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", codeInvalidInput)
		return
	}

	resp, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		s.respondMappedError(w, searchError(err))
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// searchError folds unexpected pipeline failures into the search taxonomy so
// callers see SEARCH_FAILED rather than a generic internal error. Input
// problems keep their own codes.
func searchError(err error) error {
	switch {
	case errors.Is(err, common.ErrQueryTooShort),
		errors.Is(err, common.ErrURLResolveFailed),
		errors.Is(err, common.ErrUpstreamUnavailable),
		errors.Is(err, common.ErrMalformedResponse),
		errors.Is(err, common.ErrRateLimit):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrSearchFailed, err)
	}
}

func (s *Server) handleSaleCalendar(w http.ResponseWriter, r *http.Request) {
	rc := region.Resolve(r.URL.Query().Get("region"))
	currentMonth := int(s.now().UTC().Month())

	respondJSON(w, http.StatusOK, map[string]any{
		"currentMonth": currentMonth,
		"region":       rc.Code,
		"nextSale":     calendar.NextSaleEvent(currentMonth, rc.Code),
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	type regionInfo struct {
		Code           string `json:"code"`
		Name           string `json:"name"`
		Currency       string `json:"currency"`
		CurrencySymbol string `json:"currencySymbol"`
	}

	supported := region.Supported()
	regions := make([]regionInfo, 0, len(supported))
	for _, rc := range supported {
		regions = append(regions, regionInfo{
			Code:           rc.Code,
			Name:           rc.Name,
			Currency:       rc.Currency,
			CurrencySymbol: rc.CurrencySymbol,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"regions": regions})
}
