package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savvit/savvit-server/internal/pipeline"
	"github.com/savvit/savvit-server/internal/storage"
)

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Watchlist is not configured", codeUnavailable)
		return
	}

	items, err := s.store.ListWatchlistItems(r.Context(), userID(r))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

type watchlistAddRequest struct {
	ProductName string `json:"productName"`
	Query       string `json:"query"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	TargetPrice *int   `json:"targetPrice,omitempty"`
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Watchlist is not configured", codeUnavailable)
		return
	}

	var req watchlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", codeInvalidInput)
		return
	}
	if req.ProductName == "" || req.Query == "" {
		respondError(w, http.StatusBadRequest, "productName and query are required", codeInvalidInput)
		return
	}

	item := &storage.WatchlistItem{
		UserID:       userID(r),
		ProductName:  req.ProductName,
		Query:        req.Query,
		SourceURL:    req.SourceURL,
		TargetPrice:  req.TargetPrice,
		NotifyOnDrop: true,
	}
	if err := s.store.AddWatchlistItem(r.Context(), item, s.cfg.WatchlistLimit); err != nil {
		s.respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"item": item})
}

type watchlistUpdateRequest struct {
	TargetPrice  *int  `json:"targetPrice,omitempty"`
	NotifyOnDrop *bool `json:"notifyOnDrop,omitempty"`
}

func (s *Server) handleWatchlistUpdate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Watchlist is not configured", codeUnavailable)
		return
	}

	var req watchlistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", codeInvalidInput)
		return
	}

	item, err := s.store.UpdateWatchlistItem(r.Context(), userID(r), chi.URLParam(r, "id"), storage.WatchlistUpdate{
		TargetPrice:  req.TargetPrice,
		NotifyOnDrop: req.NotifyOnDrop,
	})
	if err != nil {
		s.respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) handleWatchlistDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Watchlist is not configured", codeUnavailable)
		return
	}

	if err := s.store.DeleteWatchlistItem(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleWatchlistRefresh re-runs the verdict pipeline for one tracked item
// and stores the fresh verdict alongside it.
func (s *Server) handleWatchlistRefresh(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Watchlist is not configured", codeUnavailable)
		return
	}

	itemID := chi.URLParam(r, "id")
	items, err := s.store.ListWatchlistItems(r.Context(), userID(r))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}
	var item *storage.WatchlistItem
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found", codeNotFound)
		return
	}

	resp, err := s.searcher.Search(r.Context(), pipeline.SearchRequest{
		Query:     item.Query,
		SourceURL: item.SourceURL,
	})
	if err != nil {
		s.respondMappedError(w, searchError(err))
		return
	}

	stored := storage.StoredVerdict{
		Verdict:     resp.Verdict,
		Confidence:  resp.Confidence,
		ShortReason: resp.ShortReason,
	}
	if resp.BestPrice != nil {
		stored.BestPrice = resp.BestPrice.Price
		stored.BestRetailer = resp.BestPrice.Retailer
	}
	if err := s.store.SaveVerdict(r.Context(), item.ID, stored); err != nil {
		s.logger.Error("saving refreshed verdict failed", "item", item.ID, "error", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"item":    item,
		"verdict": resp,
	})
}
