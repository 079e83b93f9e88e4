package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/search"
	"github.com/planora/catalog/syncer"
)

type resyncRequest struct {
	ContentText string `json:"content_text"`
}

// searchRequest carries the retrieval parameters. Threshold is a pointer
// so an absent field gets the default while an explicit 0 disables the
// similarity floor.
type searchRequest struct {
	Query     string   `json:"query"`
	Threshold *float32 `json:"threshold"`
	Limit     int      `json:"limit"`
}

type itemOutcome struct {
	Id     core.ID `json:"id"`
	Status string  `json:"status"`
	Error  string  `json:"error,omitempty"`
}

type bulkResponse struct {
	Message        string        `json:"message"`
	ProcessedCount int           `json:"processed_count"`
	Results        []itemOutcome `json:"results"`
}

// handleResyncAsset recomputes one asset's embedding. An optional body
// field content_text overrides the composed content.
func (s *Server) handleResyncAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid asset id: %w", err))
		return
	}

	var req resyncRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.ContentText != "" {
		err = s.syncer.SyncContent(r.Context(), core.ID(id), req.ContentText)
	} else {
		err = s.syncer.Sync(r.Context(), core.ID(id))
	}
	if err != nil {
		s.logger.Error("asset resync failed", "assetId", id, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleResyncAll resynchronizes every asset. Per-asset failures are
// reported in the response body; only enumeration failure is a 500.
func (s *Server) handleResyncAll(w http.ResponseWriter, r *http.Request) {
	var opts []syncer.BulkOption
	if s.workers > 0 {
		opts = append(opts, syncer.WithWorkers(s.workers))
	}

	job, err := syncer.NewBulkSyncJob(s.syncer, s.assetRepo, opts...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer job.Release()

	ledger, err := job.Run(r.Context())
	if err != nil && ledger == nil {
		s.logger.Error("bulk resync failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := bulkResponse{
		Message:        fmt.Sprintf("resynced %d of %d assets", ledger.Succeeded(), len(ledger.Results)),
		ProcessedCount: len(ledger.Results),
		Results:        make([]itemOutcome, 0, len(ledger.Results)),
	}
	for _, result := range ledger.Results {
		outcome := itemOutcome{Id: result.AssetId, Status: "success"}
		if result.Err != nil {
			outcome.Status = "error"
			outcome.Error = result.Err.Error()
		}
		resp.Results = append(resp.Results, outcome)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSearch runs a hybrid retrieval query and returns ranked rows.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	threshold := search.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	matches, err := s.searcher.Search(r.Context(), req.Query, threshold, req.Limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("search failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, search.ToResults(matches))
}

// decodeBody parses an optional JSON body. An empty body leaves dst at
// its zero value.
func decodeBody(body io.Reader, dst any) error {
	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("invalid request body: %w", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
