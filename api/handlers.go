package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/storage"
)

// VehicleDTO is the wire form of a catalog record.
type VehicleDTO struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	InsertedAt  time.Time `json:"inserted_at"`
}

// CreateVehicleRequest is the body of POST /vehicles.
type CreateVehicleRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// MatchRequest is the body of POST /vehicles/match.
type MatchRequest struct {
	Description  string `json:"description"`
	Strict       bool   `json:"strict"`
	FullResponse bool   `json:"full_response"`
}

// MatchResponseFull carries the full outcome; Vehicle is null on a
// confident no-match.
type MatchResponseFull struct {
	Vehicle    *VehicleDTO `json:"vehicle"`
	Band       string      `json:"band"`
	Arbitrated bool        `json:"arbitrated"`
}

// MatchResponseSimple carries only the matched identifier, null when no
// confident match exists.
type MatchResponseSimple struct {
	ID *string `json:"id"`
}

// BatchMatchRequest is the body of POST /vehicles/match/batch.
type BatchMatchRequest struct {
	Descriptions []string `json:"descriptions"`
	Strict       bool     `json:"strict"`
	FullResponse bool     `json:"full_response"`
}

// BatchMatchResultFull is one full-form batch item. Error is set when that
// item's collaborators failed; other items are unaffected.
type BatchMatchResultFull struct {
	Description string      `json:"description"`
	Vehicle     *VehicleDTO `json:"vehicle"`
	Band        string      `json:"band,omitempty"`
	Arbitrated  bool        `json:"arbitrated,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// BatchMatchResultSimple is one simple-form batch item.
type BatchMatchResultSimple struct {
	Description string  `json:"description"`
	ID          *string `json:"id"`
	Error       string  `json:"error,omitempty"`
}

// EmbeddingRequest is the body of POST /vehicles/embedding.
type EmbeddingRequest struct {
	Description string `json:"description"`
}

// EmbeddingResponse carries the raw embedding vector.
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
}

func toVehicleDTO(record *core.VehicleRecord) *VehicleDTO {
	if record == nil {
		return nil
	}
	return &VehicleDTO{
		ID:          record.ID,
		Description: record.Description,
		InsertedAt:  record.InsertedAt,
	}
}

// getVehicle handles GET /api/v1/vehicles/{id}.
func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		s.logger.Error("error fetching vehicle", "id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	s.writeJSON(w, http.StatusOK, toVehicleDTO(record))
}

// createVehicle handles POST /api/v1/vehicles.
func (s *Server) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.vehicles.AddVehicle(r.Context(), req.ID, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			s.writeError(w, http.StatusConflict, "vehicle already exists")
		case errors.Is(err, core.ErrInvalidVehicleRecord):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("error creating vehicle", "id", req.ID, "err", err)
			s.writeError(w, http.StatusInternalServerError, "storage failure")
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, toVehicleDTO(record))
}

// matchVehicle handles POST /api/v1/vehicles/match.
func (s *Server) matchVehicle(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		s.writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	outcome, err := s.matcher.Match(r.Context(), core.MatchQuery{
		Description: req.Description,
		Strict:      req.Strict,
	})
	if err != nil {
		s.logger.Error("match failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "matching collaborator failure")
		return
	}

	if req.FullResponse {
		s.writeJSON(w, http.StatusOK, MatchResponseFull{
			Vehicle:    toVehicleDTO(outcome.Record),
			Band:       outcome.Band.String(),
			Arbitrated: outcome.Arbitrated,
		})
		return
	}

	var id *string
	if outcome.Matched() {
		id = &outcome.Record.ID
	}
	s.writeJSON(w, http.StatusOK, MatchResponseSimple{ID: id})
}

// matchVehicleBatch handles POST /api/v1/vehicles/match/batch. Items are
// matched independently; one item's failure does not fail the request.
func (s *Server) matchVehicleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Descriptions) == 0 {
		s.writeError(w, http.StatusBadRequest, "descriptions are required")
		return
	}

	queries := make([]core.MatchQuery, len(req.Descriptions))
	for i, description := range req.Descriptions {
		queries[i] = core.MatchQuery{Description: description, Strict: req.Strict}
	}

	results, err := s.matcher.MatchBatch(r.Context(), queries, 0)
	if err != nil {
		s.logger.Error("batch match failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "matching collaborator failure")
		return
	}

	if req.FullResponse {
		out := make([]BatchMatchResultFull, len(results))
		for i, result := range results {
			item := BatchMatchResultFull{Description: req.Descriptions[i]}
			if result.Err != nil {
				item.Error = result.Err.Error()
			} else {
				item.Vehicle = toVehicleDTO(result.Outcome.Record)
				item.Band = result.Outcome.Band.String()
				item.Arbitrated = result.Outcome.Arbitrated
			}
			out[i] = item
		}
		s.writeJSON(w, http.StatusOK, out)
		return
	}

	out := make([]BatchMatchResultSimple, len(results))
	for i, result := range results {
		item := BatchMatchResultSimple{Description: req.Descriptions[i]}
		if result.Err != nil {
			item.Error = result.Err.Error()
		} else if result.Outcome.Matched() {
			item.ID = &result.Outcome.Record.ID
		}
		out[i] = item
	}
	s.writeJSON(w, http.StatusOK, out)
}

// embedding handles POST /api/v1/vehicles/embedding.
func (s *Server) embedding(w http.ResponseWriter, r *http.Request) {
	var req EmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		s.writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	vector, err := s.embedder.EmbedText(r.Context(), req.Description)
	if err != nil {
		s.logger.Error("embedding failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "embedding collaborator failure")
		return
	}

	s.writeJSON(w, http.StatusOK, EmbeddingResponse{
		Embedding: vector,
		Dimension: len(vector),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("error encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
