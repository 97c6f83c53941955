// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/match"
	"github.com/poiesic/vehiclematch/storage"
)

// Server bundles the HTTP handlers for the catalog and matching endpoints.
type Server struct {
	matcher  *match.Matcher
	vehicles storage.VehicleRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewServer creates a new API server.
func NewServer(matcher *match.Matcher, vehicles storage.VehicleRepository, embedder ai.Embedder, opts ...Option) (*Server, error) {
	if matcher == nil {
		return nil, errors.New("matcher required")
	}
	if vehicles == nil {
		return nil, errors.New("vehicle repository required")
	}
	if embedder == nil {
		return nil, errors.New("embedder required")
	}

	s := &Server{
		matcher:  matcher,
		vehicles: vehicles,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"vehiclematch"}`))
	})

	r.Route("/api/v1/vehicles", func(r chi.Router) {
		r.Get("/{id}", s.getVehicle)
		r.Post("/", s.createVehicle)
		r.Post("/match", s.matchVehicle)
		r.Post("/match/batch", s.matchVehicleBatch)
		r.Post("/embedding", s.embedding)
	})

	return r
}
