// Copyright 2025 Planora
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


package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/planora/catalog/search"
	"github.com/planora/catalog/storage"
	"github.com/planora/catalog/syncer"
)

// Server exposes the sync and retrieval pipelines over HTTP.
type Server struct {
	router    *chi.Mux
	syncer    *syncer.Syncer
	searcher  *search.Searcher
	assetRepo storage.AssetRepository
	workers   int
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithWorkers sets the worker bound used by the bulk resync endpoint.
// Zero keeps the bulk job's own default.
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates the HTTP server.
func New(sync *syncer.Syncer, searcher *search.Searcher, assetRepo storage.AssetRepository, opts ...Option) (*Server, error) {
	if sync == nil {
		return nil, ErrSyncerRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if assetRepo == nil {
		return nil, ErrAssetRepositoryRequired
	}

	s := &Server{
		router:    chi.NewRouter(),
		syncer:    sync,
		searcher:  searcher,
		assetRepo: assetRepo,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	s.router.Use(middleware.RequestID)
	s.router.Use(s.accessLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/assets/{assetID}/resync", s.handleResyncAsset)
		r.Post("/assets/resync", s.handleResyncAll)
		r.Post("/search", s.handleSearch)
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs every HTTP request with status and timing.
func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
