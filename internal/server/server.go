// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the resolution and formatting pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/citation-engine/internal/batch"
	"github.com/pdiddy/citation-engine/internal/cite"
	"github.com/pdiddy/citation-engine/internal/metrics"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Requests slower than this get a warning log entry.
const slowRequestThreshold = time.Second

// Server wires the pipeline components behind the HTTP API.
type Server struct {
	orch      *batch.Orchestrator
	resolver  *resolve.Resolver
	collector *metrics.Collector
	log       *zap.Logger
}

// New builds a Server from the pipeline components.
func New(orch *batch.Orchestrator, resolver *resolve.Resolver, collector *metrics.Collector, log *zap.Logger) *Server {
	return &Server{orch: orch, resolver: resolver, collector: collector, log: log}
}

// Handler returns the API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/format", s.handleFormat)
	mux.HandleFunc("POST /api/download", s.handleDownload)
	mux.HandleFunc("GET /api/lookup/{doi...}", s.handleLookup)
	mux.HandleFunc("GET /api/search/{title}", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return s.observe(mux)
}

// observe records per-request timing and logs each request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)

		s.collector.RecordRequest(elapsed)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", elapsed))
		if elapsed > slowRequestThreshold {
			s.log.Warn("slow request",
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", elapsed))
		}
	})
}

type formatRequest struct {
	References string `json:"references"`
	Style      string `json:"format"`
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	style, err := cite.ParseStyle(req.Style)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.orch.Format(r.Context(), req.References, style)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type downloadRequest struct {
	References string `json:"references"`
	Format     string `json:"format"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exp, err := s.orch.ExportBatch(r.Context(), req.References, req.Format)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, exp.Content)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	doi := r.PathValue("doi")
	p, err := s.resolver.LookupDOI(r.Context(), doi)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}
	if p == nil {
		s.writeError(w, http.StatusNotFound, "Paper not found")
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		Data    *types.Paper `json:"data"`
	}{true, p})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	papers, err := s.resolver.SearchTitle(r.Context(), title)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Success bool          `json:"success"`
		Data    []types.Paper `json:"data"`
		Total   int           `json:"total"`
	}{true, papers, len(papers)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{"healthy"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.collector.Snapshot())
}

// writeResolveError maps pipeline errors onto HTTP status codes: malformed
// input is the client's fault, anything else is ours.
func (s *Server) writeResolveError(w http.ResponseWriter, err error) {
	if errors.Is(err, types.ErrMalformedInput) {
		msg := strings.TrimPrefix(err.Error(), types.ErrMalformedInput.Error())
		msg = strings.TrimPrefix(msg, ": ")
		if msg == "" {
			msg = "malformed input"
		}
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}
	s.log.Error("request failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}
