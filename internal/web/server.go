// Package web serves the wine quality dashboard: the single page itself, the
// JSON API the page talks to, and a WebSocket stream of prediction outcome
// transitions.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"winedash/internal/cfg"
	"winedash/internal/controller"
	"winedash/internal/features"
)

// MetricsInterface defines the metrics methods needed by the web layer.
type MetricsInterface interface {
	WSClientsAdd(float64)
}

// Server hosts the dashboard page and its API.
type Server struct {
	ctrl    *controller.Controller
	metrics MetricsInterface
	server  *http.Server

	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	isRunning bool
	mu        sync.RWMutex
}

// NewServer creates a dashboard server on the configured listen port. When
// the prediction endpoint is configured as a same-origin relative path, that
// path is mounted as a reverse proxy to the upstream base so the deployed
// page and this process share one origin.
func NewServer(ctrl *controller.Controller, m MetricsInterface, settings cfg.Settings) (*Server, error) {
	s := &Server{
		ctrl:     ctrl,
		metrics:  m,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]bool),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/api/state", s.handleState).Methods("GET")
	r.HandleFunc("/api/features", s.handleSetFeature).Methods("POST")
	r.HandleFunc("/api/type", s.handleSetType).Methods("POST")
	r.HandleFunc("/api/predict", s.handlePredict).Methods("POST")
	r.HandleFunc("/ws", s.handleWS).Methods("GET")

	if settings.EndpointIsRelative() {
		upstream, err := url.Parse(settings.UpstreamBase)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream base: %w", err)
		}
		proxy := httputil.NewSingleHostReverseProxy(upstream)
		r.PathPrefix(settings.EndpointURL).Handler(proxy)
		log.Info().
			Str("path", settings.EndpointURL).
			Str("upstream", settings.UpstreamBase).
			Msg("mounted prediction proxy")
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", settings.ListenPort),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctrl.OnChange(s.broadcast)
	return s, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("dashboard server is already running")
	}

	go func() {
		log.Info().Str("address", s.server.Addr).Msg("starting dashboard server")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("dashboard server failed")
		}
	}()

	s.isRunning = true
	return nil
}

// Stop closes all WebSocket clients and shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown dashboard server")
		return err
	}

	s.isRunning = false
	log.Info().Msg("dashboard server stopped")
	return nil
}

// stateResponse is the full dashboard state: current feature values, the
// static bounds table for rendering, and the prediction outcome.
type stateResponse struct {
	Features features.Set              `json:"features"`
	Ranges   map[string]features.Range `json:"ranges"`
	Outcome  controller.Outcome        `json:"outcome"`
}

func (s *Server) currentState() stateResponse {
	return stateResponse{
		Features: s.ctrl.Features(),
		Ranges:   features.Ranges(),
		Outcome:  s.ctrl.Outcome(),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentState())
}

type setFeatureRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// handleSetFeature commits one slider edit. Validation rejections are silent
// by contract: the bounded widget should never produce them, so the handler
// responds with the unchanged state rather than an error.
func (s *Server) handleSetFeature(w http.ResponseWriter, r *http.Request) {
	var req setFeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	_ = s.ctrl.SetFeature(req.Name, req.Value)
	writeJSON(w, http.StatusOK, s.currentState())
}

type setTypeRequest struct {
	TypeWhite int `json:"type_white"`
}

func (s *Server) handleSetType(w http.ResponseWriter, r *http.Request) {
	var req setTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	_ = s.ctrl.SetType(req.TypeWhite)
	writeJSON(w, http.StatusOK, s.currentState())
}

// handlePredict triggers one prediction attempt and responds with the
// resolved outcome. A call while a request is in flight returns the current
// Pending outcome without issuing a second request.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	out := s.ctrl.Predict(r.Context())
	writeJSON(w, http.StatusOK, out)
}

// handleWS streams outcome transitions to the page.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()
	if s.metrics != nil {
		s.metrics.WSClientsAdd(1)
	}

	// Send the current outcome so a freshly loaded page is in sync.
	if data, err := json.Marshal(s.ctrl.Outcome()); err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	if s.metrics != nil {
		s.metrics.WSClientsAdd(-1)
	}
}

// broadcast pushes an outcome transition to all connected pages.
func (s *Server) broadcast(out controller.Outcome) {
	data, err := json.Marshal(out)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal outcome for broadcast")
		return
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Err(err).Msg("dropping dashboard client")
			client.Close()
			delete(s.clients, client)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
