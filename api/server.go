package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
	"github.com/wricardo/roguebot/game/session"
	"github.com/wricardo/roguebot/logging"
	"github.com/wricardo/roguebot/store"
	"github.com/wricardo/roguebot/transport/websocket"
)

const (
	// OwnerHeader carries the caller's player identity.
	OwnerHeader = "X-Owner-ID"
	// RequestIDHeader is echoed on every response.
	RequestIDHeader = "X-Request-ID"
)

// ErrReservedOwner refuses owner IDs in the "transport:id" form chat
// transports give their players, so HTTP callers cannot act as them.
var ErrReservedOwner = errors.New("owner IDs containing ':' are reserved for chat players")

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	pools   *store.Pools
	router  *mux.Router
}

// NewServer creates a new API server. hub and pools may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub, pools *store.Pools) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		pools:   pools,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(requestLogger)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleStartGame).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleEndSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")

	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		// The websocket upgrade needs the raw writer
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.For("api").WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Debug("request")
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, service.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, ErrReservedOwner):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrUnknownDirection), errors.Is(err, service.ErrOwnerRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.For("api").WithError(err).Error("request failed")
	}
	respondError(w, status, err.Error())
}

// ownerFrom prefers the JSON field and falls back to the header
func ownerFrom(r *http.Request, field string) (string, error) {
	owner := strings.TrimSpace(field)
	if owner == "" {
		owner = strings.TrimSpace(r.Header.Get(OwnerHeader))
	}
	if strings.Contains(owner, ":") {
		return "", ErrReservedOwner
	}
	return owner, nil
}

// decodeBody tolerates an empty body
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Session Handlers

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID string `json:"owner_id,omitempty"`
		Preset  string `json:"preset,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner, err := ownerFrom(r, req.OwnerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	info, err := s.service.StartGame(r.Context(), owner, req.Preset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Optional filter by owner
	if owner := r.URL.Query().Get("owner"); owner != "" {
		filtered := sessions[:0]
		for _, sess := range sessions {
			if sess.OwnerID == owner {
				filtered = append(filtered, sess)
			}
		}
		sessions = filtered
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		OwnerID string `json:"owner_id,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner, err := ownerFrom(r, req.OwnerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := s.service.EndSession(r.Context(), sessionID, owner); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s ended", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
		OwnerID   string `json:"owner_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner, err := ownerFrom(r, req.OwnerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if owner == "" {
		respondError(w, http.StatusBadRequest, service.ErrOwnerRequired.Error())
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, owner, req.Direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logging.For("api").WithFields(logrus.Fields{
		"session": sessionID,
		"dir":     result.Direction,
		"moved":   result.Moved,
		"crossed": result.CrossedMap,
		"tile":    result.Tile,
	}).Info("move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(presets),
		"presets": presets,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "spectating is disabled")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, info.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := s.pools.Health(r.Context())

	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	resp := map[string]interface{}{"status": status}
	if len(checks) > 0 {
		resp["checks"] = checks
	}
	respondJSON(w, code, resp)
}
