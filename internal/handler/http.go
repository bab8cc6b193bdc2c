package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phillyfan-api/internal/auth"
	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
	"github.com/phillyfan-api/internal/service"
	"github.com/phillyfan-api/internal/websocket"
)

// Handler provides HTTP handlers for the API
type Handler struct {
	sports *service.SportsService
	ledger *service.LedgerService
	auth   *auth.Verifier
	hub    *websocket.Hub
	config *config.Config
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sports *service.SportsService,
	ledger *service.LedgerService,
	verifier *auth.Verifier,
	hub *websocket.Hub,
	cfg *config.Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sports: sports,
		ledger: ledger,
		auth:   verifier,
		hub:    hub,
		config: cfg,
		logger: logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Public routes serve browser clients from any origin. The auth-gated
	// ledger routes below stay outside this policy.
	openCORS := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})

	r.Group(func(r chi.Router) {
		r.Use(openCORS)

		// Health check
		r.Get("/health", h.HealthCheck)
		r.Get("/ready", h.ReadyCheck)

		// WebSocket endpoint
		r.Get("/ws", h.HandleWebSocket)
		r.Get("/ws/stats", h.GetWebSocketStats)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(openCORS)

			// Aggregated feeds
			r.Get("/schedule", h.GetPhillySchedule)
			r.Get("/schedules/philly", h.GetPhillySchedule)
			r.Get("/scores", h.GetScores)
			r.Get("/game/{gameID}", h.GetGameDetail)

			// Standings
			r.Get("/standings/college-basketball", h.GetCollegeStandings)
			r.Get("/standings/{sport}", h.GetStandings)

			// SportsDataIO-backed league data
			r.Route("/sportsdata", func(r chi.Router) {
				r.Get("/schedules", h.GetLeagueSchedules)
				r.Get("/standings", h.GetLeagueStandings)
				r.Get("/odds", h.GetOdds)
			})

			// Content lookup
			r.Get("/photos/search", h.SearchPhotos)
			r.Get("/highlights", h.GetHighlights)

			// Third-party plumbing
			r.Get("/webhooks/ebay", h.VerifyEbayWebhook)
			r.Post("/webhooks/ebay", h.AcknowledgeEbayWebhook)
			r.Get("/pusher/config", h.GetPusherConfig)
		})

		// Gamification, token required
		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)

			r.Get("/predictions", h.GetPredictions)
			r.Post("/predictions", h.CreatePrediction)
			r.Get("/predictions/leaderboard", h.GetLeaderboard)

			r.Get("/coins/balance", h.GetBalance)
			r.Get("/coins/history", h.GetCoinHistory)
			r.Get("/tips/history", h.GetTipHistory)
			r.Post("/tips", h.SendTip)
		})
	})

	return r
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// respondError maps domain errors onto HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err), errors.Is(err, domain.ErrInsufficientCoins):
		h.writeError(w, http.StatusBadRequest, err)
	case domain.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrNotConfigured):
		// Optional providers degrade to 503 so clients can fall back.
		h.writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, domain.ErrMissingAPIKey):
		// Required provider keys fail closed.
		h.writeError(w, http.StatusInternalServerError, err)
	default:
		h.logger.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed.
func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// GetWebSocketStats returns WebSocket connection statistics
func (h *Handler) GetWebSocketStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]interface{}{
		"total_connections": h.hub.GetTotalConnections(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}
