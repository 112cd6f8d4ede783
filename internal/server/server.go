package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/iwvelando/finpulse/internal/scheduler"
	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/internal/telemetry"
	"github.com/iwvelando/finpulse/pkg/constants"
)

// Simulator is the part of the scheduler the HTTP surface depends on.
type Simulator interface {
	Current() *snapshot.Snapshot
	State() scheduler.State
	RequestRefresh() bool
	Subscribe(fn func(*snapshot.Snapshot)) (unsubscribe func())
}

type handler struct {
	logger       *zap.Logger
	sim          Simulator
	metrics      *telemetry.Collector
	gatherer     prometheus.Gatherer
	limiter      *rate.Limiter
	upgrader     websocket.Upgrader
	streamBuffer int
	maxMessage   int64
	version      string
}

// Option customizes the handler.
type Option func(*handler)

// WithMetrics records request metrics on c and serves reg on /metrics.
func WithMetrics(c *telemetry.Collector, reg prometheus.Gatherer) Option {
	return func(h *handler) {
		h.metrics = c
		h.gatherer = reg
	}
}

// NewHandler constructs the HTTP handler that serves snapshots, refresh
// requests and the snapshot stream.
func NewHandler(logger *zap.Logger, sim Simulator, cfg *Config, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.normalize(); err != nil {
		logger.Warn("invalid server config, using default message size",
			zap.String("op", "server.NewHandler"),
			zap.Error(err),
		)
		cfg.SetMessageSizeBytes(constants.DefaultMaxMessageSizeBytes)
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:       logger,
		sim:          sim,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RefreshRate), cfg.RefreshBurst),
		streamBuffer: cfg.StreamBuffer,
		maxMessage:   cfg.MessageSizeBytes(),
		version:      trimmedVersion,
	}
	for _, opt := range opts {
		opt(h)
	}

	router := mux.NewRouter()
	router.Use(h.requestLoggingMiddleware)

	// Routes live on the root router so a method mismatch reaches
	// MethodNotAllowedHandler; mux subrouters report it as not found.

	// Snapshot reads
	router.HandleFunc("/api/snapshot", h.handleSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/api/snapshot/{dashboard}", h.handleDashboard).Methods(http.MethodGet)
	router.HandleFunc("/api/status", h.handleStatus).Methods(http.MethodGet)

	// Manual refresh
	router.HandleFunc("/api/refresh", h.handleRefresh).Methods(http.MethodPost)

	// Live snapshot stream
	router.HandleFunc("/api/stream", h.handleStream).Methods(http.MethodGet)

	// Version endpoint for UI metadata
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	if h.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path), "server.notFound")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.methodNotAllowed")
	})

	return router
}

type statusResponse struct {
	State       string    `json:"state"`
	ID          string    `json:"id"`
	Sequence    uint64    `json:"sequence"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type dashboardResponse struct {
	ID          string      `json:"id"`
	Sequence    uint64      `json:"sequence"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Dashboard   string      `json:"dashboard"`
	Data        interface{} `json:"data"`
}

type refreshResponse struct {
	Status   string `json:"status"`
	Sequence uint64 `json:"sequence"`
}

func (h *handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.sim.Current())
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["dashboard"]
	d, err := snapshot.ParseDashboard(name)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleDashboard")
		return
	}

	current := h.sim.Current()
	data, _ := current.Section(d)
	h.writeJSON(w, http.StatusOK, dashboardResponse{
		ID:          current.ID,
		Sequence:    current.Sequence,
		GeneratedAt: current.GeneratedAt,
		Dashboard:   string(d),
		Data:        data,
	})
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	current := h.sim.Current()
	h.writeJSON(w, http.StatusOK, statusResponse{
		State:       h.sim.State().String(),
		ID:          current.ID,
		Sequence:    current.Sequence,
		GeneratedAt: current.GeneratedAt,
	})
}

func (h *handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRefresh"

	if !h.limiter.Allow() {
		h.recordRefresh(telemetry.RefreshLimited)
		w.Header().Set("Retry-After", "1")
		h.respondErrorWithOp(w, http.StatusTooManyRequests, "refresh rate limit exceeded", op)
		return
	}

	if h.sim.State() == scheduler.Stopped {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "simulator is stopped", op)
		return
	}

	if !h.sim.RequestRefresh() {
		h.recordRefresh(telemetry.RefreshBusy)
		h.respondErrorWithOp(w, http.StatusConflict, "a refresh is already pending or in progress", op)
		return
	}

	h.recordRefresh(telemetry.RefreshAccepted)
	h.logger.Debug("manual refresh scheduled",
		zap.String("op", op),
	)
	h.writeJSON(w, http.StatusAccepted, refreshResponse{
		Status:   "scheduled",
		Sequence: h.sim.Current().Sequence,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) recordRefresh(result string) {
	if h.metrics != nil {
		h.metrics.RecordRefresh(result)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		level := h.logger.Warn
		if status >= http.StatusInternalServerError {
			level = h.logger.Error
		}
		level("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
