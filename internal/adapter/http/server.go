package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roadwatch/dgt-situation-etl/internal/domain"
	"github.com/roadwatch/dgt-situation-etl/internal/stats"
)

// SituationSource exposes the pipeline state the read endpoints serve from.
type SituationSource interface {
	CheckReadiness(ctx context.Context) error
	Snapshot() []domain.Situation
}

// Server exposes health, readiness, metrics, and the situation read API.
type Server struct {
	httpServer *http.Server
	source     SituationSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /situations, and /stats routes.
func NewServer(addr string, source SituationSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /situations", s.handleSituations)
	mux.HandleFunc("GET /stats", s.handleStats)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.source.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleSituations serves the latest snapshot as a GeoJSON
// FeatureCollection of points, ready for map display.
func (s *Server) handleSituations(w http.ResponseWriter, _ *http.Request) {
	situations := s.source.Snapshot()

	features := make([]feature, 0, len(situations))
	for _, sit := range situations {
		features = append(features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type: "Point",
				// GeoJSON positions are [longitude, latitude].
				Coordinates: [2]float64{sit.Longitude, sit.Latitude},
			},
			Properties: featureProperties{
				ID:                  sit.ID,
				Severity:            sit.Severity,
				Province:            sit.Province,
				Municipality:        sit.Municipality,
				AutonomousCommunity: sit.AutonomousCommunity,
				RoadName:            sit.RoadName,
				ManagementType:      sit.ManagementType,
				CauseType:           sit.CauseType,
				KmPoint:             sit.KmPoint,
			},
		})
	}

	writeJSON(w, http.StatusOK, featureCollection{
		Type:     "FeatureCollection",
		Features: features,
	})
}

// handleStats serves the aggregated report over the latest snapshot.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stats.Build(s.source.Snapshot()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// GeoJSON response types.

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string            `json:"type"`
	Geometry   geometry          `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
}

type featureProperties struct {
	ID                  string   `json:"id"`
	Severity            *string  `json:"severity,omitempty"`
	Province            *string  `json:"province,omitempty"`
	Municipality        *string  `json:"municipality,omitempty"`
	AutonomousCommunity *string  `json:"autonomous_community,omitempty"`
	RoadName            *string  `json:"road_name,omitempty"`
	ManagementType      *string  `json:"management_type,omitempty"`
	CauseType           *string  `json:"cause_type,omitempty"`
	KmPoint             *float64 `json:"km_point,omitempty"`
}
