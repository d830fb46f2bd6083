package statusapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ServerWatch/conn-monitor/internal/domain"
	"github.com/ServerWatch/conn-monitor/internal/history"
	"github.com/ServerWatch/conn-monitor/internal/mapping"
)

const defaultHistoryLimit = 20

// ResultSource provides the latest published poll result.
// Implemented by service.MonitorService.
type ResultSource interface {
	Current() domain.PollResult
}

// Server serves the latest connection state and recent history as JSON.
// This is what an overlay or any other presentation layer polls.
type Server struct {
	addr       string
	source     ResultSource
	histStore  history.Store // optional
	regions    *mapping.RegionMap
	httpServer *http.Server
}

// NewServer creates a status server. histStore may be nil. A nil region
// map falls back to raw region codes.
func NewServer(addr string, source ResultSource, histStore history.Store, regions *mapping.RegionMap) *Server {
	if regions == nil {
		regions = mapping.Empty()
	}
	return &Server{
		addr:      addr,
		source:    source,
		histStore: histStore,
		regions:   regions,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Status server error")
		}
	}()

	log.Info().Str("addr", s.addr).Msg("Status server started")

	<-ctx.Done()
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Error shutting down status server")
		}
	}
	return nil
}

type statusResponse struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	FromCache bool            `json:"from_cache"`
	PolledAt  time.Time       `json:"polled_at"`
	Record    *recordResponse `json:"record,omitempty"`
}

type recordResponse struct {
	Region        string `json:"region"`
	RegionName    string `json:"region_name"`
	ServerID      string `json:"server_id"`
	SessionID     string `json:"session_id"`
	ServerAddress string `json:"server_address"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := s.source.Current()
	resp := statusResponse{
		Status:    result.Status.String(),
		Message:   result.Status.Message(),
		FromCache: result.FromCache,
		PolledAt:  result.PolledAt,
	}
	if result.Found() {
		rec := result.Record
		resp.Record = &recordResponse{
			Region:        rec.Region,
			RegionName:    s.regions.DisplayName(rec.Region),
			ServerID:      rec.ServerID,
			SessionID:     rec.SessionID,
			ServerAddress: rec.ServerAddress,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.histStore == nil {
		http.Error(w, "History journal disabled", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.histStore.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read history")
		http.Error(w, "Failed to read history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
