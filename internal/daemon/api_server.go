package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"etymap/internal/api"
	"etymap/internal/config"
	"etymap/internal/etymology"
	"etymap/internal/logging"
	"etymap/internal/services"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/etymology", srv.handleEtymology)
	mux.HandleFunc("/api/predict", srv.handlePredict)
	mux.HandleFunc("/api/translate", srv.handleTranslate)
	mux.HandleFunc("/api/sessions", srv.handleSessions)
	mux.HandleFunc("/api/sessions/", srv.handleSession)
	mux.HandleFunc("/api/collection", srv.handleCollection)
	mux.HandleFunc("/api/collection/", srv.handleCollectionItem)
	mux.HandleFunc("/api/groups", srv.handleGroups)
	mux.HandleFunc("/api/groups/", srv.handleGroup)

	srv.server = &http.Server{
		Handler:           srv.withRequestID(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// withRequestID threads the caller-supplied correlation identifier into the
// request context so downstream logs can be tied back to a single client call.
func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get("X-Request-ID")); id != "" {
			r = r.WithContext(services.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:               status.Running,
		PID:                   status.PID,
		DBPath:                status.DBPath,
		LockFilePath:          status.LockFilePath,
		Sessions:              status.Sessions,
		LLMConfigured:         status.LLMConfigured,
		TranslationConfigured: status.TranslationConfigured,
	})
}

// handleEtymology is the one-shot trace path: no session, no playback, just
// the record with its derived markers and steps.
func (s *apiServer) handleEtymology(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		s.writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	ctx := services.WithWord(r.Context(), req.Word)
	record, err := s.daemon.etym.Trace(ctx, req.Word)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	locale := ""
	if req.Locale != "" {
		if resolved, err := s.daemon.translator.ResolveLocale(req.Locale); err == nil {
			record = s.daemon.translator.Record(ctx, record, resolved)
			locale = resolved
		}
	}
	markers, steps := etymology.Normalize(record)
	s.writeJSON(w, http.StatusOK, api.EtymologyResponse{
		Word:    record.Word(),
		Locale:  locale,
		Record:  record,
		Markers: markers,
		Steps:   steps,
	})
}

func (s *apiServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		s.writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	year := req.Year
	if year == 0 {
		year = s.daemon.cfg.Prediction.TargetYear
	}
	predicted, err := s.daemon.predict.Predict(services.WithWord(r.Context(), req.Word), req.Word, year, req.Trend)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.PredictionResponse{Word: req.Word, Prediction: predicted})
}

func (s *apiServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" || req.Locale == "" {
		s.writeError(w, http.StatusBadRequest, "text and locale are required")
		return
	}
	locale, err := s.daemon.translator.ResolveLocale(req.Locale)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.TranslateResponse{
		Text:   s.daemon.translator.Text(r.Context(), req.Text, locale),
		Locale: locale,
	})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
