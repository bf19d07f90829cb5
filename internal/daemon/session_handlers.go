package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"etymap/internal/api"
	"etymap/internal/services"
	"etymap/internal/session"
	"etymap/internal/timeline"
)

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		sess := s.daemon.sessions.Create()
		s.writeJSON(w, http.StatusCreated, sessionResponse(sess))
	case http.MethodGet:
		live := s.daemon.sessions.List()
		out := make([]api.SessionResponse, 0, len(live))
		for _, sess := range live {
			out = append(out, sessionResponse(sess))
		}
		s.writeJSON(w, http.StatusOK, api.SessionListResponse{Sessions: out})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSession dispatches /api/sessions/{id} and its sub-resources.
func (s *apiServer) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	sess, err := s.daemon.sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	r = r.WithContext(services.WithSessionID(r.Context(), id))

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.writeJSON(w, http.StatusOK, sessionResponse(sess))
		case http.MethodDelete:
			if err := s.daemon.sessions.Close(id); err != nil {
				s.writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			s.writeJSON(w, http.StatusOK, map[string]string{"closed": id})
		default:
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case "search":
		s.handleSessionSearch(w, r, sess)
	case "etymology":
		s.handleSessionEtymology(w, r, sess)
	case "scene":
		s.handleSessionScene(w, r, sess)
	case "playback":
		s.handleSessionPlayback(w, r, sess)
	case "mode":
		s.handleSessionMode(w, r, sess)
	case "predict":
		s.handleSessionPredict(w, r, sess)
	default:
		s.writeError(w, http.StatusNotFound, "unknown session resource")
	}
}

func (s *apiServer) handleSessionSearch(w http.ResponseWriter, r *http.Request, sess *session.Session) {
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
	if err := s.daemon.sessions.Search(r.Context(), sess, req.Word, req.Locale); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse(sess))
}

func (s *apiServer) handleSessionEtymology(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	record := sess.Record()
	if record == nil {
		s.writeError(w, http.StatusNotFound, "no word loaded")
		return
	}
	s.writeJSON(w, http.StatusOK, api.EtymologyResponse{
		Word:    sess.Word(),
		Locale:  sess.Locale(),
		Record:  record,
		Markers: sess.Markers(),
		Steps:   sess.Steps(),
	})
}

func (s *apiServer) handleSessionScene(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := sess.Engine().Snapshot()
	resp := api.SceneResponse{
		Scene:   sess.Scene(),
		Explore: sess.Explore(),
	}
	if snap.State != timeline.StateIdle {
		year := snap.Year
		resp.Year = &year
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleSessionPlayback(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	engine := sess.Engine()
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, api.FromSnapshot(engine.Snapshot()))
		return
	case http.MethodPost:
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.PlaybackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Action {
	case api.PlaybackActionToggle:
		engine.TogglePlay()
	case api.PlaybackActionSeek:
		if req.Index == nil {
			s.writeError(w, http.StatusBadRequest, "seek requires index")
			return
		}
		engine.Seek(*req.Index)
	case api.PlaybackActionSeekYear:
		if req.Year == nil {
			s.writeError(w, http.StatusBadRequest, "seek_year requires year")
			return
		}
		engine.SeekYear(*req.Year)
	case api.PlaybackActionStep:
		delta := 1
		if req.Delta != nil {
			delta = *req.Delta
		}
		engine.Step(delta)
	case api.PlaybackActionReset:
		engine.Reset()
	case api.PlaybackActionSpeed:
		speed := timeline.Speed(req.Speed)
		if speed != timeline.SpeedNormal && speed != timeline.SpeedSlow {
			s.writeError(w, http.StatusBadRequest, "unknown speed")
			return
		}
		engine.SetSpeed(speed)
	default:
		s.writeError(w, http.StatusBadRequest, "unknown playback action")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromSnapshot(engine.Snapshot()))
}

func (s *apiServer) handleSessionMode(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Explore bool `json:"explore"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess.SetExplore(req.Explore)
	s.writeJSON(w, http.StatusOK, sessionResponse(sess))
}

func (s *apiServer) handleSessionPredict(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if sess.Word() == "" {
		s.writeError(w, http.StatusNotFound, "no word loaded")
		return
	}
	var req api.PredictRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	year := req.Year
	if year == 0 {
		year = s.daemon.cfg.Prediction.TargetYear
	}
	predicted, err := sess.Predict(r.Context(), s.daemon.predict, year, req.Trend)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.PredictionResponse{Word: sess.Word(), Prediction: predicted})
}

func sessionResponse(sess *session.Session) api.SessionResponse {
	return api.SessionResponse{
		ID:        sess.ID(),
		Word:      sess.Word(),
		Locale:    sess.Locale(),
		Explore:   sess.Explore(),
		CreatedAt: sess.CreatedAt(),
		Playback:  api.FromSnapshot(sess.Engine().Snapshot()),
	}
}
