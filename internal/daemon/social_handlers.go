package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"etymap/internal/api"
	"etymap/internal/logging"
	"etymap/internal/store"
	"etymap/internal/translate"
)

func (s *apiServer) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		userID := strings.TrimSpace(r.URL.Query().Get("user"))
		if userID == "" {
			s.writeError(w, http.StatusBadRequest, "user is required")
			return
		}
		saved, err := s.daemon.store.ListSavedWords(r.Context(), userID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		items := make([]api.CollectionItem, 0, len(saved))
		for _, entry := range saved {
			items = append(items, api.FromSavedWord(entry))
		}
		s.writeJSON(w, http.StatusOK, api.CollectionResponse{Items: items})
	case http.MethodPost:
		var req api.SaveWordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Word) == "" {
			s.writeError(w, http.StatusBadRequest, "user_id and word are required")
			return
		}
		saved, err := s.daemon.store.SaveWord(r.Context(), req.UserID, req.Word, string(req.Record))
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				s.writeError(w, http.StatusConflict, "word already saved")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FromSavedWord(saved))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleCollectionItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/collection/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "saved word not found")
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	if err := s.daemon.store.RemoveSavedWord(r.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "saved word not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"removed": id})
}

func (s *apiServer) handleGroups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		userID := strings.TrimSpace(r.URL.Query().Get("user"))
		if userID == "" {
			s.writeError(w, http.StatusBadRequest, "user is required")
			return
		}
		groups, err := s.daemon.store.GroupsForUser(r.Context(), userID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payloads := make([]api.GroupPayload, 0, len(groups))
		for _, group := range groups {
			payloads = append(payloads, api.FromGroup(group))
		}
		s.writeJSON(w, http.StatusOK, api.GroupListResponse{Groups: payloads})
	case http.MethodPost:
		var req api.CreateGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.UserID) == "" {
			s.writeError(w, http.StatusBadRequest, "name and user_id are required")
			return
		}
		group, err := s.daemon.store.CreateGroup(r.Context(), req.Name, req.UserID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.log().Info("group created",
			logging.String(logging.FieldGroupID, group.ID),
			logging.String("name", group.Name),
		)
		s.writeJSON(w, http.StatusCreated, api.FromGroup(group))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGroup dispatches /api/groups/join and /api/groups/{id}/...
func (s *apiServer) handleGroup(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/groups/")
	if rest == "join" {
		s.handleGroupJoin(w, r)
		return
	}
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	switch sub {
	case "members":
		s.handleGroupMembers(w, r, id)
	case "messages":
		s.handleGroupMessages(w, r, id)
	case "":
		s.handleGroupInfo(w, r, id)
	default:
		s.writeError(w, http.StatusNotFound, "unknown group resource")
	}
}

func (s *apiServer) handleGroupJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.UserID) == "" {
		s.writeError(w, http.StatusBadRequest, "code and user_id are required")
		return
	}
	group, err := s.daemon.store.JoinGroup(r.Context(), req.Code, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.writeError(w, http.StatusNotFound, "join code not found")
		case errors.Is(err, store.ErrDuplicate):
			s.writeError(w, http.StatusConflict, "already a member")
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.log().Info("group joined", logging.String(logging.FieldGroupID, group.ID))
	s.writeJSON(w, http.StatusOK, api.FromGroup(group))
}

func (s *apiServer) handleGroupInfo(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	group, err := s.daemon.store.GroupByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "group not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromGroup(group))
}

func (s *apiServer) handleGroupMembers(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	members, err := s.daemon.store.GroupMembers(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payloads := make([]api.MemberPayload, 0, len(members))
	for _, member := range members {
		payloads = append(payloads, api.MemberPayload{UserID: member.UserID, JoinedAt: member.JoinedAt})
	}
	s.writeJSON(w, http.StatusOK, api.MemberListResponse{Members: payloads})
}

func (s *apiServer) handleGroupMessages(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		messages, err := s.daemon.store.Messages(r.Context(), id, 0)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payloads := make([]api.MessagePayload, 0, len(messages))
		for _, msg := range messages {
			payloads = append(payloads, api.FromMessage(msg))
		}
		if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
			payloads = s.translateMessages(r, payloads, locale)
		}
		s.writeJSON(w, http.StatusOK, api.MessageListResponse{Messages: payloads})
	case http.MethodPost:
		var req api.PostMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.UserID) == "" {
			s.writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		var (
			msg *store.Message
			err error
		)
		if strings.TrimSpace(req.Word) != "" {
			msg, err = s.daemon.store.ShareWord(r.Context(), id, req.UserID, req.Word, string(req.Record))
		} else {
			msg, err = s.daemon.store.AppendMessage(r.Context(), id, req.UserID, req.Content)
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.writeError(w, http.StatusForbidden, "not a member of this group")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FromMessage(msg))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// translateMessages localizes plain chat content in one batch. Shared-word
// payloads keep their stored form.
func (s *apiServer) translateMessages(r *http.Request, payloads []api.MessagePayload, locale string) []api.MessagePayload {
	resolved, err := s.daemon.translator.ResolveLocale(locale)
	if err != nil {
		return payloads
	}
	conversation := make([]translate.ChatMessage, len(payloads))
	for i, msg := range payloads {
		if msg.IsSharedWord {
			continue
		}
		conversation[i] = translate.ChatMessage{Name: msg.UserID, Text: msg.Content}
	}
	translated := s.daemon.translator.Chat(r.Context(), conversation, resolved)
	for i := range payloads {
		if payloads[i].IsSharedWord || i >= len(translated) {
			continue
		}
		if translated[i].Text != "" {
			payloads[i].Content = translated[i].Text
		}
	}
	return payloads
}
