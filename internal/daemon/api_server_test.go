package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"etymap/internal/api"
	"etymap/internal/testsupport"
	"etymap/internal/timeline"
)

// newTestDaemon builds a daemon with an unconfigured LLM backend, so traces
// and predictions come from the canned fallbacks, and serves its API handler
// over httptest without ever binding the configured address.
func newTestDaemon(t *testing.T) (*Daemon, *httptest.Server) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d, err := New(cfg, st, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.sessions.CloseAll()
	})

	server := httptest.NewServer(d.api.server.Handler)
	t.Cleanup(server.Close)
	return d, server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestStatusEndpoint(t *testing.T) {
	d, server := newTestDaemon(t)

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var status api.DaemonStatus
	decodeBody(t, resp, &status)
	if status.DBPath != d.store.Path() {
		t.Errorf("db_path = %q", status.DBPath)
	}
	if status.LLMConfigured || status.TranslationConfigured {
		t.Errorf("backends should be unconfigured in tests: %+v", status)
	}

	resp = postJSON(t, server.URL+"/api/status", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp.StatusCode)
	}
}

func TestEtymologyEndpointServesFallbackLineage(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/etymology", api.SearchRequest{Word: "human"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out api.EtymologyResponse
	decodeBody(t, resp, &out)
	if out.Word != "human" {
		t.Errorf("word = %q", out.Word)
	}
	if len(out.Markers) != 4 {
		t.Errorf("markers = %d, want 4", len(out.Markers))
	}
	wantSteps := []int{-3000, 100, 1200, 2024}
	if len(out.Steps) != len(wantSteps) {
		t.Fatalf("steps = %v, want %v", out.Steps, wantSteps)
	}
	for i, step := range wantSteps {
		if out.Steps[i] != step {
			t.Errorf("steps[%d] = %d, want %d", i, out.Steps[i], step)
		}
	}

	resp = postJSON(t, server.URL+"/api/etymology", api.SearchRequest{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty word status = %d, want 400", resp.StatusCode)
	}
}

func TestPredictEndpoint(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/predict", api.PredictRequest{Word: "human"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out api.PredictionResponse
	decodeBody(t, resp, &out)
	if out.Prediction == nil {
		t.Fatal("nil prediction")
	}
	// Year defaults to the configured target year.
	if out.Prediction.Year != 2050 {
		t.Errorf("year = %d, want 2050", out.Prediction.Year)
	}
	if out.Prediction.Word == "" {
		t.Error("empty predicted word")
	}
}

func TestSessionLifecycleOverAPI(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created api.SessionResponse
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("empty session id")
	}
	if created.Playback.State != string(timeline.StateIdle) {
		t.Errorf("fresh session state = %q, want idle", created.Playback.State)
	}
	if created.Playback.Year != nil {
		t.Errorf("fresh session year = %v, want omitted", created.Playback.Year)
	}

	sessionURL := server.URL + "/api/sessions/" + created.ID

	resp = postJSON(t, sessionURL+"/search", api.SearchRequest{Word: "human"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	var loaded api.SessionResponse
	decodeBody(t, resp, &loaded)
	if loaded.Word != "human" {
		t.Errorf("word = %q", loaded.Word)
	}
	if loaded.Playback.State != string(timeline.StatePlaying) || loaded.Playback.Index != 0 {
		t.Errorf("playback = %+v, want autoplay at first step", loaded.Playback)
	}
	if loaded.Playback.Year == nil || *loaded.Playback.Year != -3000 {
		t.Errorf("year = %v, want -3000", loaded.Playback.Year)
	}

	resp, err := http.Get(sessionURL + "/etymology")
	if err != nil {
		t.Fatalf("GET etymology: %v", err)
	}
	var record api.EtymologyResponse
	decodeBody(t, resp, &record)
	if len(record.Markers) != 4 {
		t.Errorf("markers = %d, want 4", len(record.Markers))
	}

	req, err := http.NewRequest(http.MethodDelete, sessionURL, nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE session: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	resp, err = http.Get(sessionURL)
	if err != nil {
		t.Fatalf("GET closed session: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("closed session status = %d, want 404", resp.StatusCode)
	}
}

func TestPlaybackControlOverAPI(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/sessions", nil)
	var created api.SessionResponse
	decodeBody(t, resp, &created)
	sessionURL := server.URL + "/api/sessions/" + created.ID

	resp = postJSON(t, sessionURL+"/search", api.SearchRequest{Word: "human"})
	resp.Body.Close()

	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionToggle})
	var status api.PlaybackStatus
	decodeBody(t, resp, &status)
	if status.Playing {
		t.Errorf("still playing after toggle: %+v", status)
	}

	index := 2
	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionSeek, Index: &index})
	decodeBody(t, resp, &status)
	if status.Index != 2 || status.Playing {
		t.Errorf("after seek: %+v", status)
	}
	if status.Year == nil || *status.Year != 1200 {
		t.Errorf("year = %v, want 1200", status.Year)
	}

	year := 100
	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionSeekYear, Year: &year})
	decodeBody(t, resp, &status)
	if status.Index != 1 {
		t.Errorf("after seek_year: %+v", status)
	}

	delta := 5
	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionStep, Delta: &delta})
	decodeBody(t, resp, &status)
	if status.Index != 3 {
		t.Errorf("step should clamp to the last index: %+v", status)
	}

	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionSpeed, Speed: "slow"})
	decodeBody(t, resp, &status)
	if status.Speed != string(timeline.SpeedSlow) {
		t.Errorf("speed = %q", status.Speed)
	}

	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionReset})
	decodeBody(t, resp, &status)
	if status.Index != 0 || status.Playing {
		t.Errorf("after reset: %+v", status)
	}

	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: "rewind-to-the-future"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", resp.StatusCode)
	}
}

func TestSceneAndModeOverAPI(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/sessions", nil)
	var created api.SessionResponse
	decodeBody(t, resp, &created)
	sessionURL := server.URL + "/api/sessions/" + created.ID

	resp = postJSON(t, sessionURL+"/search", api.SearchRequest{Word: "human"})
	resp.Body.Close()
	index := 0
	resp = postJSON(t, sessionURL+"/playback", api.PlaybackRequest{Action: api.PlaybackActionSeek, Index: &index})
	resp.Body.Close()

	resp, err := http.Get(sessionURL + "/scene")
	if err != nil {
		t.Fatalf("GET scene: %v", err)
	}
	var frame api.SceneResponse
	decodeBody(t, resp, &frame)
	if frame.Explore {
		t.Error("explore should default to false")
	}
	if len(frame.Scene.Visible) != 1 {
		t.Errorf("visible = %d at the first step, want 1", len(frame.Scene.Visible))
	}
	if frame.Year == nil || *frame.Year != -3000 {
		t.Errorf("scene year = %v", frame.Year)
	}

	resp = postJSON(t, sessionURL+"/mode", map[string]bool{"explore": true})
	resp.Body.Close()

	resp, err = http.Get(sessionURL + "/scene")
	if err != nil {
		t.Fatalf("GET scene: %v", err)
	}
	decodeBody(t, resp, &frame)
	if !frame.Explore {
		t.Error("explore flag not applied")
	}
	if len(frame.Scene.Visible) != 4 {
		t.Errorf("explore visible = %d, want all markers", len(frame.Scene.Visible))
	}
}

func TestCollectionOverAPI(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/collection", api.SaveWordRequest{
		UserID: "alice",
		Word:   "human",
		Record: json.RawMessage(`{"current":{"word":"human"}}`),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	var saved api.CollectionItem
	decodeBody(t, resp, &saved)
	if saved.ID == "" || saved.Word != "human" {
		t.Errorf("saved = %+v", saved)
	}

	resp = postJSON(t, server.URL+"/api/collection", api.SaveWordRequest{UserID: "alice", Word: "human"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate save status = %d, want 409", resp.StatusCode)
	}

	resp, err := http.Get(server.URL + "/api/collection?user=alice")
	if err != nil {
		t.Fatalf("GET collection: %v", err)
	}
	var collection api.CollectionResponse
	decodeBody(t, resp, &collection)
	if len(collection.Items) != 1 {
		t.Errorf("items = %d, want 1", len(collection.Items))
	}

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/collection/%s?user=alice", server.URL, saved.ID), nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE saved word: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("remove status = %d", resp.StatusCode)
	}
}

func TestGroupsOverAPI(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/groups", api.CreateGroupRequest{Name: "etymology club", UserID: "alice"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var group api.GroupPayload
	decodeBody(t, resp, &group)
	if group.JoinCode == "" {
		t.Fatal("empty join code")
	}

	resp = postJSON(t, server.URL+"/api/groups/join", api.JoinGroupRequest{Code: group.JoinCode, UserID: "bob"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d", resp.StatusCode)
	}
	resp = postJSON(t, server.URL+"/api/groups/join", api.JoinGroupRequest{Code: group.JoinCode, UserID: "bob"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("rejoin status = %d, want 409", resp.StatusCode)
	}

	messagesURL := server.URL + "/api/groups/" + group.ID + "/messages"
	resp = postJSON(t, messagesURL, api.PostMessageRequest{UserID: "bob", Content: "hello"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post message status = %d", resp.StatusCode)
	}
	resp = postJSON(t, messagesURL, api.PostMessageRequest{UserID: "mallory", Content: "let me in"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("non-member post status = %d, want 403", resp.StatusCode)
	}

	resp = postJSON(t, messagesURL, api.PostMessageRequest{
		UserID: "alice",
		Word:   "human",
		Record: json.RawMessage(`{"current":{"word":"human"}}`),
	})
	var shared api.MessagePayload
	decodeBody(t, resp, &shared)
	if !shared.IsSharedWord || len(shared.Word) == 0 {
		t.Errorf("shared message = %+v", shared)
	}

	resp, err := http.Get(messagesURL)
	if err != nil {
		t.Fatalf("GET messages: %v", err)
	}
	var history api.MessageListResponse
	decodeBody(t, resp, &history)
	if len(history.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(history.Messages))
	}

	resp, err = http.Get(server.URL + "/api/groups/" + group.ID + "/members")
	if err != nil {
		t.Fatalf("GET members: %v", err)
	}
	var members api.MemberListResponse
	decodeBody(t, resp, &members)
	if len(members.Members) != 2 {
		t.Errorf("members = %d, want 2", len(members.Members))
	}
}

func TestSessionPredictCachesResult(t *testing.T) {
	_, server := newTestDaemon(t)

	resp := postJSON(t, server.URL+"/api/sessions", nil)
	var created api.SessionResponse
	decodeBody(t, resp, &created)
	sessionURL := server.URL + "/api/sessions/" + created.ID

	resp = postJSON(t, sessionURL+"/predict", api.PredictRequest{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("predict without word status = %d, want 404", resp.StatusCode)
	}

	resp = postJSON(t, sessionURL+"/search", api.SearchRequest{Word: "human"})
	resp.Body.Close()

	resp = postJSON(t, sessionURL+"/predict", api.PredictRequest{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("predict status = %d", resp.StatusCode)
	}
	var first api.PredictionResponse
	decodeBody(t, resp, &first)
	if first.Prediction == nil || first.Prediction.Year != 2050 {
		t.Errorf("prediction = %+v", first.Prediction)
	}

	resp = postJSON(t, sessionURL+"/predict", api.PredictRequest{})
	var second api.PredictionResponse
	decodeBody(t, resp, &second)
	if second.Prediction == nil || second.Prediction.Word != first.Prediction.Word {
		t.Errorf("cached prediction changed: %+v vs %+v", first.Prediction, second.Prediction)
	}
}
