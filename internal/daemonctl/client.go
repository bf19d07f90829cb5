// Package daemonctl is the HTTP client the CLI uses to talk to a running
// etymap daemon.
package daemonctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"etymap/internal/api"
)

// ErrDaemonNotRunning indicates the daemon API is unreachable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// Client talks to the daemon's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a client for the daemon bound at bind ("host:port").
func New(bind string) *Client {
	return &Client{
		baseURL:    "http://" + strings.TrimSpace(bind),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Trace runs a one-shot etymology trace.
func (c *Client) Trace(ctx context.Context, word, locale string) (*api.EtymologyResponse, error) {
	var resp api.EtymologyResponse
	req := api.SearchRequest{Word: word, Locale: locale}
	if err := c.do(ctx, http.MethodPost, "/api/etymology", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Predict asks for the future form of a word.
func (c *Client) Predict(ctx context.Context, word string, year int, trend string) (*api.PredictionResponse, error) {
	var resp api.PredictionResponse
	req := api.PredictRequest{Word: word, Year: year, Trend: trend}
	if err := c.do(ctx, http.MethodPost, "/api/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Translate localizes a piece of text.
func (c *Client) Translate(ctx context.Context, text, locale string) (*api.TranslateResponse, error) {
	var resp api.TranslateResponse
	req := api.TranslateRequest{Text: text, Locale: locale}
	if err := c.do(ctx, http.MethodPost, "/api/translate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSession opens a new viewer session.
func (c *Client) CreateSession(ctx context.Context) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search loads a word into a session.
func (c *Client) Search(ctx context.Context, sessionID, word, locale string) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	req := api.SearchRequest{Word: word, Locale: locale}
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Scene fetches the current derived frame for a session.
func (c *Client) Scene(ctx context.Context, sessionID string) (*api.SceneResponse, error) {
	var resp api.SceneResponse
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/scene", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Playback sends a playback control command.
func (c *Client) Playback(ctx context.Context, sessionID string, req api.PlaybackRequest) (*api.PlaybackStatus, error) {
	var resp api.PlaybackStatus
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/playback", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Collection lists a user's saved words.
func (c *Client) Collection(ctx context.Context, userID string) (*api.CollectionResponse, error) {
	var resp api.CollectionResponse
	path := "/api/collection?user=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveWord adds a word to a user's collection.
func (c *Client) SaveWord(ctx context.Context, userID, word string, record json.RawMessage) (*api.CollectionItem, error) {
	var resp api.CollectionItem
	req := api.SaveWordRequest{UserID: userID, Word: word, Record: record}
	if err := c.do(ctx, http.MethodPost, "/api/collection", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveSavedWord deletes a collection entry.
func (c *Client) RemoveSavedWord(ctx context.Context, userID, id string) error {
	path := "/api/collection/" + url.PathEscape(id) + "?user=" + url.QueryEscape(userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Groups lists a user's study groups.
func (c *Client) Groups(ctx context.Context, userID string) (*api.GroupListResponse, error) {
	var resp api.GroupListResponse
	path := "/api/groups?user=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateGroup creates a study group.
func (c *Client) CreateGroup(ctx context.Context, name, userID string) (*api.GroupPayload, error) {
	var resp api.GroupPayload
	req := api.CreateGroupRequest{Name: name, UserID: userID}
	if err := c.do(ctx, http.MethodPost, "/api/groups", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinGroup joins a group by its code.
func (c *Client) JoinGroup(ctx context.Context, code, userID string) (*api.GroupPayload, error) {
	var resp api.GroupPayload
	req := api.JoinGroupRequest{Code: code, UserID: userID}
	if err := c.do(ctx, http.MethodPost, "/api/groups/join", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Messages fetches a group's chat history.
func (c *Client) Messages(ctx context.Context, groupID, locale string) (*api.MessageListResponse, error) {
	var resp api.MessageListResponse
	path := "/api/groups/" + url.PathEscape(groupID) + "/messages"
	if locale != "" {
		path += "?locale=" + url.QueryEscape(locale)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostMessage posts a chat message to a group.
func (c *Client) PostMessage(ctx context.Context, groupID string, req api.PostMessageRequest) (*api.MessagePayload, error) {
	var resp api.MessagePayload
	path := "/api/groups/" + url.PathEscape(groupID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Correlates daemon-side log lines with this client call.
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isDaemonUnavailable(err) {
			return ErrDaemonNotRunning
		}
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon: %s (http %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("daemon: http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isDaemonUnavailable(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT)
}
