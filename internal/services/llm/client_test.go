package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return body
}

func testClient(url string, opts ...Option) *Client {
	cfg := Config{APIKey: "test-key", BaseURL: url, Model: "test-model"}
	base := []Option{
		WithSleeper(func(time.Duration) {}),
		WithRetryBackoff(time.Millisecond, 10*time.Millisecond),
	}
	return NewClient(cfg, append(base, opts...)...)
}

func TestCompleteJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var payload struct {
			Model          string            `json:"model"`
			ResponseFormat map[string]string `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model != "test-model" {
			t.Errorf("model = %q", payload.Model)
		}
		if payload.ResponseFormat["type"] != "json_object" {
			t.Errorf("response_format = %v", payload.ResponseFormat)
		}
		w.Write(completionBody(t, `{"word":"human"}`))
	}))
	defer server.Close()

	content, err := testClient(server.URL).CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"word":"human"}` {
		t.Errorf("content = %q", content)
	}
}

func TestCompleteJSONRequiresPromptsAndKey(t *testing.T) {
	client := testClient("http://localhost:1")
	if _, err := client.CompleteJSON(context.Background(), "", "user"); err == nil {
		t.Error("empty system prompt accepted")
	}
	if _, err := client.CompleteJSON(context.Background(), "system", ""); err == nil {
		t.Error("empty user prompt accepted")
	}
	unconfigured := NewClient(Config{BaseURL: "http://localhost:1"})
	if _, err := unconfigured.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Error("missing api key accepted")
	}
}

func TestCompleteJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream unavailable", http.StatusInternalServerError)
			return
		}
		w.Write(completionBody(t, `{"ok":true}`))
	}))
	defer server.Close()

	content, err := testClient(server.URL, WithRetryMaxAttempts(3)).CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"ok":true}` {
		t.Errorf("content = %q", content)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestCompleteJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL, WithRetryMaxAttempts(3)).CompleteJSON(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestCompleteJSONEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL, WithRetryMaxAttempts(1)).CompleteJSON(context.Background(), "system", "user")
	if err == nil || !strings.Contains(err.Error(), "empty choices") {
		t.Errorf("err = %v, want empty choices", err)
	}
}

func TestCompleteJSONSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model not found"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL, WithRetryMaxAttempts(1)).CompleteJSON(context.Background(), "system", "user")
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("err = %v, want api error", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, `{"ok":true}`))
	}))
	defer server.Close()

	if err := testClient(server.URL).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	type out struct {
		Word string `json:"word"`
	}

	cases := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "plain", content: `{"word":"human"}`, want: "human"},
		{name: "code fence", content: "```json\n{\"word\":\"human\"}\n```", want: "human"},
		{name: "bare fence", content: "```\n{\"word\":\"human\"}\n```", want: "human"},
		{name: "leading prose", content: "Here is the record: {\"word\":\"human\"}", want: "human"},
		{name: "empty", content: "   ", wantErr: true},
		{name: "not json", content: "no structured data here", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var parsed out
			err := DecodeLLMJSON(tc.content, &parsed)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLLMJSON: %v", err)
			}
			if parsed.Word != tc.want {
				t.Errorf("word = %q, want %q", parsed.Word, tc.want)
			}
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	if delay, ok := parseRetryAfter("5"); !ok || delay != 5*time.Second {
		t.Errorf("seconds form: %v %v", delay, ok)
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Error("empty value accepted")
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Error("negative value accepted")
	}
	when := time.Now().Add(3 * time.Second).UTC().Format(http.TimeFormat)
	if delay, ok := parseRetryAfter(when); !ok || delay <= 0 {
		t.Errorf("http date form: %v %v", delay, ok)
	}
}
