// Package translate localizes the textual fields of etymology records and
// chat transcripts through an external localization service. Numeric and
// geometric fields (years, coordinates) are never touched, and every failure
// path falls back to the untranslated source text so a broken translation
// backend can only degrade the experience, not break it.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"etymap/internal/etymology"
	"etymap/internal/logging"
)

const defaultRequestTimeout = 20 * time.Second

// Config captures the localization service settings.
type Config struct {
	APIKey         string
	BaseURL        string
	SourceLocale   string
	Locales        []string
	TimeoutSeconds int
}

// Configured reports whether translation can be attempted at all.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ChatMessage is one line of a group conversation. Speaker names survive
// translation untouched.
type ChatMessage struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Client talks to the localization service with caching through the
// injected Cache capability.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      Cache
	locales    *localeSet
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a translation client. A nil cache gets a process-local
// one; tests inject their own.
func NewClient(cfg Config, cache Cache, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	locales, err := newLocaleSet(cfg.Locales)
	if err != nil {
		return nil, err
	}
	timeout := defaultRequestTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		locales:    locales,
		logger:     logger.With(logging.String(logging.FieldComponent, "translate")),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SupportedLocales lists the configured target locales.
func (c *Client) SupportedLocales() []string {
	return append([]string(nil), c.locales.names...)
}

// ResolveLocale maps a requested locale to a configured one.
func (c *Client) ResolveLocale(requested string) (string, error) {
	return c.locales.resolve(requested)
}

// Text translates a single string. On any failure the source text comes
// back unchanged.
func (c *Client) Text(ctx context.Context, text, targetLocale string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	result := c.localizeBatch(ctx, map[string]string{"text": text}, targetLocale)
	if translated, ok := result["text"]; ok && strings.TrimSpace(translated) != "" {
		return translated
	}
	return text
}

// Record translates the descriptive fields of an etymology record into the
// target locale. The returned record is a deep copy; words, idioms in their
// native script, years, and coordinates pass through untouched.
func (c *Client) Record(ctx context.Context, record *etymology.Record, targetLocale string) *etymology.Record {
	if record == nil {
		return nil
	}
	copied := cloneRecord(record)

	fields := make(map[string]string)
	var targets []*string
	collect := func(value *string) {
		if value == nil || strings.TrimSpace(*value) == "" {
			return
		}
		fields[strconv.Itoa(len(targets))] = *value
		targets = append(targets, value)
	}
	walkRecordText(copied, collect)
	if len(fields) == 0 {
		return copied
	}

	translated := c.localizeBatch(ctx, fields, targetLocale)
	for key, value := range translated {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(targets) {
			continue
		}
		if strings.TrimSpace(value) != "" {
			*targets[index] = value
		}
	}
	return copied
}

// Chat translates conversation messages, preserving speaker names. Failed
// messages keep their original text.
func (c *Client) Chat(ctx context.Context, conversation []ChatMessage, targetLocale string) []ChatMessage {
	if len(conversation) == 0 {
		return nil
	}
	fields := make(map[string]string, len(conversation))
	for i, msg := range conversation {
		if strings.TrimSpace(msg.Text) != "" {
			fields[strconv.Itoa(i)] = msg.Text
		}
	}
	translated := c.localizeBatch(ctx, fields, targetLocale)

	out := make([]ChatMessage, len(conversation))
	copy(out, conversation)
	for key, value := range translated {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(out) {
			continue
		}
		if strings.TrimSpace(value) != "" {
			out[index].Text = value
		}
	}
	return out
}

type localizeRequest struct {
	SourceLocale string            `json:"sourceLocale"`
	TargetLocale string            `json:"targetLocale"`
	Data         map[string]string `json:"data"`
}

type localizeResponse struct {
	Data  map[string]string `json:"data"`
	Error string            `json:"error,omitempty"`
}

// localizeBatch translates the supplied keyed strings, consulting the cache
// first and only sending misses over the wire. It never fails: entries that
// could not be translated are simply absent from the result.
func (c *Client) localizeBatch(ctx context.Context, fields map[string]string, targetLocale string) map[string]string {
	result := make(map[string]string, len(fields))
	if len(fields) == 0 {
		return result
	}

	locale, err := c.locales.resolve(targetLocale)
	if err != nil {
		c.logger.Warn("unusable target locale, passing text through",
			logging.String(logging.FieldLocale, targetLocale),
			logging.Error(err),
		)
		return result
	}
	if locale == c.cfg.SourceLocale {
		for key, value := range fields {
			result[key] = value
		}
		return result
	}
	if !c.cfg.Configured() {
		return result
	}

	pending := make(map[string]string)
	for key, value := range fields {
		cached, ok, cacheErr := c.cache.Get(ctx, locale, value)
		if cacheErr == nil && ok {
			result[key] = cached
			continue
		}
		pending[key] = value
	}
	if len(pending) == 0 {
		return result
	}

	translated, err := c.send(ctx, locale, pending)
	if err != nil {
		c.logger.Warn("translation request failed, passing text through",
			logging.String(logging.FieldLocale, locale),
			logging.Error(err),
		)
		return result
	}
	for key, value := range translated {
		source, ok := pending[key]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		result[key] = value
		if err := c.cache.Put(ctx, locale, source, value); err != nil {
			c.logger.Debug("translation cache write failed", logging.Error(err))
		}
	}
	return result
}

func (c *Client) send(ctx context.Context, locale string, fields map[string]string) (map[string]string, error) {
	payload := localizeRequest{
		SourceLocale: c.cfg.SourceLocale,
		TargetLocale: locale,
		Data:         fields,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("translate request: encode body: %w", err)
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/i18n"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("translate request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("translate request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded localizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("translate request: decode response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("translate request: api error: %s", decoded.Error)
	}
	return decoded.Data, nil
}

// walkRecordText visits every translatable string field of a record. Word
// forms and native-script idioms keep their original language and are not
// visited.
func walkRecordText(record *etymology.Record, visit func(*string)) {
	visitWaypoint := func(wp *etymology.Waypoint) {
		if wp == nil {
			return
		}
		visit(&wp.Language)
		visit(&wp.Meaning)
		if wp.CulturalInsight != nil {
			visit(&wp.CulturalInsight.Meaning)
			visit(&wp.CulturalInsight.OriginStory)
		}
		for i := range wp.RelatedBranches {
			visit(&wp.RelatedBranches[i].Meaning)
		}
	}
	visitWaypoint(record.Root)
	for i := range record.Path {
		visitWaypoint(&record.Path[i])
	}
	visitWaypoint(record.Current)
}

func cloneRecord(record *etymology.Record) *etymology.Record {
	cloneWaypoint := func(wp *etymology.Waypoint) *etymology.Waypoint {
		if wp == nil {
			return nil
		}
		copied := *wp
		if wp.Year != nil {
			year := *wp.Year
			copied.Year = &year
		}
		if wp.Location != nil {
			location := *wp.Location
			copied.Location = &location
		}
		if wp.CulturalInsight != nil {
			insight := *wp.CulturalInsight
			copied.CulturalInsight = &insight
		}
		if len(wp.RelatedBranches) > 0 {
			copied.RelatedBranches = append([]etymology.Branch(nil), wp.RelatedBranches...)
		}
		return &copied
	}

	copied := &etymology.Record{
		Root:    cloneWaypoint(record.Root),
		Current: cloneWaypoint(record.Current),
	}
	for i := range record.Path {
		copied.Path = append(copied.Path, *cloneWaypoint(&record.Path[i]))
	}
	return copied
}
