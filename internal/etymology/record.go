package etymology

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Stage identifies the role a waypoint plays within a record.
type Stage string

const (
	StageRoot    Stage = "root"
	StagePath    Stage = "path"
	StageCurrent Stage = "current"
)

// Location pins a waypoint to a geographic position.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	CountryCode string  `json:"country_code,omitempty"`
}

// UnmarshalJSON tolerates the sloppy shapes LLM providers emit for
// coordinates (strings, nulls, missing fields). Unusable values fall back
// to zero rather than failing the whole record.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat         json.RawMessage `json:"lat"`
		Lng         json.RawMessage `json:"lng"`
		CountryCode string          `json:"country_code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Lat = coerceFloat(raw.Lat)
	l.Lng = coerceFloat(raw.Lng)
	l.CountryCode = strings.ToUpper(strings.TrimSpace(raw.CountryCode))
	return nil
}

// Year is a signed calendar year (negative for BCE). It decodes from plain
// integers, floats, and numeric strings since models are inconsistent about
// which they produce.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	value := strings.TrimSpace(string(data))
	if value == "" || value == "null" {
		return errors.New("year: empty value")
	}
	value = strings.Trim(value, `"`)
	if parsed, err := strconv.Atoi(value); err == nil {
		*y = Year(parsed)
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("year: parse %q: %w", value, err)
	}
	*y = Year(int(math.Round(parsed)))
	return nil
}

// CulturalInsight carries an idiom or proverb tied to a stage. The timeline
// core treats it as opaque and passes it through to rendering.
type CulturalInsight struct {
	NativeIdiom string `json:"native_idiom"`
	Romanized   string `json:"romanized,omitempty"`
	Meaning     string `json:"meaning,omitempty"`
	OriginStory string `json:"origin_story,omitempty"`
}

// Branch is a cognate stub attached to a waypoint. Branches carry no year or
// location and never participate in timeline derivation.
type Branch struct {
	Word     string `json:"word"`
	Language string `json:"language"`
	Meaning  string `json:"meaning"`
}

// Waypoint is one historical stage of a word's evolution.
type Waypoint struct {
	Word            string           `json:"word"`
	Language        string           `json:"language"`
	Meaning         string           `json:"meaning"`
	Year            *Year            `json:"year,omitempty"`
	Location        *Location        `json:"location,omitempty"`
	CulturalInsight *CulturalInsight `json:"cultural_insight,omitempty"`
	RelatedBranches []Branch         `json:"related_branches,omitempty"`
}

// YearValue returns the waypoint year, defaulting to 0 when absent. The zero
// default mirrors how downstream visibility comparisons treat unknown years.
func (w *Waypoint) YearValue() int {
	if w == nil || w.Year == nil {
		return 0
	}
	return int(*w.Year)
}

// Record is a full etymological lineage: oldest attested form, intermediate
// stages in order, and the modern form. Any of the three sections may be
// absent; producers do not guarantee chronological ordering across them.
type Record struct {
	Root    *Waypoint  `json:"root,omitempty"`
	Path    []Waypoint `json:"path,omitempty"`
	Current *Waypoint  `json:"current,omitempty"`
}

// IsEmpty reports whether the record carries no waypoints at all.
func (r *Record) IsEmpty() bool {
	return r == nil || (r.Root == nil && len(r.Path) == 0 && r.Current == nil)
}

// Word returns the modern form when present, falling back to the root form.
func (r *Record) Word() string {
	if r == nil {
		return ""
	}
	if r.Current != nil && strings.TrimSpace(r.Current.Word) != "" {
		return strings.TrimSpace(r.Current.Word)
	}
	if r.Root != nil {
		return strings.TrimSpace(r.Root.Word)
	}
	return ""
}

// ParseRecord validates and decodes a raw record payload at the system
// boundary so internal logic can rely on the structure.
func ParseRecord(data []byte) (*Record, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("etymology record: empty payload")
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("etymology record: decode: %w", err)
	}
	if record.IsEmpty() {
		return nil, errors.New("etymology record: no waypoints present")
	}
	return &record, nil
}

func coerceFloat(raw json.RawMessage) float64 {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return 0
	}
	value = strings.Trim(value, `"`)
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}
