package etymology_test

import (
	"strings"
	"testing"

	"etymap/internal/etymology"
)

func TestParseRecordTolerantFields(t *testing.T) {
	payload := `{
        "root": {
            "word": "dhghem",
            "language": "Proto-Indo-European",
            "meaning": "earth",
            "year": "-3000",
            "location": {"lat": "48.0", "lng": 35, "country_code": "ua"}
        },
        "path": [
            {"word": "humanus", "language": "Latin", "meaning": "human", "year": 100.7}
        ],
        "current": {"word": "human", "language": "English", "meaning": "a person", "year": 2024}
    }`

	record, err := etymology.ParseRecord([]byte(payload))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if got := record.Root.YearValue(); got != -3000 {
		t.Errorf("root year = %d, want -3000", got)
	}
	if record.Root.Location == nil {
		t.Fatal("root location missing")
	}
	if record.Root.Location.Lat != 48.0 || record.Root.Location.Lng != 35.0 {
		t.Errorf("root location = %v, want 48.0, 35.0", record.Root.Location)
	}
	if record.Root.Location.CountryCode != "UA" {
		t.Errorf("country code = %q, want UA (uppercased)", record.Root.Location.CountryCode)
	}
	if got := record.Path[0].YearValue(); got != 101 {
		t.Errorf("path year = %d, want 101 (rounded)", got)
	}
	if got := record.Word(); got != "human" {
		t.Errorf("Word() = %q, want human", got)
	}
}

func TestParseRecordRejectsEmptyPayloads(t *testing.T) {
	cases := map[string]string{
		"blank":        "   ",
		"no waypoints": `{"path": []}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := etymology.ParseRecord([]byte(payload)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseRecordUnusableCoordinatesFallBackToZero(t *testing.T) {
	payload := `{"current": {"word": "x", "language": "English", "meaning": "x",
        "location": {"lat": "not-a-number", "lng": null}}}`
	record, err := etymology.ParseRecord([]byte(payload))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	loc := record.Current.Location
	if loc.Lat != 0 || loc.Lng != 0 {
		t.Errorf("location = %v, want zeros", loc)
	}
}

func TestWordFallsBackToRoot(t *testing.T) {
	record := &etymology.Record{
		Root: &etymology.Waypoint{Word: "  wyrd  ", Language: "Old English"},
	}
	if got := record.Word(); got != "wyrd" {
		t.Errorf("Word() = %q, want wyrd", got)
	}
}

func TestMockRecordShape(t *testing.T) {
	record := etymology.MockRecord("human")
	if record.IsEmpty() {
		t.Fatal("mock record empty")
	}
	if record.Current.Word != "human" {
		t.Errorf("current word = %q", record.Current.Word)
	}
	if !strings.EqualFold(record.Root.Language, "Proto-Indo-European") {
		t.Errorf("root language = %q", record.Root.Language)
	}
}
