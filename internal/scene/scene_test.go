package scene_test

import (
	"reflect"
	"testing"

	"etymap/internal/etymology"
	"etymap/internal/scene"
)

func marker(word string, year int, lat, lng float64, country string) etymology.Marker {
	return etymology.Marker{
		Word:        word,
		Year:        year,
		Lat:         lat,
		Lng:         lng,
		CountryCode: country,
	}
}

func TestComposeTimelineFiltersByYear(t *testing.T) {
	markers := []etymology.Marker{
		marker("dhghem", -3000, 45.0, 40.0, "UA"),
		marker("humanus", 100, 41.9, 12.5, "IT"),
		marker("humain", 1200, 48.9, 2.3, "FR"),
		marker("human", 2024, 51.5, -0.1, "GB"),
	}

	s := scene.Compose(markers, 1200, false)
	if len(s.Visible) != 3 {
		t.Fatalf("visible = %d markers, want 3", len(s.Visible))
	}
	for _, m := range s.Visible {
		if m.Year > 1200 {
			t.Errorf("marker %q (year %d) should be hidden", m.Word, m.Year)
		}
	}
	if s.Camera.Mode != scene.CameraModePoint {
		t.Fatalf("camera mode = %s, want point", s.Camera.Mode)
	}
	if s.Camera.Center == nil || s.Camera.Center.Lat != 48.9 {
		t.Errorf("camera should center on the latest visible marker, got %+v", s.Camera.Center)
	}
	if !reflect.DeepEqual(s.Countries, []string{"FR"}) {
		t.Errorf("countries = %v, want [FR]", s.Countries)
	}
	if len(s.Path) != 3 {
		t.Errorf("path = %d points, want 3", len(s.Path))
	}
}

func TestComposeLatestTieBreaksTowardTraversalOrder(t *testing.T) {
	markers := []etymology.Marker{
		marker("first", 100, 1, 1, "AA"),
		marker("second", 100, 2, 2, "BB"),
	}

	s := scene.Compose(markers, 100, false)
	if s.Camera.Center == nil || s.Camera.Center.Lat != 2 {
		t.Errorf("tie should resolve to the later traversal marker, got %+v", s.Camera.Center)
	}
	if !reflect.DeepEqual(s.Countries, []string{"BB"}) {
		t.Errorf("countries = %v, want [BB]", s.Countries)
	}
}

func TestComposeTimelineSingleVisibleMarkerHasNoPath(t *testing.T) {
	markers := []etymology.Marker{
		marker("dhghem", -3000, 45.0, 40.0, "UA"),
		marker("human", 2024, 51.5, -0.1, "GB"),
	}

	s := scene.Compose(markers, -3000, false)
	if len(s.Visible) != 1 {
		t.Fatalf("visible = %d, want 1", len(s.Visible))
	}
	if s.Path != nil {
		t.Errorf("path = %v, want nil with a single marker", s.Path)
	}
}

func TestComposeTimelineNothingVisible(t *testing.T) {
	markers := []etymology.Marker{marker("human", 2024, 51.5, -0.1, "GB")}

	s := scene.Compose(markers, 1000, false)
	if s.Camera.Mode != scene.CameraModeNone {
		t.Errorf("camera mode = %s, want none", s.Camera.Mode)
	}
	if len(s.Visible) != 0 {
		t.Errorf("visible = %v, want empty", s.Visible)
	}
}

func TestComposeExploreShowsEverything(t *testing.T) {
	markers := []etymology.Marker{
		marker("humain", 1200, 48.9, 2.3, "FR"),
		marker("dhghem", -3000, 45.0, 40.0, "UA"),
		marker("human", 2024, 51.5, -0.1, "GB"),
		marker("humane", 1500, 51.5, -0.1, "GB"),
	}

	s := scene.Compose(markers, -3000, true)
	if len(s.Visible) != len(markers) {
		t.Fatalf("visible = %d, want %d regardless of cursor", len(s.Visible), len(markers))
	}
	for i := 1; i < len(s.Visible); i++ {
		if s.Visible[i-1].Year > s.Visible[i].Year {
			t.Errorf("visible markers not sorted by year: %v", s.Visible)
		}
	}
	if !reflect.DeepEqual(s.Countries, []string{"UA", "FR", "GB"}) {
		t.Errorf("countries = %v, want year-ordered distinct codes", s.Countries)
	}
	if s.Camera.Mode != scene.CameraModeRegion {
		t.Fatalf("camera mode = %s, want region", s.Camera.Mode)
	}
	want := scene.Bounds{MinLat: 45.0, MinLng: -0.1, MaxLat: 51.5, MaxLng: 40.0}
	if s.Camera.Region == nil || *s.Camera.Region != want {
		t.Errorf("region = %+v, want %+v", s.Camera.Region, want)
	}
}

func TestComposeSkipsBlankCountryCodes(t *testing.T) {
	markers := []etymology.Marker{
		marker("a", 100, 1, 1, ""),
		marker("b", 200, 2, 2, "FR"),
	}

	s := scene.Compose(markers, 100, false)
	if s.Countries != nil {
		t.Errorf("countries = %v, want nil for a blank code", s.Countries)
	}

	s = scene.Compose(markers, 100, true)
	if !reflect.DeepEqual(s.Countries, []string{"FR"}) {
		t.Errorf("explore countries = %v, want [FR]", s.Countries)
	}
}

func TestComposeEmptyMarkers(t *testing.T) {
	s := scene.Compose(nil, 0, false)
	if s.Camera.Mode != scene.CameraModeNone {
		t.Errorf("camera mode = %s, want none", s.Camera.Mode)
	}
	s = scene.Compose(nil, 0, true)
	if s.Camera.Mode != scene.CameraModeNone {
		t.Errorf("explore camera mode = %s, want none", s.Camera.Mode)
	}
}
