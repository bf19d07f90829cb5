// Package scene derives what the rendering surface should show from the
// marker list, the playback cursor, and the explore-mode flag. It is a pure
// projection: no state, recomputed on every input change.
package scene

import (
	"sort"

	"etymap/internal/etymology"
)

// Coordinate is a point on the rendering surface.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the smallest region containing a set of coordinates.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

func (b *Bounds) extend(lat, lng float64) {
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lng < b.MinLng {
		b.MinLng = lng
	}
	if lng > b.MaxLng {
		b.MaxLng = lng
	}
}

// CameraMode distinguishes a single-point focus from a region fit.
type CameraMode string

const (
	CameraModePoint  CameraMode = "point"
	CameraModeRegion CameraMode = "region"
	CameraModeNone   CameraMode = "none"
)

// Camera is the focal target the renderer should animate toward.
type Camera struct {
	Mode   CameraMode  `json:"mode"`
	Center *Coordinate `json:"center,omitempty"`
	Region *Bounds     `json:"region,omitempty"`
}

// Scene is everything the rendering surface needs for one frame.
type Scene struct {
	Visible   []etymology.Marker `json:"visibleMarkers"`
	Path      []Coordinate       `json:"path,omitempty"`
	Countries []string           `json:"highlightedCountries,omitempty"`
	Camera    Camera             `json:"camera"`
}

// Compose derives the visible scene.
//
// Explore mode shows every marker, connects them all sorted by year,
// highlights every distinct country code, and targets the bounding region.
// Timeline mode shows only markers with year <= currentYear, connects that
// subset (two or more needed for a path), highlights only the latest visible
// marker's country, and targets that marker's coordinate. "Latest" ties
// break toward the last marker in traversal order; the year sort is stable
// over traversal order, so taking the final element preserves that.
func Compose(markers []etymology.Marker, currentYear int, explore bool) Scene {
	if len(markers) == 0 {
		return Scene{Camera: Camera{Mode: CameraModeNone}}
	}

	sorted := append([]etymology.Marker(nil), markers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})

	if explore {
		return Scene{
			Visible:   sorted,
			Path:      pathOf(sorted),
			Countries: distinctCountries(sorted),
			Camera:    regionCamera(markers),
		}
	}

	visible := sorted[:0:0]
	for _, marker := range sorted {
		if marker.Year <= currentYear {
			visible = append(visible, marker)
		}
	}
	if len(visible) == 0 {
		return Scene{Camera: Camera{Mode: CameraModeNone}}
	}

	latest := visible[len(visible)-1]
	result := Scene{
		Visible: visible,
		Path:    pathOf(visible),
		Camera: Camera{
			Mode:   CameraModePoint,
			Center: &Coordinate{Lat: latest.Lat, Lng: latest.Lng},
		},
	}
	if latest.CountryCode != "" {
		result.Countries = []string{latest.CountryCode}
	}
	return result
}

func pathOf(markers []etymology.Marker) []Coordinate {
	if len(markers) < 2 {
		return nil
	}
	path := make([]Coordinate, len(markers))
	for i, marker := range markers {
		path[i] = Coordinate{Lat: marker.Lat, Lng: marker.Lng}
	}
	return path
}

func distinctCountries(markers []etymology.Marker) []string {
	seen := make(map[string]struct{}, len(markers))
	var codes []string
	for _, marker := range markers {
		if marker.CountryCode == "" {
			continue
		}
		if _, ok := seen[marker.CountryCode]; ok {
			continue
		}
		seen[marker.CountryCode] = struct{}{}
		codes = append(codes, marker.CountryCode)
	}
	return codes
}

func regionCamera(markers []etymology.Marker) Camera {
	bounds := Bounds{
		MinLat: markers[0].Lat,
		MaxLat: markers[0].Lat,
		MinLng: markers[0].Lng,
		MaxLng: markers[0].Lng,
	}
	for _, marker := range markers[1:] {
		bounds.extend(marker.Lat, marker.Lng)
	}
	return Camera{Mode: CameraModeRegion, Region: &bounds}
}
