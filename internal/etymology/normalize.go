package etymology

import "sort"

// Marker is the renderable projection of a waypoint. Markers are immutable
// once built; a new record always produces a wholly new marker list.
type Marker struct {
	Lat         float64          `json:"lat"`
	Lng         float64          `json:"lng"`
	Label       string           `json:"label"`
	Year        int              `json:"year"`
	Word        string           `json:"word"`
	CountryCode string           `json:"countryCode,omitempty"`
	Insight     *CulturalInsight `json:"culturalInsight,omitempty"`
	Stage       Stage            `json:"stage"`

	// Index is the marker's position in traversal order (root, path...,
	// current), a stable back-reference to the source waypoint.
	Index int `json:"index"`
}

// Normalize flattens a record into renderable markers and the sorted domain
// of distinct timeline years.
//
// Markers preserve traversal order (root, then path in array order, then
// current) regardless of the years involved; steps are deduplicated and
// sorted ascending by value. A waypoint without a location still yields a
// marker at (0, 0); a waypoint without a year contributes no step.
func Normalize(record *Record) ([]Marker, []int) {
	if record == nil {
		return nil, nil
	}

	var markers []Marker
	years := make(map[int]struct{})

	visit := func(wp *Waypoint, stage Stage) {
		if wp == nil {
			return
		}
		markers = append(markers, projectMarker(wp, stage, len(markers)))
		if wp.Year != nil {
			years[int(*wp.Year)] = struct{}{}
		}
	}

	visit(record.Root, StageRoot)
	for i := range record.Path {
		visit(&record.Path[i], StagePath)
	}
	visit(record.Current, StageCurrent)

	steps := make([]int, 0, len(years))
	for year := range years {
		steps = append(steps, year)
	}
	sort.Ints(steps)
	return markers, steps
}

// projectMarker maps a single waypoint to its marker, defaulting a missing
// location to the origin.
func projectMarker(wp *Waypoint, stage Stage, index int) Marker {
	marker := Marker{
		Label:   wp.Language,
		Year:    wp.YearValue(),
		Word:    wp.Word,
		Insight: wp.CulturalInsight,
		Stage:   stage,
		Index:   index,
	}
	if wp.Location != nil {
		marker.Lat = wp.Location.Lat
		marker.Lng = wp.Location.Lng
		marker.CountryCode = wp.Location.CountryCode
	}
	return marker
}
