package domain

import "time"

// Dashboard is everything one page render needs, recomputed from the cleaned
// table on every filter change.
type Dashboard struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	// Filter options and the current selection, all ascending.
	YearOptions   []int    `json:"year_options"`
	MakeOptions   []string `json:"make_options"`
	SelectedYears []int    `json:"selected_years"`
	SelectedMakes []string `json:"selected_makes"`

	Summary          Summary           `json:"summary"`
	ByMake           []MakeCount       `json:"by_make"`
	ByYear           []YearCount       `json:"by_year"`
	Correlation      CorrelationMatrix `json:"correlation"`
	MapPoints        []MapPoint        `json:"map_points"`
	SkippedMapPoints int               `json:"skipped_map_points"`
}

// BuildDashboard filters the table and runs every aggregation over the
// resulting subset. The table is not modified.
func BuildDashboard(t *Table, sel Selection) Dashboard {
	filtered := Filter(t.Records, sel)
	points, skipped := ProjectMap(filtered)

	return Dashboard{
		Source:           t.Source,
		LoadedAt:         t.LoadedAt,
		YearOptions:      DistinctYears(t.Records),
		MakeOptions:      DistinctMakes(t.Records),
		SelectedYears:    sel.SortedYears(),
		SelectedMakes:    sel.SortedMakes(),
		Summary:          Summarize(filtered),
		ByMake:           CountByMake(filtered),
		ByYear:           CountByYear(filtered),
		Correlation:      Correlate(filtered),
		MapPoints:        points,
		SkippedMapPoints: skipped,
	}
}

// Snapshot is the unfiltered view of a freshly loaded table, published for
// downstream consumers after each load.
type Snapshot struct {
	Source             string      `json:"source"`
	LoadedAt           time.Time   `json:"loaded_at"`
	Rows               int         `json:"rows"`
	MalformedLocations int         `json:"malformed_locations"`
	Summary            Summary     `json:"summary"`
	ByMake             []MakeCount `json:"by_make"`
	ByYear             []YearCount `json:"by_year"`
}

// NewSnapshot summarizes the whole table under the default selection.
func NewSnapshot(t *Table) Snapshot {
	return Snapshot{
		Source:             t.Source,
		LoadedAt:           t.LoadedAt,
		Rows:               t.Len(),
		MalformedLocations: t.MalformedLocations,
		Summary:            Summarize(t.Records),
		ByMake:             CountByMake(t.Records),
		ByYear:             CountByYear(t.Records),
	}
}
