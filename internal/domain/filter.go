package domain

import (
	"sort"
)

// Selection is the pair of filter sets chosen by the user. A nil or empty
// set selects no rows on that dimension.
type Selection struct {
	Years map[int]struct{}
	Makes map[string]struct{}
}

// NewSelection builds a selection from explicit value lists.
func NewSelection(years []int, makes []string) Selection {
	sel := Selection{
		Years: make(map[int]struct{}, len(years)),
		Makes: make(map[string]struct{}, len(makes)),
	}
	for _, y := range years {
		sel.Years[y] = struct{}{}
	}
	for _, m := range makes {
		sel.Makes[m] = struct{}{}
	}
	return sel
}

// DefaultSelection selects every distinct year and make in the records.
func DefaultSelection(records []VehicleRecord) Selection {
	return NewSelection(DistinctYears(records), DistinctMakes(records))
}

// Matches reports whether a record passes both filter dimensions.
func (s Selection) Matches(r VehicleRecord) bool {
	if _, ok := s.Years[r.ModelYear]; !ok {
		return false
	}
	_, ok := s.Makes[r.Make]
	return ok
}

// SortedYears returns the selected years in ascending order.
func (s Selection) SortedYears() []int {
	years := make([]int, 0, len(s.Years))
	for y := range s.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// SortedMakes returns the selected makes in ascending order.
func (s Selection) SortedMakes() []string {
	makes := make([]string, 0, len(s.Makes))
	for m := range s.Makes {
		makes = append(makes, m)
	}
	sort.Strings(makes)
	return makes
}

// Filter returns a new slice holding the records that match the selection.
// The input slice is never modified.
func Filter(records []VehicleRecord, sel Selection) []VehicleRecord {
	if len(sel.Years) == 0 || len(sel.Makes) == 0 {
		return []VehicleRecord{}
	}

	out := make([]VehicleRecord, 0, len(records))
	for i := range records {
		if sel.Matches(records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// DistinctYears returns the distinct model years in ascending order.
func DistinctYears(records []VehicleRecord) []int {
	seen := make(map[int]struct{})
	for i := range records {
		seen[records[i].ModelYear] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// DistinctMakes returns the distinct makes in ascending order.
func DistinctMakes(records []VehicleRecord) []string {
	return distinctStrings(records, func(r VehicleRecord) string { return r.Make })
}

// DistinctCities returns the distinct cities in ascending order.
func DistinctCities(records []VehicleRecord) []string {
	return distinctStrings(records, func(r VehicleRecord) string { return r.City })
}

func distinctStrings(records []VehicleRecord, field func(VehicleRecord) string) []string {
	seen := make(map[string]struct{})
	for i := range records {
		seen[field(records[i])] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
