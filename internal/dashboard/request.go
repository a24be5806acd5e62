package dashboard

import (
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// Request is a filter selection as submitted by a viewer. A dimension whose
// Has flag is false falls back to every value in the table; a dimension that
// was submitted with no values selects nothing.
type Request struct {
	Years    []int
	Makes    []string
	HasYears bool
	HasMakes bool
}

// DefaultRequest selects everything.
func DefaultRequest() Request {
	return Request{}
}

// Resolve turns the request into a concrete selection against the table.
func (r Request) Resolve(t *domain.Table) domain.Selection {
	years := r.Years
	if !r.HasYears {
		years = domain.DistinctYears(t.Records)
	}
	makes := r.Makes
	if !r.HasMakes {
		makes = domain.DistinctMakes(t.Records)
	}
	return domain.NewSelection(years, makes)
}
