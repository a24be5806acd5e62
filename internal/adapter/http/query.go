package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/dashboard"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// Query parameter names.
const (
	paramYear     = "year"
	paramMake     = "make"
	paramFiltered = "filtered"
)

// ErrBadQuery is returned for query values that cannot be interpreted.
var ErrBadQuery = errors.New("bad query")

// parseRequest reads the filter selection from the query string. Once the
// form has been submitted (filtered is present) an absent dimension means an
// empty selection; before that it means every value.
func parseRequest(q url.Values) (dashboard.Request, error) {
	submitted := q.Has(paramFiltered)

	var req dashboard.Request
	if raw, ok := q[paramYear]; ok || submitted {
		req.HasYears = true
		for _, v := range raw {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			year, err := strconv.Atoi(v)
			if err != nil {
				return dashboard.Request{}, fmt.Errorf("%w: year %q is not an integer", ErrBadQuery, v)
			}
			req.Years = append(req.Years, year)
		}
	}
	if raw, ok := q[paramMake]; ok || submitted {
		req.HasMakes = true
		// A blank make is a real option: rows whose make cell was missing.
		req.Makes = append(req.Makes, raw...)
	}
	return req, nil
}

// encodeSelection renders the resolved selection back into a query string so
// chart and API links reproduce the same subset.
func encodeSelection(d domain.Dashboard) string {
	q := url.Values{}
	q.Set(paramFiltered, "1")
	for _, y := range d.SelectedYears {
		q.Add(paramYear, strconv.Itoa(y))
	}
	for _, m := range d.SelectedMakes {
		q.Add(paramMake, m)
	}
	return q.Encode()
}
