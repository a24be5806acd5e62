package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// pointLonRe captures the first number after "POINT (", e.g.
	// "POINT (-122.33 47.61)" -> "-122.33".
	pointLonRe = regexp.MustCompile(`POINT \(([-\d\.]+)`)

	// pointLatRe captures the number that directly precedes the closing
	// parenthesis at the end of the string, e.g. "... 47.61)" -> "47.61".
	pointLatRe = regexp.MustCompile(`([-\d\.]+)\)$`)
)

// ParsePoint extracts longitude and latitude from WKT point text of the form
// "POINT (<lon> <lat>)". The two coordinates are matched independently; a
// coordinate whose pattern does not match, or whose match is not a valid
// number (e.g. "1.2.3"), comes back as NaN.
//
// The matching is deliberately loose: for "POINT (1 2 3)" it returns lon=1 and
// lat=3 without checking that the two numbers belong to the same point.
func ParsePoint(wkt string) (lon, lat float64) {
	return extractCoordinate(pointLonRe, wkt), extractCoordinate(pointLatRe, wkt)
}

// FormatPoint renders a coordinate pair as WKT point text.
func FormatPoint(lon, lat float64) string {
	return "POINT (" + strconv.FormatFloat(lon, 'f', -1, 64) + " " + strconv.FormatFloat(lat, 'f', -1, 64) + ")"
}

func extractCoordinate(re *regexp.Regexp, s string) float64 {
	if strings.TrimSpace(s) == "" {
		return math.NaN()
	}

	matches := re.FindStringSubmatch(s)
	if len(matches) != 2 {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
