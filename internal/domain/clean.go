package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingValue is returned when a required cell is empty.
	ErrMissingValue = errors.New("missing value")

	// ErrNotNumeric is returned when a numeric cell cannot be parsed.
	ErrNotNumeric = errors.New("not numeric")
)

// missingMarkers are the cell values treated as absent, in addition to the
// empty string.
var missingMarkers = []string{"NA", "NaN", "<nil>"}

// CleanRecords converts raw rows into cleaned records. Rows are numbered from
// 1 in error messages. Any non-coercible integer cell aborts the whole load.
func CleanRecords(raws []RawVehicleRecord) ([]VehicleRecord, error) {
	records := make([]VehicleRecord, 0, len(raws))
	for i := range raws {
		rec, err := CleanRecord(raws[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CleanRecord applies the column rules to a single row.
func CleanRecord(raw RawVehicleRecord) (VehicleRecord, error) {
	year, err := parseRequiredInt(raw.ModelYear)
	if err != nil {
		return VehicleRecord{}, fmt.Errorf("model_year: %w", err)
	}
	electricRange, err := parseIntOrZero(raw.ElectricRange)
	if err != nil {
		return VehicleRecord{}, fmt.Errorf("electric_range: %w", err)
	}
	msrp, err := parseIntOrZero(raw.BaseMSRP)
	if err != nil {
		return VehicleRecord{}, fmt.Errorf("base_msrp: %w", err)
	}

	lon, lat := ParsePoint(raw.VehicleLocation)

	return VehicleRecord{
		ModelYear:       year,
		Make:            raw.Make,
		Model:           raw.Model,
		City:            raw.City,
		ElectricRange:   electricRange,
		BaseMSRP:        msrp,
		VehicleLocation: raw.VehicleLocation,
		Longitude:       lon,
		Latitude:        lat,
	}, nil
}

// IsMissing reports whether a cell should be treated as absent.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, m := range missingMarkers {
		if s == m {
			return true
		}
	}
	return false
}

func parseRequiredInt(s string) (int, error) {
	if IsMissing(s) {
		return 0, ErrMissingValue
	}
	return parseTruncatedInt(s)
}

func parseIntOrZero(s string) (int, error) {
	if IsMissing(s) {
		return 0, nil
	}
	return parseTruncatedInt(s)
}

// parseTruncatedInt accepts integer or decimal text and truncates toward zero,
// so "2020.0" -> 2020 and "215.9" -> 215.
func parseTruncatedInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return int(v), nil
}
