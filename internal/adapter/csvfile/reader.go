package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNoHeader is returned for a file without even a header row.
	ErrNoHeader = errors.New("no header row")
)

// Required column names after header normalisation.
const (
	ColModelYear       = "model_year"
	ColMake            = "make"
	ColModel           = "model"
	ColCity            = "city"
	ColElectricRange   = "electric_range"
	ColBaseMSRP        = "base_msrp"
	ColVehicleLocation = "vehicle_location"
)

var requiredColumns = []string{
	ColModelYear, ColMake, ColModel, ColCity, ColElectricRange, ColBaseMSRP, ColVehicleLocation,
}

// nanValues are read as missing by the dataframe loader; they surface as
// "NaN" in column records.
var nanValues = []string{"", "NA", "NaN", "<nil>"}

// headerSepRe collapses spaces, dashes, and dots inside a header.
var headerSepRe = regexp.MustCompile(`[\s\-\.]+`)

// ReadRecords parses CSV content into raw rows. Every column is read as a
// string; numeric coercion happens in the domain cleaner. A file holding only
// a valid header yields zero rows.
func ReadRecords(r io.Reader) ([]domain.RawVehicleRecord, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse csv: %w", ErrNoHeader)
	}
	// The dataframe loader rejects a header with no data rows.
	if len(rows) == 1 {
		if _, err := resolveColumns(rows[0]); err != nil {
			return nil, err
		}
		return []domain.RawVehicleRecord{}, nil
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}

	columns, err := resolveColumns(df.Names())
	if err != nil {
		return nil, err
	}

	cells := make(map[string][]string, len(requiredColumns))
	for _, col := range requiredColumns {
		s := df.Col(columns[col])
		if s.Err != nil {
			return nil, fmt.Errorf("read column %s: %w", col, s.Err)
		}
		cells[col] = s.Records()
	}

	raws := make([]domain.RawVehicleRecord, df.Nrow())
	for i := range raws {
		raws[i] = domain.RawVehicleRecord{
			ModelYear:       cells[ColModelYear][i],
			Make:            text(cells[ColMake][i]),
			Model:           text(cells[ColModel][i]),
			City:            text(cells[ColCity][i]),
			ElectricRange:   cells[ColElectricRange][i],
			BaseMSRP:        cells[ColBaseMSRP][i],
			VehicleLocation: text(cells[ColVehicleLocation][i]),
		}
	}
	return raws, nil
}

// resolveColumns maps each required column to the header it appears under.
func resolveColumns(headers []string) (map[string]string, error) {
	byNormalized := make(map[string]string, len(headers))
	for _, h := range headers {
		n := NormalizeHeader(h)
		if _, dup := byNormalized[n]; !dup {
			byNormalized[n] = h
		}
	}

	out := make(map[string]string, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		h, ok := byNormalized[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		out[col] = h
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return out, nil
}

// NormalizeHeader lower-cases a header and joins its words with underscores,
// e.g. "Model Year" -> "model_year", "Base MSRP" -> "base_msrp".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Trim(headerSepRe.ReplaceAllString(h, "_"), "_")
}

// text maps missing cells in string columns to the empty string.
func text(s string) string {
	if domain.IsMissing(s) {
		return ""
	}
	return s
}
