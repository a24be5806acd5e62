package domain

import (
	"math"
	"time"
)

// RawVehicleRecord holds the string cells of one CSV row for the columns
// the dashboard reads. Missing cells are empty strings.
type RawVehicleRecord struct {
	ModelYear       string
	Make            string
	Model           string
	City            string
	ElectricRange   string
	BaseMSRP        string
	VehicleLocation string
}

// VehicleRecord is one cleaned registration row.
type VehicleRecord struct {
	ModelYear       int     `json:"model_year"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	City            string  `json:"city"`
	ElectricRange   int     `json:"electric_range"`
	BaseMSRP        int     `json:"base_msrp"`
	VehicleLocation string  `json:"vehicle_location"`
	Longitude       float64 `json:"-"` // NaN when vehicle_location did not parse
	Latitude        float64 `json:"-"` // NaN when vehicle_location did not parse
}

// HasLocation reports whether both coordinates were extracted.
func (r VehicleRecord) HasLocation() bool {
	return !math.IsNaN(r.Longitude) && !math.IsNaN(r.Latitude)
}

// Table is the cleaned, read-only result of loading the source file.
// Records must not be modified after NewTable returns.
type Table struct {
	Source             string
	Records            []VehicleRecord
	LoadedAt           time.Time
	MalformedLocations int
}

// NewTable wraps cleaned records, stamping the load time and counting rows
// without usable coordinates.
func NewTable(source string, records []VehicleRecord) *Table {
	malformed := 0
	for i := range records {
		if !records[i].HasLocation() {
			malformed++
		}
	}
	return &Table{
		Source:             source,
		Records:            records,
		LoadedAt:           clock.Now(),
		MalformedLocations: malformed,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}
