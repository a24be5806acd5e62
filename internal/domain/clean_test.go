package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeattlePoint = "POINT (-122.33 47.61)"

func validRaw() RawVehicleRecord {
	return RawVehicleRecord{
		ModelYear:       "2020",
		Make:            "TESLA",
		Model:           "MODEL 3",
		City:            "Seattle",
		ElectricRange:   "322",
		BaseMSRP:        "0",
		VehicleLocation: testSeattlePoint,
	}
}

func TestCleanRecord(t *testing.T) {
	rec, err := CleanRecord(validRaw())

	require.NoError(t, err)
	assert.Equal(t, 2020, rec.ModelYear)
	assert.Equal(t, "TESLA", rec.Make)
	assert.Equal(t, "MODEL 3", rec.Model)
	assert.Equal(t, "Seattle", rec.City)
	assert.Equal(t, 322, rec.ElectricRange)
	assert.Equal(t, 0, rec.BaseMSRP)
	assert.Equal(t, -122.33, rec.Longitude)
	assert.Equal(t, 47.61, rec.Latitude)
	assert.True(t, rec.HasLocation())
}

func TestCleanRecord_MissingNumericsBecomeZero(t *testing.T) {
	for _, missing := range []string{"", " ", "NA", "NaN", "<nil>"} {
		t.Run(missing, func(t *testing.T) {
			raw := validRaw()
			raw.ElectricRange = missing
			raw.BaseMSRP = missing

			rec, err := CleanRecord(raw)
			require.NoError(t, err)
			assert.Equal(t, 0, rec.ElectricRange)
			assert.Equal(t, 0, rec.BaseMSRP)
		})
	}
}

func TestCleanRecord_DecimalsTruncate(t *testing.T) {
	raw := validRaw()
	raw.ModelYear = "2019.0"
	raw.ElectricRange = "215.9"
	raw.BaseMSRP = "69900.00"

	rec, err := CleanRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, 2019, rec.ModelYear)
	assert.Equal(t, 215, rec.ElectricRange)
	assert.Equal(t, 69900, rec.BaseMSRP)
}

func TestCleanRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RawVehicleRecord)
		target  error
		message string
	}{
		{"missing model year", func(r *RawVehicleRecord) { r.ModelYear = "" }, ErrMissingValue, "model_year"},
		{"NA model year", func(r *RawVehicleRecord) { r.ModelYear = "NA" }, ErrMissingValue, "model_year"},
		{"text model year", func(r *RawVehicleRecord) { r.ModelYear = "twenty" }, ErrNotNumeric, "model_year"},
		{"text range", func(r *RawVehicleRecord) { r.ElectricRange = "far" }, ErrNotNumeric, "electric_range"},
		{"text msrp", func(r *RawVehicleRecord) { r.BaseMSRP = "$1" }, ErrNotNumeric, "base_msrp"},
		{"infinite msrp", func(r *RawVehicleRecord) { r.BaseMSRP = "Inf" }, ErrNotNumeric, "base_msrp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			_, err := CleanRecord(raw)
			require.Error(t, err)
			require.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCleanRecord_MalformedLocationKeepsRow(t *testing.T) {
	raw := validRaw()
	raw.VehicleLocation = "POINT (-122.33 47.61"

	rec, err := CleanRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, -122.33, rec.Longitude)
	assert.True(t, math.IsNaN(rec.Latitude))
	assert.False(t, rec.HasLocation())
}

func TestCleanRecords_ReportsRowNumber(t *testing.T) {
	bad := validRaw()
	bad.ModelYear = "n/a"

	_, err := CleanRecords([]RawVehicleRecord{validRaw(), validRaw(), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestCleanRecords_Empty(t *testing.T) {
	records, err := CleanRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("NaN"))
	assert.True(t, IsMissing(" NA "))
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing("nan"))
}
