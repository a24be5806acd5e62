package domain

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the four KPI tiles.
type Summary struct {
	TotalEVs      int `json:"total_evs"`
	Manufacturers int `json:"manufacturers"`
	AverageRange  int `json:"average_range"`
	Cities        int `json:"cities"`
}

// MakeCount is one bar of the manufacturer chart.
type MakeCount struct {
	Make  string `json:"make"`
	Count int    `json:"count"`
}

// YearCount is one point of the growth chart.
type YearCount struct {
	ModelYear int `json:"model_year"`
	Count     int `json:"count"`
}

// Correlation variable names, in matrix order.
const (
	VarModelYear     = "model_year"
	VarElectricRange = "electric_range"
	VarBaseMSRP      = "base_msrp"
)

// CorrelationMatrix is a square Pearson matrix. Values[i][j] is nil when the
// coefficient is undefined (a column with zero variance). Values is empty when
// fewer than two rows were supplied.
type CorrelationMatrix struct {
	Variables []string     `json:"variables"`
	Values    [][]*float64 `json:"values"`
}

// IsEmpty reports whether no coefficients were computed.
func (m CorrelationMatrix) IsEmpty() bool {
	return len(m.Values) == 0
}

// MapPoint is a single vehicle plotted on the map.
type MapPoint struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Make          string  `json:"make"`
	City          string  `json:"city"`
	Model         string  `json:"model"`
	ElectricRange int     `json:"electric_range"`
}

// Summarize computes the KPI tiles. The average range is the truncated mean
// and is 0 for an empty subset. Distinct counts ignore blank values.
func Summarize(records []VehicleRecord) Summary {
	return Summary{
		TotalEVs:      len(records),
		Manufacturers: countPresent(DistinctMakes(records)),
		AverageRange:  averageRange(records),
		Cities:        countPresent(DistinctCities(records)),
	}
}

func averageRange(records []VehicleRecord) int {
	if len(records) == 0 {
		return 0
	}
	ranges := make([]float64, len(records))
	for i := range records {
		ranges[i] = float64(records[i].ElectricRange)
	}
	return int(stat.Mean(ranges, nil))
}

func countPresent(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// CountByMake groups records by make, ordered by make ascending.
func CountByMake(records []VehicleRecord) []MakeCount {
	counts := make(map[string]int)
	for i := range records {
		counts[records[i].Make]++
	}
	out := make([]MakeCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, MakeCount{Make: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Make < out[j].Make })
	return out
}

// CountByYear groups records by model year, ordered by year ascending.
func CountByYear(records []VehicleRecord) []YearCount {
	counts := make(map[int]int)
	for i := range records {
		counts[records[i].ModelYear]++
	}
	out := make([]YearCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, YearCount{ModelYear: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelYear < out[j].ModelYear })
	return out
}

// Correlate computes the pairwise Pearson correlation of model year,
// electric range and base MSRP.
func Correlate(records []VehicleRecord) CorrelationMatrix {
	vars := []string{VarModelYear, VarElectricRange, VarBaseMSRP}
	m := CorrelationMatrix{Variables: vars, Values: [][]*float64{}}
	if len(records) < 2 {
		return m
	}

	cols := make([][]float64, len(vars))
	for c := range cols {
		cols[c] = make([]float64, len(records))
	}
	for i := range records {
		cols[0][i] = float64(records[i].ModelYear)
		cols[1][i] = float64(records[i].ElectricRange)
		cols[2][i] = float64(records[i].BaseMSRP)
	}

	m.Values = make([][]*float64, len(vars))
	for i := range vars {
		m.Values[i] = make([]*float64, len(vars))
	}
	for i := range vars {
		for j := i; j < len(vars); j++ {
			r := pearson(cols[i], cols[j], i == j)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// ProjectMap returns the plottable points and the number of rows skipped
// because their coordinates are undefined.
func ProjectMap(records []VehicleRecord) ([]MapPoint, int) {
	points := make([]MapPoint, 0, len(records))
	skipped := 0
	for i := range records {
		r := records[i]
		if !r.HasLocation() {
			skipped++
			continue
		}
		points = append(points, MapPoint{
			Latitude:      r.Latitude,
			Longitude:     r.Longitude,
			Make:          r.Make,
			City:          r.City,
			Model:         r.Model,
			ElectricRange: r.ElectricRange,
		})
	}
	return points, skipped
}

// pearson returns nil when either column has zero variance.
func pearson(x, y []float64, same bool) *float64 {
	if same {
		if stat.Variance(x, nil) == 0 {
			return nil
		}
		one := 1.0
		return &one
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	r = math.Max(-1, math.Min(1, r))
	return &r
}
