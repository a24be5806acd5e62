// Command validate runs the dashboard's discovery, parsing, and cleaning
// steps against a data directory and prints a data-quality report: the file
// that would be served, schema coverage, rows that would abort a load, and
// rows the map would drop.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -max-malformed-ratio 0.05
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase. Notes are informational and
// never fail the phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxListed caps per-row error output for large files.
const maxListed = 20

func main() {
	dataDir := flag.String("data-dir", ".", "directory holding exactly one .csv file")
	maxMalformed := flag.Float64("max-malformed-ratio", 0.05, "fail when more than this share of rows has an unusable vehicle_location")
	flag.Parse()

	if *maxMalformed < 0 || *maxMalformed > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir, *maxMalformed); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string, maxMalformed float64) int {
	fmt.Println("=== EV Dataset Validation ===")
	fmt.Println()

	discovery, path := validateDiscovery(dataDir)
	phases := []*phase{discovery}

	var raws []domain.RawVehicleRecord
	if path != "" {
		var schema *phase
		schema, raws = validateSchema(path)
		phases = append(phases, schema)
	}
	if raws != nil {
		cleaning, cleaned, records := validateCleaning(raws)
		phases = append(phases, cleaning, validateQuality(cleaned, records, maxMalformed))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Printf("  %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Discovery ──
// The directory must hold exactly one .csv file.

func validateDiscovery(dir string) (*phase, string) {
	p := &phase{name: "Phase 1: Discovery"}

	path, err := csvfile.Discover(dir)
	if err != nil {
		var ambiguous *csvfile.AmbiguousDataError
		if errors.As(err, &ambiguous) {
			for _, f := range ambiguous.Files {
				p.errorf("candidate data file: %s", f)
			}
		}
		p.errorf("%v", err)
		return p, ""
	}
	p.notef("data file: %s", filepath.Base(path))
	return p, path
}

// ── Phase 2: Schema ──
// The file must parse and carry every column the dashboard reads.

func validateSchema(path string) (*phase, []domain.RawVehicleRecord) {
	p := &phase{name: "Phase 2: Schema"}

	f, err := os.Open(path)
	if err != nil {
		p.errorf("open: %v", err)
		return p, nil
	}
	defer f.Close()

	raws, err := csvfile.ReadRecords(f)
	if err != nil {
		p.errorf("%v", err)
		return p, nil
	}
	p.notef("rows: %d", len(raws))
	return p, raws
}

// ── Phase 3: Cleaning ──
// Every row must coerce; a single failure aborts a dashboard load.

// validateCleaning returns the raw rows that cleaned successfully alongside
// their cleaned records, index for index.
func validateCleaning(raws []domain.RawVehicleRecord) (*phase, []domain.RawVehicleRecord, []domain.VehicleRecord) {
	p := &phase{name: "Phase 3: Cleaning"}

	cleaned := make([]domain.RawVehicleRecord, 0, len(raws))
	records := make([]domain.VehicleRecord, 0, len(raws))
	failed := 0
	for i := range raws {
		rec, err := domain.CleanRecord(raws[i])
		if err != nil {
			failed++
			if failed <= maxListed {
				p.errorf("row %d: %v", i+1, err)
			}
			continue
		}
		cleaned = append(cleaned, raws[i])
		records = append(records, rec)
	}
	if failed > maxListed {
		p.errorf("... and %d more rows", failed-maxListed)
	}
	return p, cleaned, records
}

// ── Phase 4: Data Quality ──
// Defaults and map drop-outs are reported over the rows that cleaned; only the
// malformed location ratio can fail the phase.

func validateQuality(raws []domain.RawVehicleRecord, records []domain.VehicleRecord, maxMalformed float64) *phase {
	p := &phase{name: "Phase 4: Data Quality"}

	var missingRange, missingMSRP, missingLocation int
	for i := range raws {
		if domain.IsMissing(raws[i].ElectricRange) {
			missingRange++
		}
		if domain.IsMissing(raws[i].BaseMSRP) {
			missingMSRP++
		}
		if domain.IsMissing(raws[i].VehicleLocation) {
			missingLocation++
		}
	}

	_, malformed := domain.ProjectMap(records)
	summary := domain.Summarize(records)

	p.notef("electric_range defaulted to 0: %d", missingRange)
	p.notef("base_msrp defaulted to 0: %d", missingMSRP)
	p.notef("vehicle_location blank: %d, unparseable: %d", missingLocation, malformed-missingLocation)
	p.notef("manufacturers: %d, cities: %d, avg range: %d", summary.Manufacturers, summary.Cities, summary.AverageRange)

	if len(records) == 0 {
		return p
	}
	ratio := float64(malformed) / float64(len(records))
	if ratio > maxMalformed {
		p.errorf("%.1f%% of rows have no usable location (limit %.1f%%)", ratio*100, maxMalformed*100)
	}
	return p
}
