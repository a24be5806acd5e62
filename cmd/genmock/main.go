// Command genmock writes a deterministic sample of electric vehicle
// registrations in the same column layout as the Washington State
// Electric Vehicle Population export, then loads it back through the
// dashboard loader so the printed stats match what the dashboard will show.
//
// Usage:
//
//	go run ./cmd/genmock -out data/ev_population_sample.csv -rows 2000 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

var header = []string{
	"VIN (1-10)", "County", "City", "State", "Postal Code", "Model Year", "Make", "Model",
	"Electric Vehicle Type", "Electric Range", "Base MSRP", "Vehicle Location",
}

type vehicleModel struct {
	make    string
	model   string
	kind    string
	rangeMi int
	msrp    int
	firstYr int
}

var models = []vehicleModel{
	{make: "TESLA", model: "MODEL 3", kind: "Battery Electric Vehicle (BEV)", rangeMi: 220, firstYr: 2017},
	{make: "TESLA", model: "MODEL Y", kind: "Battery Electric Vehicle (BEV)", rangeMi: 291, firstYr: 2020},
	{make: "TESLA", model: "MODEL S", kind: "Battery Electric Vehicle (BEV)", rangeMi: 265, msrp: 69900, firstYr: 2012},
	{make: "NISSAN", model: "LEAF", kind: "Battery Electric Vehicle (BEV)", rangeMi: 150, firstYr: 2011},
	{make: "CHEVROLET", model: "BOLT EV", kind: "Battery Electric Vehicle (BEV)", rangeMi: 259, firstYr: 2017},
	{make: "CHEVROLET", model: "VOLT", kind: "Plug-in Hybrid Electric Vehicle (PHEV)", rangeMi: 53, msrp: 33950, firstYr: 2011},
	{make: "KIA", model: "NIRO", kind: "Plug-in Hybrid Electric Vehicle (PHEV)", rangeMi: 26, firstYr: 2018},
	{make: "BMW", model: "I3", kind: "Battery Electric Vehicle (BEV)", rangeMi: 153, msrp: 44450, firstYr: 2014},
	{make: "FORD", model: "MUSTANG MACH-E", kind: "Battery Electric Vehicle (BEV)", firstYr: 2021},
	{make: "RIVIAN", model: "R1T", kind: "Battery Electric Vehicle (BEV)", firstYr: 2022},
}

type place struct {
	county string
	city   string
	postal string
	lon    float64
	lat    float64
}

var places = []place{
	{county: "King", city: "Seattle", postal: "98122", lon: -122.30839, lat: 47.610365},
	{county: "King", city: "Bellevue", postal: "98004", lon: -122.20061, lat: 47.61403},
	{county: "King", city: "Redmond", postal: "98052", lon: -122.12096, lat: 47.67858},
	{county: "Snohomish", city: "Everett", postal: "98201", lon: -122.20568, lat: 47.97898},
	{county: "Pierce", city: "Tacoma", postal: "98402", lon: -122.43870, lat: 47.25288},
	{county: "Thurston", city: "Olympia", postal: "98501", lon: -122.89166, lat: 47.03956},
	{county: "Spokane", city: "Spokane", postal: "99201", lon: -117.42616, lat: 47.65878},
	{county: "Clark", city: "Vancouver", postal: "98660", lon: -122.67621, lat: 45.63873},
	{county: "Whatcom", city: "Bellingham", postal: "98225", lon: -122.48822, lat: 48.75955},
	{county: "Kitsap", city: "Bremerton", postal: "98312", lon: -122.63264, lat: 47.56732},
}

const lastModelYear = 2024

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/ev_population_sample.csv", "output CSV path")
	rows := flag.Int("rows", 2000, "number of rows to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows must be positive")
	}

	records := generate(*rows, *seed)
	if err := writeCSV(*out, records); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d rows: %s", *rows, *out)

	// Fixed clock so repeated runs print identical output.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	table, err := csvfile.ReadTable(*out)
	if err != nil {
		return fmt.Errorf("reading back %s: %w", *out, err)
	}
	printStats(table)
	return nil
}

// generate builds the header plus n rows. Every 40th row gets a truncated
// location and every 25th row leaves range and MSRP blank, mirroring the
// gaps in the real export.
func generate(n int, seed uint64) [][]string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	records := make([][]string, 0, n+1)
	records = append(records, header)
	for i := range n {
		m := models[rng.IntN(len(models))]
		p := places[rng.IntN(len(places))]
		year := m.firstYr + rng.IntN(lastModelYear-m.firstYr+1)

		lon := p.lon + (rng.Float64()-0.5)*0.1
		lat := p.lat + (rng.Float64()-0.5)*0.1
		location := domain.FormatPoint(round5(lon), round5(lat))
		if i%40 == 39 {
			location = location[:len(location)-1]
		}

		rangeMi, msrp := strconv.Itoa(m.rangeMi), strconv.Itoa(m.msrp)
		if i%25 == 24 {
			rangeMi, msrp = "", ""
		}

		records = append(records, []string{
			vin(rng),
			p.county,
			p.city,
			"WA",
			p.postal,
			strconv.Itoa(year),
			m.make,
			m.model,
			m.kind,
			rangeMi,
			msrp,
			location,
		})
	}
	return records
}

func vin(rng *rand.Rand) string {
	const alphabet = "0123456789ABCDEFGHJKLMNPRSTUVWXYZ"
	b := make([]byte, 10)
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return string(b)
}

func round5(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 5, 64), 64)
	return f
}

func writeCSV(path string, records [][]string) error {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df.Err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(t *domain.Table) {
	summary := domain.Summarize(t.Records)

	fmt.Println("\n=== Sample dataset ===")
	fmt.Printf("Rows: %d (malformed locations: %d)\n", t.Len(), t.MalformedLocations)
	fmt.Printf("Manufacturers: %d, cities: %d, avg range: %d\n",
		summary.Manufacturers, summary.Cities, summary.AverageRange)

	fmt.Println("By make:")
	for _, c := range domain.CountByMake(t.Records) {
		fmt.Printf("  %-12s %d\n", c.Make, c.Count)
	}
	fmt.Println("By year:")
	for _, c := range domain.CountByYear(t.Records) {
		fmt.Printf("  %d %d\n", c.ModelYear, c.Count)
	}
}
