// Command genmock generates mock TDV observation files for manual runs and
// test fixtures. It feeds its own output through the actual parser and
// aggregator so the printed expected report matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -states TN,WA \
//	  -records 500 \
//	  -seed 1
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-stats/internal/domain"
	"github.com/couchcryptid/climate-stats/internal/report"
	"github.com/couchcryptid/climate-stats/internal/stats"
)

// Observation times span calendar year 2015, matching the historical NOAA
// extracts the fixtures imitate.
var (
	rangeStart = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for generated .tdv files")
	states := flag.String("states", "TN,WA", "comma-separated state codes, one file per state")
	records := flag.Int("records", 500, "records per state")
	seed := flag.Int64("seed", 1, "rand seed, fixed for reproducible fixtures")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *records <= 0 {
		return fmt.Errorf("-records must be positive, got %d", *records)
	}

	codes := splitStates(*states)
	if len(codes) == 0 {
		return fmt.Errorf("no state codes in -states %q", *states)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	// Freeze the summary clock so the printed expected report is stable.
	stats.SetClock(clockwork.NewFakeClockAt(rangeEnd))
	defer stats.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))
	agg := stats.New()

	for _, code := range codes {
		path := filepath.Join(*outDir, fmt.Sprintf("data_%s.tdv", strings.ToLower(code)))
		if err := writeStateFile(path, code, *records, rng, agg); err != nil {
			return fmt.Errorf("generating %s: %w", path, err)
		}
		log.Printf("%s: %d records", path, *records)
	}

	summaries, err := agg.Summaries()
	if err != nil {
		return err
	}

	fmt.Println("\n=== Expected report for updating test assertions ===")
	return report.Render(os.Stdout, summaries, time.UTC)
}

// writeStateFile emits one TDV file and folds every generated line through
// the real parser so the expected report reflects exactly what the pipeline
// will compute, zero-coercions included.
func writeStateFile(path, code string, records int, rng *rand.Rand, agg *stats.Aggregator) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := 0; i < records; i++ {
		line := generateLine(code, rng)
		if _, err := fmt.Fprintln(f, line); err != nil {
			return err
		}

		obs, err := domain.ParseLine(line)
		if err != nil {
			return fmt.Errorf("generated unparseable line %q: %w", line, err)
		}
		agg.Fold(obs)
	}
	return f.Sync()
}

func generateLine(code string, rng *rand.Rand) string {
	ts := rangeStart.UnixMilli() + rng.Int63n(rangeEnd.UnixMilli()-rangeStart.UnixMilli())
	// Hourly observation grid, like the NOAA extracts.
	ts = ts - ts%(3600*1000)

	humidity := rng.Float64() * 100
	cloudCover := rng.Float64() * 100
	kelvin := 250 + rng.Float64()*60 // roughly -10F to 98F
	pressure := 95000 + rng.Float64()*8000

	snow := 0
	if kelvin < 273.15 && rng.Float64() < 0.3 {
		snow = 1
	}
	lightning := 0
	if rng.Float64() < 0.02 {
		lightning = 1
	}

	return fmt.Sprintf("%s\t%d\t%s\t%.1f\t%d.0\t%.1f\t%d.0\t%.1f\t%.5f",
		code, ts, randomGeohash(rng), humidity, snow, cloudCover, lightning, pressure, kelvin)
}

func randomGeohash(rng *rand.Rand) string {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteByte(geohashAlphabet[rng.Intn(len(geohashAlphabet))])
	}
	return sb.String()
}

func splitStates(s string) []string {
	parts := strings.Split(s, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, strings.ToUpper(p))
		}
	}
	return codes
}
