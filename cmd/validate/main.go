// Command validate performs integrity checks over TDV observation files:
// field counts per line, parseability, value ranges, and per-state record
// counts recomputed through the actual aggregator. Useful for vetting
// generated fixtures and fresh NOAA extracts before a run.
//
// Usage:
//
//	go run ./cmd/validate data/mock/data_tn.tdv data/mock/data_wa.tdv
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/climate-stats/internal/domain"
	"github.com/couchcryptid/climate-stats/internal/stats"
)

const expectedFields = 9

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (p *phase) report() {
	if p.passed() {
		fmt.Printf("PASS %s\n", p.name)
		return
	}
	fmt.Printf("FAIL %s\n", p.name)
	for _, e := range p.errors {
		fmt.Printf("  - %s\n", e)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s tdv_file1 [tdv_file2 ...]\n", os.Args[0])
		os.Exit(2)
	}

	agg := stats.New()
	failed := false
	for _, path := range os.Args[1:] {
		if !validateFile(path, agg) {
			failed = true
		}
	}

	printStateCounts(agg)

	if failed {
		os.Exit(1)
	}
}

func validateFile(path string, agg *stats.Aggregator) bool {
	p := &phase{name: path}

	f, err := os.Open(path)
	if err != nil {
		p.errorf("open: %v", err)
		p.report()
		return false
	}
	defer f.Close()

	lineNo := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		validateLine(p, line, lineNo, agg)
	}
	if err := scanner.Err(); err != nil {
		p.errorf("scan: %v", err)
	}

	p.report()
	return p.passed()
}

func validateLine(p *phase, line string, lineNo int, agg *stats.Aggregator) {
	if n := len(strings.Split(line, "\t")); n != expectedFields {
		p.errorf("line %d: %d fields, want %d", lineNo, n, expectedFields)
	}

	obs, err := domain.ParseLine(line)
	if err != nil {
		p.errorf("line %d: %v", lineNo, err)
		return
	}

	if len(obs.StateCode) != 2 {
		p.errorf("line %d: state code %q is not two characters", lineNo, obs.StateCode)
	}
	if obs.Humidity < 0 || obs.Humidity > 100 {
		p.errorf("line %d: humidity %.1f out of range", lineNo, obs.Humidity)
	}
	if obs.CloudCover < 0 || obs.CloudCover > 100 {
		p.errorf("line %d: cloud cover %.1f out of range", lineNo, obs.CloudCover)
	}
	if obs.TempFahrenheit < -459.67 {
		p.errorf("line %d: temperature %.1fF below absolute zero", lineNo, obs.TempFahrenheit)
	}

	agg.Fold(obs)
}

func printStateCounts(agg *stats.Aggregator) {
	summaries, err := agg.Summaries()
	if err != nil {
		fmt.Printf("summary error: %v\n", err)
		return
	}

	fmt.Println("\nRecords per state:")
	for _, s := range summaries {
		fmt.Printf("  %s: %d (avg temp %.1fF, snow %d, lightning %d)\n",
			s.Code, s.RecordCount, s.AvgTemperature, s.SnowCoverRecords, s.LightningStrikes)
	}
}
