// Package report renders per-state climate summaries as the fixed text
// layout consumed by downstream tooling.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/climate-stats/internal/domain"
)

// Render writes the summary report in the order the summaries are given
// (insertion order upstream). Extremum timestamps render in loc using the
// classic ctime layout so a single run is consistent across all states.
func Render(w io.Writer, summaries []domain.StateSummary, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	header := "States found:"
	if len(summaries) > 0 {
		codes := make([]string, len(summaries))
		for i, s := range summaries {
			codes[i] = s.Code
		}
		header += " " + strings.Join(codes, " ")
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	for _, s := range summaries {
		if err := renderState(w, s, loc); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	}
	return nil
}

func renderState(w io.Writer, s domain.StateSummary, loc *time.Location) error {
	_, err := fmt.Fprintf(w,
		"-- State: %s --\n"+
			"Number of Records: %d\n"+
			"Average Humidity: %.1f%%\n"+
			"Average Temperature: %.1fF\n"+
			"Max Temperature: %.1fF\n"+
			"Max Temperature on: %s\n"+
			"Min Temperature: %.1fF\n"+
			"Min Temperature on: %s\n"+
			"Lightning Strikes: %d\n"+
			"Records with Snow Cover: %d\n"+
			"Average Cloud Cover: %.1f%%\n",
		s.Code,
		s.RecordCount,
		s.AvgHumidity,
		s.AvgTemperature,
		s.MaxTemperature,
		s.MaxTemperatureAt.In(loc).Format(time.ANSIC),
		s.MinTemperature,
		s.MinTemperatureAt.In(loc).Format(time.ANSIC),
		s.LightningStrikes,
		s.SnowCoverRecords,
		s.AvgCloudCover,
	)
	return err
}
