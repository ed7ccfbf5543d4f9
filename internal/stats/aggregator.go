// Package stats maintains single-pass running aggregates of climate
// observations keyed by state code.
package stats

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/couchcryptid/climate-stats/internal/domain"
)

// StateStats accumulates running statistics for one state code. Sums and
// counters only ever grow; extrema start at the infinities so the first real
// observation always takes them.
type StateStats struct {
	Code             string
	RecordCount      uint64
	HumiditySum      float64
	CloudCoverSum    float64
	TemperatureSum   float64
	MaxTemperature   float64
	MaxTemperatureAt time.Time
	MinTemperature   float64
	MinTemperatureAt time.Time
	LightningStrikes uint64
	SnowCoverRecords uint64
}

// Aggregator folds observations into per-state running statistics. Entries
// are created lazily on first encounter and reported in insertion order.
// The fold path is strictly sequential, but the status server snapshots
// mid-run, so all access goes through the lock.
type Aggregator struct {
	mu     sync.RWMutex
	byCode map[string]*StateStats
	order  []string
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{byCode: make(map[string]*StateStats)}
}

// FindOrCreate returns the stats entry for code, creating and registering a
// freshly initialized one on first encounter. Codes compare case-sensitively.
// The returned entry is not lock-protected; it is for the single-writer fold
// path and sequential inspection, not for concurrent readers.
func (a *Aggregator) FindOrCreate(code string) *StateStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.findOrCreateLocked(code)
}

func (a *Aggregator) findOrCreateLocked(code string) *StateStats {
	if st, ok := a.byCode[code]; ok {
		return st
	}
	st := &StateStats{
		Code:           code,
		MaxTemperature: math.Inf(-1),
		MinTemperature: math.Inf(1),
	}
	a.byCode[code] = st
	a.order = append(a.order, code)
	return st
}

// Fold incorporates one observation into its state's running statistics.
// Extrema update on strict inequality, so a later observation that ties the
// current max or min keeps the first-seen timestamp. The entry is created
// and updated under one lock hold, so concurrent snapshots never observe a
// state with zero records.
func (a *Aggregator) Fold(obs domain.Observation) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.findOrCreateLocked(obs.StateCode)

	st.RecordCount++
	st.HumiditySum += obs.Humidity
	st.CloudCoverSum += obs.CloudCover
	st.TemperatureSum += obs.TempFahrenheit

	if obs.HasSnow {
		st.SnowCoverRecords++
	}
	if obs.HasLightning {
		st.LightningStrikes++
	}

	if obs.TempFahrenheit > st.MaxTemperature {
		st.MaxTemperature = obs.TempFahrenheit
		st.MaxTemperatureAt = obs.Timestamp
	}
	if obs.TempFahrenheit < st.MinTemperature {
		st.MinTemperature = obs.TempFahrenheit
		st.MinTemperatureAt = obs.Timestamp
	}
}

// Len returns the number of distinct state codes seen so far.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byCode)
}

// Codes returns the state codes in insertion order.
func (a *Aggregator) Codes() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Summaries derives the per-state aggregates in insertion order. Safe to
// call while folding is in progress. A state with zero records signals a bug
// in the fold path (entries are only created by folding), so it returns an
// error rather than dividing by zero.
func (a *Aggregator) Summaries() ([]domain.StateSummary, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := clock.Now()
	out := make([]domain.StateSummary, 0, len(a.order))
	for _, code := range a.order {
		st := a.byCode[code]
		if st.RecordCount == 0 {
			return nil, fmt.Errorf("state %s has zero records", code)
		}
		n := float64(st.RecordCount)
		out = append(out, domain.StateSummary{
			Code:             st.Code,
			RecordCount:      st.RecordCount,
			AvgHumidity:      st.HumiditySum / n,
			AvgTemperature:   st.TemperatureSum / n,
			MaxTemperature:   st.MaxTemperature,
			MaxTemperatureAt: st.MaxTemperatureAt,
			MinTemperature:   st.MinTemperature,
			MinTemperatureAt: st.MinTemperatureAt,
			LightningStrikes: st.LightningStrikes,
			SnowCoverRecords: st.SnowCoverRecords,
			AvgCloudCover:    st.CloudCoverSum / n,
			GeneratedAt:      now,
		})
	}
	return out, nil
}
