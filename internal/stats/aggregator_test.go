package stats

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-stats/internal/domain"
)

func obs(state string, ts int64, tempF float64) domain.Observation {
	return domain.Observation{
		StateCode:      state,
		Timestamp:      time.Unix(ts, 0),
		TempFahrenheit: tempF,
	}
}

func TestFindOrCreate(t *testing.T) {
	a := New()

	st := a.FindOrCreate("CA")
	require.NotNil(t, st)
	assert.Equal(t, "CA", st.Code)
	assert.Zero(t, st.RecordCount)
	assert.True(t, math.IsInf(st.MaxTemperature, -1), "max starts at -Inf")
	assert.True(t, math.IsInf(st.MinTemperature, 1), "min starts at +Inf")

	assert.Same(t, st, a.FindOrCreate("CA"), "second lookup returns the same entry")
	assert.Equal(t, 1, a.Len())

	a.FindOrCreate("ca")
	assert.Equal(t, 2, a.Len(), "codes compare case-sensitively")
}

func TestFold_CountsAndSums(t *testing.T) {
	a := New()

	for i := 0; i < 5; i++ {
		a.Fold(domain.Observation{
			StateCode:      "TN",
			Timestamp:      time.Unix(int64(i), 0),
			Humidity:       10,
			CloudCover:     20,
			TempFahrenheit: 50,
			HasSnow:        i%2 == 0,
			HasLightning:   i == 3,
		})
	}

	st := a.FindOrCreate("TN")
	assert.Equal(t, uint64(5), st.RecordCount)
	assert.Equal(t, 50.0, st.HumiditySum)
	assert.Equal(t, 100.0, st.CloudCoverSum)
	assert.Equal(t, 250.0, st.TemperatureSum)
	assert.Equal(t, uint64(3), st.SnowCoverRecords)
	assert.Equal(t, uint64(1), st.LightningStrikes)
}

func TestFold_Extrema(t *testing.T) {
	a := New()

	a.Fold(obs("WA", 100, 50.0))
	a.Fold(obs("WA", 200, 70.0))
	a.Fold(obs("WA", 300, 30.0))

	st := a.FindOrCreate("WA")
	assert.Equal(t, 70.0, st.MaxTemperature)
	assert.Equal(t, time.Unix(200, 0), st.MaxTemperatureAt)
	assert.Equal(t, 30.0, st.MinTemperature)
	assert.Equal(t, time.Unix(300, 0), st.MinTemperatureAt)
}

func TestFold_TieKeepsFirstTimestamp(t *testing.T) {
	a := New()

	a.Fold(obs("WA", 100, 70.0))
	a.Fold(obs("WA", 200, 70.0))
	a.Fold(obs("WA", 300, 70.0))

	st := a.FindOrCreate("WA")
	assert.Equal(t, 70.0, st.MaxTemperature)
	assert.Equal(t, time.Unix(100, 0), st.MaxTemperatureAt, "later ties must not steal the max timestamp")
	assert.Equal(t, 70.0, st.MinTemperature)
	assert.Equal(t, time.Unix(100, 0), st.MinTemperatureAt, "later ties must not steal the min timestamp")
}

func TestFold_SingleObservationIsBothExtrema(t *testing.T) {
	a := New()
	a.Fold(obs("AZ", 42, -459.0))

	st := a.FindOrCreate("AZ")
	assert.Equal(t, -459.0, st.MaxTemperature, "even extreme cold readings beat the sentinel")
	assert.Equal(t, -459.0, st.MinTemperature)
	assert.Equal(t, time.Unix(42, 0), st.MaxTemperatureAt)
	assert.Equal(t, time.Unix(42, 0), st.MinTemperatureAt)
}

func TestFold_StatesAreIndependent(t *testing.T) {
	a := New()

	a.Fold(domain.Observation{StateCode: "CA", Humidity: 10, TempFahrenheit: 90})
	a.Fold(domain.Observation{StateCode: "TX", Humidity: 20, TempFahrenheit: 10})
	a.Fold(domain.Observation{StateCode: "CA", Humidity: 30, TempFahrenheit: 90})

	ca := a.FindOrCreate("CA")
	tx := a.FindOrCreate("TX")
	assert.Equal(t, uint64(2), ca.RecordCount)
	assert.Equal(t, 40.0, ca.HumiditySum)
	assert.Equal(t, uint64(1), tx.RecordCount)
	assert.Equal(t, 20.0, tx.HumiditySum)
	assert.Equal(t, 10.0, tx.MaxTemperature, "CA folds must not perturb TX extrema")
}

func TestCodes_InsertionOrder(t *testing.T) {
	a := New()
	for _, code := range []string{"TN", "WA", "CA", "WA", "TN"} {
		a.Fold(domain.Observation{StateCode: code})
	}
	assert.Equal(t, []string{"TN", "WA", "CA"}, a.Codes())
}

func TestSummaries(t *testing.T) {
	frozen := time.Date(2015, time.August, 3, 11, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	a := New()
	a.Fold(domain.Observation{
		StateCode: "CA", Timestamp: time.Unix(0, 0),
		Humidity: 50, CloudCover: 10, TempFahrenheit: 32,
	})
	a.Fold(domain.Observation{
		StateCode: "CA", Timestamp: time.Unix(1, 0),
		Humidity: 60, CloudCover: 20, TempFahrenheit: 50,
		HasSnow: true, HasLightning: true,
	})

	sums, err := a.Summaries()
	require.NoError(t, err)
	require.Len(t, sums, 1)

	s := sums[0]
	assert.Equal(t, "CA", s.Code)
	assert.Equal(t, uint64(2), s.RecordCount)
	assert.Equal(t, 55.0, s.AvgHumidity)
	assert.Equal(t, 41.0, s.AvgTemperature)
	assert.Equal(t, 50.0, s.MaxTemperature)
	assert.Equal(t, time.Unix(1, 0), s.MaxTemperatureAt)
	assert.Equal(t, 32.0, s.MinTemperature)
	assert.Equal(t, time.Unix(0, 0), s.MinTemperatureAt)
	assert.Equal(t, uint64(1), s.LightningStrikes)
	assert.Equal(t, uint64(1), s.SnowCoverRecords)
	assert.Equal(t, 15.0, s.AvgCloudCover)
	assert.Equal(t, frozen, s.GeneratedAt)
}

func TestSummaries_Empty(t *testing.T) {
	sums, err := New().Summaries()
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestSummaries_ZeroRecordStateIsAnError(t *testing.T) {
	a := New()
	a.FindOrCreate("NV") // created without a fold: invariant violation

	_, err := a.Summaries()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NV")
	assert.Contains(t, err.Error(), "zero records")
}

func TestSummaries_ConcurrentWithFold(t *testing.T) {
	const folds = 20000
	states := []string{"CA", "TX", "TN", "WA"}

	a := New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < folds; i++ {
			a.Fold(obs(states[i%len(states)], int64(i), float64(i%100)))
		}
	}()

	// Snapshot continuously while the fold loop runs, the way the status
	// server does mid-run. Snapshots must never surface a half-created
	// state entry.
	for snapshotting := true; snapshotting; {
		select {
		case <-done:
			snapshotting = false
		default:
			sums, err := a.Summaries()
			require.NoError(t, err, "mid-run snapshot saw a zero-record state")
			for _, s := range sums {
				require.NotZero(t, s.RecordCount)
			}
			_ = a.Codes()
			_ = a.Len()
		}
	}

	sums, err := a.Summaries()
	require.NoError(t, err)
	require.Len(t, sums, len(states))
	var total uint64
	for _, s := range sums {
		total += s.RecordCount
	}
	assert.Equal(t, uint64(folds), total)
}

func TestFold_ReprocessingDoubles(t *testing.T) {
	lines := []domain.Observation{
		{StateCode: "CA", Humidity: 50, CloudCover: 10, TempFahrenheit: 32, Timestamp: time.Unix(0, 0)},
		{StateCode: "CA", Humidity: 60, CloudCover: 20, TempFahrenheit: 50, Timestamp: time.Unix(1, 0), HasSnow: true},
	}

	a := New()
	for i := 0; i < 2; i++ {
		for _, o := range lines {
			a.Fold(o)
		}
	}

	st := a.FindOrCreate("CA")
	assert.Equal(t, uint64(4), st.RecordCount)
	assert.Equal(t, 220.0, st.HumiditySum)
	assert.Equal(t, 60.0, st.CloudCoverSum)
	assert.Equal(t, uint64(2), st.SnowCoverRecords)
	assert.Equal(t, 50.0, st.MaxTemperature)
	assert.Equal(t, time.Unix(1, 0), st.MaxTemperatureAt, "replay ties keep the first-seen timestamp")
}
