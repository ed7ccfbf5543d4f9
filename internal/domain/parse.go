package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field positions within a TDV record.
const (
	fieldStateCode = iota
	fieldTimestamp
	fieldGeohash
	fieldHumidity
	fieldSnow
	fieldCloudCover
	fieldLightning
	fieldPressure
	fieldSurfaceTemp
)

// ErrEmptyLine marks a blank input line, which callers skip silently.
var ErrEmptyLine = errors.New("empty line")

// ParseLine splits one tab-delimited observation record into an Observation.
// Numeric fields parse best-effort (zero on failure), flags are set when the
// field starts with '1', and the Kelvin temperature and millisecond timestamp
// are converted before returning. The only rejected inputs are blank lines
// and lines missing a state code.
func ParseLine(line string) (Observation, error) {
	if strings.TrimSpace(line) == "" {
		return Observation{}, ErrEmptyLine
	}

	fields := strings.Split(line, "\t")
	state := field(fields, fieldStateCode)
	if state == "" {
		return Observation{}, fmt.Errorf("record has no state code: %q", line)
	}

	millis := parseIntOrZero(field(fields, fieldTimestamp))
	kelvin := parseFloatOrZero(field(fields, fieldSurfaceTemp))

	return Observation{
		StateCode:      state,
		Timestamp:      time.Unix(millis/1000, 0),
		Geohash:        field(fields, fieldGeohash),
		Humidity:       parseFloatOrZero(field(fields, fieldHumidity)),
		HasSnow:        flagSet(field(fields, fieldSnow)),
		CloudCover:     parseFloatOrZero(field(fields, fieldCloudCover)),
		HasLightning:   flagSet(field(fields, fieldLightning)),
		Pressure:       parseFloatOrZero(field(fields, fieldPressure)),
		TempFahrenheit: KelvinToFahrenheit(kelvin),
	}, nil
}

// KelvinToFahrenheit converts a Kelvin reading to Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return k*1.8 - 459.67
}

// field returns the i-th field, or "" when the line was short. Missing
// trailing fields then fall under the zero-coercion policy.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// flagSet reports whether a 0/1 flag field is set. Only the first byte is
// examined, so "1.0" counts and "0.0", "", and garbage do not.
func flagSet(s string) bool {
	return len(s) > 0 && s[0] == '1'
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseIntOrZero parses a string as int64, returning 0 on failure.
func parseIntOrZero(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
