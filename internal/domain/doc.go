// Package domain models NOAA climate observation data in tab-delimited
// value (TDV) form.
//
// # Data Source
//
// Observations originate from National Oceanic and Atmospheric Administration
// (NOAA) extracts, one file per US state, one observation per line. Fields are
// separated by a single tab character and each record ends with a newline:
//
//	CA	1428300000000	9prcjqk3yc80	93.0	0.0	100.0	0.0	95644.0	277.58716
//
// Field order:
//
//	1. state code (two letters, e.g. CA, TX)
//	2. observation time, milliseconds since the Unix epoch
//	3. geohash of the observation site (unused)
//	4. humidity, 0-100%
//	5. snow cover flag (1 = snow present)
//	6. cloud cover, 0-100%
//	7. lightning flag (1 = lightning strike)
//	8. barometric pressure, Pa (unused)
//	9. surface temperature, Kelvin
//
// # Parsing Conventions
//
// Numeric fields are parsed best-effort: malformed or missing values read as
// zero rather than rejecting the record, matching the permissiveness of the
// upstream extracts (which occasionally carry blank columns). Flag fields are
// considered set when the first byte is '1', so "1", "1.0", and "1.00" all
// count. Surface temperature is converted to Fahrenheit (F = K*1.8 - 459.67)
// and the timestamp is truncated to whole seconds at parse time, so downstream
// consumers only ever see the converted values.
//
// A line is rejected only when it carries no state code, since the state code
// is the aggregation key and cannot be defaulted.
package domain
