package domain

import "time"

// Observation is one parsed TDV record with conversions already applied:
// the timestamp is truncated to whole seconds and the surface temperature
// is in Fahrenheit.
type Observation struct {
	StateCode      string
	Timestamp      time.Time
	Geohash        string
	Humidity       float64
	HasSnow        bool
	CloudCover     float64
	HasLightning   bool
	Pressure       float64
	TempFahrenheit float64
}

// StateSummary is the derived per-state aggregate destined for the report
// and, optionally, the summary Kafka topic.
type StateSummary struct {
	Code             string    `json:"state"`
	RecordCount      uint64    `json:"record_count"`
	AvgHumidity      float64   `json:"avg_humidity"`
	AvgTemperature   float64   `json:"avg_temperature"`
	MaxTemperature   float64   `json:"max_temperature"`
	MaxTemperatureAt time.Time `json:"max_temperature_at"`
	MinTemperature   float64   `json:"min_temperature"`
	MinTemperatureAt time.Time `json:"min_temperature_at"`
	LightningStrikes uint64    `json:"lightning_strikes"`
	SnowCoverRecords uint64    `json:"snow_cover_records"`
	AvgCloudCover    float64   `json:"avg_cloud_cover"`
	GeneratedAt      time.Time `json:"generated_at"`
}
