package weather

import "fmt"

// Place is a geocoded location resolved from a free-text city name.
type Place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HourlySeries holds the hourly forecast arrays. All slices are index-aligned:
// index i across every field refers to the same timestamp.
type HourlySeries struct {
	Time          []string
	Temperature   []float64
	Precipitation []float64
	Pressure      []float64
	Humidity      []float64
	CloudCover    []float64
	WindSpeed     []float64
	WindDirection []float64
}

// DailySeries holds per-day min/max temperatures, index 0 being today.
type DailySeries struct {
	Date    []string
	TempMin []float64
	TempMax []float64
}

// CurrentWeather is the provider's own current-conditions snapshot. Its
// timestamp anchors "now" for alignment, not the server clock.
type CurrentWeather struct {
	Time        string
	Temperature float64
}

// ForecastSeries is the raw forecast payload for one location.
type ForecastSeries struct {
	Hourly  HourlySeries
	Daily   DailySeries
	Current CurrentWeather
}

// Validate checks the provider contract the alignment engine relies on:
// every hourly array has the same length as the timestamp array, at least one
// hourly sample exists, and the daily series covers today and tomorrow.
// A violation is a provider fault, not recoverable input.
func (s ForecastSeries) Validate() error {
	n := len(s.Hourly.Time)
	if n == 0 {
		return fmt.Errorf("%w: empty hourly series", ErrBadSeries)
	}
	for name, l := range map[string]int{
		"temperature_2m":      len(s.Hourly.Temperature),
		"precipitation":       len(s.Hourly.Precipitation),
		"pressure_msl":        len(s.Hourly.Pressure),
		"relativehumidity_2m": len(s.Hourly.Humidity),
		"cloudcover":          len(s.Hourly.CloudCover),
		"windspeed_10m":       len(s.Hourly.WindSpeed),
		"winddirection_10m":   len(s.Hourly.WindDirection),
	} {
		if l != n {
			return fmt.Errorf("%w: hourly %s has %d entries, want %d", ErrBadSeries, name, l, n)
		}
	}
	if len(s.Daily.TempMin) < 2 || len(s.Daily.TempMax) < 2 {
		return fmt.Errorf("%w: daily series shorter than 2 days", ErrBadSeries)
	}
	if s.Current.Time == "" {
		return fmt.Errorf("%w: missing current_weather time", ErrBadSeries)
	}
	return nil
}

// Report is the client-facing weather view: current conditions, tomorrow's
// range, and three index-aligned forward sequences for the next 24 hours.
type Report struct {
	City string `json:"city"`

	CurrentTemp          float64 `json:"current_temp"`
	CurrentRain          float64 `json:"current_rain"`
	CurrentPressure      float64 `json:"current_pressure"`
	CurrentHumidity      float64 `json:"current_humidity"`
	CurrentCloud         float64 `json:"current_cloud"`
	CurrentWindSpeed     float64 `json:"current_wind_speed"`
	CurrentWindDirection float64 `json:"current_wind_direction"`

	TomorrowMin float64 `json:"tomorrow_min"`
	TomorrowMax float64 `json:"tomorrow_max"`

	HourLabels []string  `json:"hour_labels"`
	HourTemps  []float64 `json:"hour_temps"`
	HourRain   []float64 `json:"hour_rain"`
}
