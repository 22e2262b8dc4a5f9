package weather

import (
	"fmt"
	"strings"
	"time"
)

// forwardWindowHours is the length of the forward forecast slice.
const forwardWindowHours = 24

// hourlyTimeLayout matches Open-Meteo timestamps under timezone=auto, which
// carry no zone suffix ("2024-05-01T13:00").
const hourlyTimeLayout = "2006-01-02T15:04"

// parseSeriesTime parses a forecast timestamp. Timestamps within one series
// share a timezone, so comparing the zoneless instants is sound.
func parseSeriesTime(s string) (time.Time, error) {
	if ts, err := time.Parse(hourlyTimeLayout, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse forecast time %q: %w", s, err)
	}
	return ts, nil
}

// nearestHourIndex returns the index of the hourly timestamp closest to now.
// The scan runs in ascending time order and only replaces the best match on
// strict improvement, so ties resolve to the earlier sample.
func nearestHourIndex(times []string, now time.Time) (int, error) {
	best := -1
	var bestDiff time.Duration
	for i, raw := range times {
		ts, err := parseSeriesTime(raw)
		if err != nil {
			return 0, err
		}
		diff := now.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: empty hourly series", ErrBadSeries)
	}
	return best, nil
}

// hourLabel reduces a forecast timestamp to its clock-time portion for chart
// axis labels ("2024-05-01T13:00" -> "13:00").
func hourLabel(raw string) string {
	if _, after, ok := strings.Cut(raw, "T"); ok {
		return after
	}
	return raw
}

// BuildReport aligns a forecast series on the provider's current-weather
// timestamp and extracts current conditions plus the forward window.
//
// "Now" is always the provider's stamped current_weather time, never the
// server clock, so client/server skew cannot shift the aligned index. The
// aligned index reads every hourly field uniformly and starts the forward
// window [idx, idx+24), clipped when fewer samples remain. A short final
// window is valid output. Tomorrow is daily index 1, guaranteed present by
// the forecast client's contract.
func BuildReport(place Place, series ForecastSeries) (Report, error) {
	now, err := parseSeriesTime(series.Current.Time)
	if err != nil {
		return Report{}, err
	}

	idx, err := nearestHourIndex(series.Hourly.Time, now)
	if err != nil {
		return Report{}, err
	}

	end := idx + forwardWindowHours
	if end > len(series.Hourly.Time) {
		end = len(series.Hourly.Time)
	}

	labels := make([]string, 0, end-idx)
	for _, raw := range series.Hourly.Time[idx:end] {
		labels = append(labels, hourLabel(raw))
	}

	return Report{
		City: place.Name + ", " + place.Country,

		CurrentTemp:          series.Current.Temperature,
		CurrentRain:          series.Hourly.Precipitation[idx],
		CurrentPressure:      series.Hourly.Pressure[idx],
		CurrentHumidity:      series.Hourly.Humidity[idx],
		CurrentCloud:         series.Hourly.CloudCover[idx],
		CurrentWindSpeed:     series.Hourly.WindSpeed[idx],
		CurrentWindDirection: series.Hourly.WindDirection[idx],

		TomorrowMin: series.Daily.TempMin[1],
		TomorrowMax: series.Daily.TempMax[1],

		HourLabels: labels,
		HourTemps:  series.Hourly.Temperature[idx:end],
		HourRain:   series.Hourly.Precipitation[idx:end],
	}, nil
}
