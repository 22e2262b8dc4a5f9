package weather

import (
	"context"
	"errors"
)

var (
	// ErrPlaceNotFound is returned by a Geocoder when no location matches
	// the requested name.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrCityNotFound is the service-level miss surfaced to HTTP handlers.
	ErrCityNotFound = errors.New("city not found")

	// ErrBadSeries marks a forecast payload that violates the provider
	// contract (mismatched array lengths, missing daily coverage).
	ErrBadSeries = errors.New("malformed forecast series")
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Name() string
	Resolve(ctx context.Context, city string) (Place, error)
}

// ForecastClient fetches the raw forecast series for coordinates.
type ForecastClient interface {
	Fetch(ctx context.Context, lat, lon float64) (ForecastSeries, error)
}

// ReportCache is the contract for the in-memory report store. A nil cache is
// valid; the service then fetches on every request.
type ReportCache interface {
	Get(key string) (Report, bool)
	Save(key string, report Report)
}
