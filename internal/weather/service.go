package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Service orchestrates geocoding, forecast fetching, and series alignment
// into client-facing reports, with an optional read-through cache.
type Service struct {
	geocoders []Geocoder
	forecasts ForecastClient
	cache     ReportCache
}

// NewService creates a Service. Geocoders are tried in order; cache may be nil.
func NewService(geocoders []Geocoder, forecasts ForecastClient, cache ReportCache) *Service {
	return &Service{
		geocoders: geocoders,
		forecasts: forecasts,
		cache:     cache,
	}
}

// CityWeather returns the weather report for a free-text city name, serving
// from cache when a fresh report exists.
func (s *Service) CityWeather(ctx context.Context, city string) (Report, error) {
	key := cacheKey(city)
	if s.cache != nil {
		if report, ok := s.cache.Get(key); ok {
			return report, nil
		}
	}
	return s.Refresh(ctx, city)
}

// Refresh builds a fresh report for the city, bypassing any cached entry,
// and stores the result. The cache warm job uses it directly.
func (s *Service) Refresh(ctx context.Context, city string) (Report, error) {
	place, err := s.resolve(ctx, city)
	if err != nil {
		return Report{}, err
	}

	series, err := s.forecasts.Fetch(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return Report{}, fmt.Errorf("fetch forecast for %s: %w", place.Name, err)
	}

	report, err := BuildReport(place, series)
	if err != nil {
		return Report{}, err
	}

	if s.cache != nil {
		s.cache.Save(cacheKey(city), report)
	}
	return report, nil
}

// resolve runs the geocoder chain in order and returns the first hit.
// A miss from every resolver is ErrCityNotFound; a provider fault from the
// last resolver propagates as-is. No resolver call is retried.
func (s *Service) resolve(ctx context.Context, city string) (Place, error) {
	if len(s.geocoders) == 0 {
		return Place{}, errors.New("no geocoders configured")
	}

	var lastErr error
	for _, g := range s.geocoders {
		place, err := g.Resolve(ctx, city)
		if err == nil {
			return place, nil
		}
		if !errors.Is(err, ErrPlaceNotFound) {
			log.Printf("geocoder %s failed for %q: %v", g.Name(), city, err)
		}
		lastErr = err
	}

	if errors.Is(lastErr, ErrPlaceNotFound) {
		return Place{}, ErrCityNotFound
	}
	return Place{}, lastErr
}

// cacheKey normalizes a city name for cache indexing.
func cacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
