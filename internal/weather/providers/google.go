package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/avelichka/skycast/internal/weather"
)

// geocoderMu guards the package-level API key the kelvins/geocoder library
// keeps as global state.
var geocoderMu sync.Mutex

// GoogleGeocoder implements weather.Geocoder against the Google Geocoding API
// via kelvins/geocoder. It serves as a fallback resolver when Open-Meteo
// geocoding is unavailable and requires an API key.
type GoogleGeocoder struct {
	name   string
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:   "google-geocoding",
		apiKey: apiKey,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Resolve geocodes the city name. Google does not echo a canonical country
// back through this library's forward call, so the place carries the country
// from a reverse lookup when one succeeds and stays empty otherwise.
func (g *GoogleGeocoder) Resolve(ctx context.Context, city string) (weather.Place, error) {
	if err := ctx.Err(); err != nil {
		return weather.Place{}, err
	}

	geocoderMu.Lock()
	defer geocoderMu.Unlock()
	geocoder.ApiKey = g.apiKey

	location, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return weather.Place{}, fmt.Errorf("google geocoding %q: %w", city, err)
	}
	if location.Latitude == 0 && location.Longitude == 0 {
		return weather.Place{}, weather.ErrPlaceNotFound
	}

	place := weather.Place{
		Name:      city,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	}

	if addresses, err := geocoder.GeocodingReverse(location); err == nil && len(addresses) > 0 {
		place.Country = addresses[0].Country
	}

	return place, nil
}
