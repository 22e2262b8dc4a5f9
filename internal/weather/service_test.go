package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeGeocoder struct {
	name   string
	places map[string]Place
	err    error
	calls  int
}

func (g *fakeGeocoder) Name() string { return g.name }

func (g *fakeGeocoder) Resolve(_ context.Context, city string) (Place, error) {
	g.calls++
	if g.err != nil {
		return Place{}, g.err
	}
	place, ok := g.places[city]
	if !ok {
		return Place{}, ErrPlaceNotFound
	}
	return place, nil
}

type fakeForecast struct {
	series ForecastSeries
	err    error
	calls  int
}

func (f *fakeForecast) Fetch(context.Context, float64, float64) (ForecastSeries, error) {
	f.calls++
	if f.err != nil {
		return ForecastSeries{}, f.err
	}
	return f.series, nil
}

type mapCache struct {
	entries map[string]Report
}

func (c *mapCache) Get(key string) (Report, bool) {
	r, ok := c.entries[key]
	return r, ok
}

func (c *mapCache) Save(key string, r Report) {
	c.entries[key] = r
}

func testService(geo *fakeGeocoder, fc *fakeForecast, cache ReportCache) *Service {
	return NewService([]Geocoder{geo}, fc, cache)
}

func parisGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		name:   "fake",
		places: map[string]Place{"Paris": {Name: "Paris", Country: "France", Latitude: 48.85, Longitude: 2.35}},
	}
}

func TestCityWeatherUnknownCity(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := testService(parisGeocoder(), &fakeForecast{series: makeSeries(48, start, "2024-05-01T00:00")}, nil)

	_, err := svc.CityWeather(context.Background(), "Atlantis")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestCityWeatherBuildsReport(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := testService(parisGeocoder(), &fakeForecast{series: makeSeries(48, start, "2024-05-01T00:00")}, nil)

	report, err := svc.CityWeather(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.City != "Paris, France" {
		t.Errorf("unexpected city %q", report.City)
	}
}

func TestCityWeatherServesFromCache(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	geo := parisGeocoder()
	fc := &fakeForecast{series: makeSeries(48, start, "2024-05-01T00:00")}
	cache := &mapCache{entries: make(map[string]Report)}
	svc := testService(geo, fc, cache)

	if _, err := svc.CityWeather(context.Background(), "Paris"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if _, err := svc.CityWeather(context.Background(), " PARIS "); err != nil {
		t.Fatalf("second lookup: %v", err)
	}

	// The second lookup normalizes to the same key and must not touch the
	// providers again.
	if fc.calls != 1 {
		t.Errorf("expected 1 forecast fetch, got %d", fc.calls)
	}
	if geo.calls != 1 {
		t.Errorf("expected 1 geocoder call, got %d", geo.calls)
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fc := &fakeForecast{series: makeSeries(48, start, "2024-05-01T00:00")}
	cache := &mapCache{entries: make(map[string]Report)}
	svc := testService(parisGeocoder(), fc, cache)

	if _, err := svc.Refresh(context.Background(), "Paris"); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "Paris"); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if fc.calls != 2 {
		t.Errorf("expected 2 forecast fetches, got %d", fc.calls)
	}
}

func TestCityWeatherPropagatesProviderFault(t *testing.T) {
	providerErr := errors.New("upstream down")
	svc := testService(parisGeocoder(), &fakeForecast{err: providerErr}, nil)

	_, err := svc.CityWeather(context.Background(), "Paris")
	if !errors.Is(err, providerErr) {
		t.Fatalf("expected provider fault to propagate, got %v", err)
	}
}

func TestResolveFallsBackToNextGeocoder(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	broken := &fakeGeocoder{name: "broken", err: errors.New("quota exceeded")}
	working := parisGeocoder()
	svc := NewService([]Geocoder{broken, working}, &fakeForecast{series: makeSeries(48, start, "2024-05-01T00:00")}, nil)

	report, err := svc.CityWeather(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.City != "Paris, France" {
		t.Errorf("unexpected city %q", report.City)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Errorf("expected both geocoders tried once, got %d/%d", broken.calls, working.calls)
	}
}
