package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichka/skycast/internal/weather"
)

func TestOpenMeteoGeocoderResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Paris" {
			t.Errorf("unexpected name query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"name":"Paris","country":"France","latitude":48.85,"longitude":2.35}]}`))
	}))
	defer srv.Close()

	g := NewOpenMeteoGeocoder(srv.Client())
	g.baseURL = srv.URL

	place, err := g.Resolve(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Name != "Paris" || place.Country != "France" {
		t.Errorf("unexpected place %+v", place)
	}
	if place.Latitude != 48.85 || place.Longitude != 2.35 {
		t.Errorf("unexpected coordinates %+v", place)
	}
}

func TestOpenMeteoGeocoderMiss(t *testing.T) {
	// Open-Meteo omits the results key entirely for unknown places.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	g := NewOpenMeteoGeocoder(srv.Client())
	g.baseURL = srv.URL

	_, err := g.Resolve(context.Background(), "Atlantis")
	if !errors.Is(err, weather.ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestOpenMeteoForecastFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("current_weather") != "true" || q.Get("timezone") != "auto" {
			t.Errorf("missing expected query parameters: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hourly": {
				"time": ["2024-05-01T00:00","2024-05-01T01:00"],
				"temperature_2m": [10,11],
				"precipitation": [0,0.2],
				"pressure_msl": [1013,1012],
				"relativehumidity_2m": [60,62],
				"cloudcover": [40,45],
				"windspeed_10m": [12,14],
				"winddirection_10m": [180,190]
			},
			"daily": {
				"time": ["2024-05-01","2024-05-02"],
				"temperature_2m_max": [17,19],
				"temperature_2m_min": [9,10]
			},
			"current_weather": {"temperature": 10.5, "time": "2024-05-01T00:00"}
		}`))
	}))
	defer srv.Close()

	f := NewOpenMeteoForecast(srv.Client())
	f.baseURL = srv.URL

	series, err := f.Fetch(context.Background(), 48.85, 2.35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Hourly.Time) != 2 {
		t.Fatalf("expected 2 hourly samples, got %d", len(series.Hourly.Time))
	}
	if series.Current.Temperature != 10.5 {
		t.Errorf("unexpected current temperature %v", series.Current.Temperature)
	}
	if series.Daily.TempMin[1] != 10 {
		t.Errorf("unexpected tomorrow min %v", series.Daily.TempMin[1])
	}
}

func TestOpenMeteoForecastRejectsMisalignedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hourly": {
				"time": ["2024-05-01T00:00","2024-05-01T01:00"],
				"temperature_2m": [10],
				"precipitation": [0,0.2],
				"pressure_msl": [1013,1012],
				"relativehumidity_2m": [60,62],
				"cloudcover": [40,45],
				"windspeed_10m": [12,14],
				"winddirection_10m": [180,190]
			},
			"daily": {
				"time": ["2024-05-01","2024-05-02"],
				"temperature_2m_max": [17,19],
				"temperature_2m_min": [9,10]
			},
			"current_weather": {"temperature": 10.5, "time": "2024-05-01T00:00"}
		}`))
	}))
	defer srv.Close()

	f := NewOpenMeteoForecast(srv.Client())
	f.baseURL = srv.URL

	_, err := f.Fetch(context.Background(), 48.85, 2.35)
	if !errors.Is(err, weather.ErrBadSeries) {
		t.Fatalf("expected ErrBadSeries, got %v", err)
	}
}

func TestDoRequestSurfacesServerErrorWithoutRetrying(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewOpenMeteoGeocoder(srv.Client())
	g.baseURL = srv.URL

	_, err := g.Resolve(context.Background(), "Paris")
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
