package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/avelichka/skycast/internal/weather"
)

const (
	openMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	openMeteoForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// OpenMeteoGeocoder implements weather.Geocoder using the Open-Meteo
// geocoding API. It requires no API key.
type OpenMeteoGeocoder struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(client *http.Client) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		name:    "openmeteo-geocoding",
		baseURL: openMeteoGeocodingURL,
		client:  client,
		circuit: newBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

// Resolve returns the best match for a free-text city name. An empty results
// array means the place does not exist, not a provider fault.
func (g *OpenMeteoGeocoder) Resolve(ctx context.Context, city string) (weather.Place, error) {
	values := url.Values{}
	values.Set("name", city)
	values.Set("count", "1")

	req, err := http.NewRequest(http.MethodGet, g.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return weather.Place{}, err
	}

	resp, err := doRequest(ctx, g.client, g.circuit, req)
	if err != nil {
		return weather.Place{}, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Place{}, fmt.Errorf("decode geocoding response: %w", err)
	}

	if len(payload.Results) == 0 {
		return weather.Place{}, weather.ErrPlaceNotFound
	}

	r := payload.Results[0]
	return weather.Place{
		Name:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}, nil
}

// OpenMeteoForecast implements weather.ForecastClient using the Open-Meteo
// forecast API.
type OpenMeteoForecast struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoForecast(client *http.Client) *OpenMeteoForecast {
	return &OpenMeteoForecast{
		baseURL: openMeteoForecastURL,
		client:  client,
		circuit: newBreaker("openmeteo-forecast"),
	}
}

// Fetch requests the hourly and daily series plus the current-weather
// snapshot and validates the series contract before handing it on.
func (f *OpenMeteoForecast) Fetch(ctx context.Context, lat, lon float64) (weather.ForecastSeries, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("hourly", "temperature_2m,precipitation,pressure_msl,relativehumidity_2m,cloudcover,windspeed_10m,winddirection_10m")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("current_weather", "true")
	values.Set("timezone", "auto")

	req, err := http.NewRequest(http.MethodGet, f.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return weather.ForecastSeries{}, err
	}

	resp, err := doRequest(ctx, f.client, f.circuit, req)
	if err != nil {
		return weather.ForecastSeries{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time          []string  `json:"time"`
			Temperature   []float64 `json:"temperature_2m"`
			Precipitation []float64 `json:"precipitation"`
			Pressure      []float64 `json:"pressure_msl"`
			Humidity      []float64 `json:"relativehumidity_2m"`
			CloudCover    []float64 `json:"cloudcover"`
			WindSpeed     []float64 `json:"windspeed_10m"`
			WindDirection []float64 `json:"winddirection_10m"`
		} `json:"hourly"`
		Daily struct {
			Time    []string  `json:"time"`
			TempMax []float64 `json:"temperature_2m_max"`
			TempMin []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastSeries{}, fmt.Errorf("decode forecast response: %w", err)
	}

	series := weather.ForecastSeries{
		Hourly: weather.HourlySeries{
			Time:          payload.Hourly.Time,
			Temperature:   payload.Hourly.Temperature,
			Precipitation: payload.Hourly.Precipitation,
			Pressure:      payload.Hourly.Pressure,
			Humidity:      payload.Hourly.Humidity,
			CloudCover:    payload.Hourly.CloudCover,
			WindSpeed:     payload.Hourly.WindSpeed,
			WindDirection: payload.Hourly.WindDirection,
		},
		Daily: weather.DailySeries{
			Date:    payload.Daily.Time,
			TempMin: payload.Daily.TempMin,
			TempMax: payload.Daily.TempMax,
		},
		Current: weather.CurrentWeather{
			Time:        payload.CurrentWeather.Time,
			Temperature: payload.CurrentWeather.Temperature,
		},
	}

	if err := series.Validate(); err != nil {
		return weather.ForecastSeries{}, err
	}
	return series, nil
}
