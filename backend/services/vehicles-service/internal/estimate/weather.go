package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultWeatherURL is the OpenWeatherMap current weather endpoint.
const DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// Bucharest coordinates, used when none are configured.
const (
	DefaultLatitude  = 44.4268
	DefaultLongitude = 26.1025
)

// ErrNoTemperature is returned when the weather response carries no temperature.
var ErrNoTemperature = errors.New("estimate: weather response has no temperature")

// TemperatureSource reports the current outside temperature in °C.
type TemperatureSource interface {
	CurrentTemperature(ctx context.Context) (float64, error)
}

// WeatherClient reads the current temperature from OpenWeatherMap. Readings are
// reused for ttl.
type WeatherClient struct {
	endpoint   string
	apiKey     string
	lat, lon   float64
	ttl        time.Duration
	httpClient *http.Client
	now        func() time.Time

	mu      sync.Mutex
	cached  float64
	fetched time.Time
}

// WeatherOptions configures NewWeatherClient. Zero values use the defaults.
type WeatherOptions struct {
	URL       string
	APIKey    string
	Latitude  float64
	Longitude float64
	TTL       time.Duration
	Timeout   time.Duration
}

// NewWeatherClient builds a client.
func NewWeatherClient(opts WeatherOptions) *WeatherClient {
	c := &WeatherClient{
		endpoint: opts.URL,
		apiKey:   opts.APIKey,
		lat:      opts.Latitude,
		lon:      opts.Longitude,
		ttl:      opts.TTL,
		now:      time.Now,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultWeatherURL
	}
	if c.lat == 0 && c.lon == 0 {
		c.lat, c.lon = DefaultLatitude, DefaultLongitude
	}
	if c.ttl <= 0 {
		c.ttl = time.Minute
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c.httpClient = &http.Client{Timeout: timeout}
	return c
}

type weatherResponse struct {
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

// CurrentTemperature implements TemperatureSource. The value is rounded to whole degrees.
func (c *WeatherClient) CurrentTemperature(ctx context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fetched.IsZero() && c.now().Sub(c.fetched) < c.ttl {
		return c.cached, nil
	}

	temp, err := c.fetch(ctx)
	if err != nil {
		return 0, err
	}
	c.cached, c.fetched = temp, c.now()
	return temp, nil
}

func (c *WeatherClient) fetch(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("estimate: weather status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	var out weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("estimate: decode weather: %w", err)
	}
	if out.Main == nil || out.Main.Temp == nil {
		return 0, ErrNoTemperature
	}
	return math.Round(*out.Main.Temp), nil
}
