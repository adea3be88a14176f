// Package openweather provides geocoding and multi-day forecast clients for
// the OpenWeatherMap API.
package openweather

import (
	"context"
	"net/url"
	"os"
	"strconv"

	"github.com/astrocue/agentools/pkg/httpfetch"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/astrocue/agentools", "openweather")

var (
	// ErrLocationNotFound is returned when a free-text location resolves to
	// no geocoding match, or the geocoding request could not be completed.
	ErrLocationNotFound = errors.New("location not found")

	// ErrNoForecast is returned when the forecast upstream yields no samples.
	ErrNoForecast = errors.New("no weather data available")
)

const (
	// DefaultBaseURL is the OpenWeatherMap API root.
	DefaultBaseURL = "https://api.openweathermap.org"

	// EnvAPIKey is consulted when Config.APIKey is empty.
	EnvAPIKey = "OWM_API_KEY"
)

// Config holds the OpenWeatherMap access configuration. The API key is
// always supplied by the caller (directly or via OWM_API_KEY), never
// embedded in code.
type Config struct {
	APIKey  string
	BaseURL string
	Fetch   httpfetch.Config
}

// Client calls the OpenWeatherMap geocoding and forecast endpoints.
type Client struct {
	cfg   Config
	fetch *httpfetch.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKey)
	}
	if cfg.APIKey == "" {
		return nil, errors.Errorf("%s is not set", EnvAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:   cfg,
		fetch: httpfetch.New(cfg.Fetch),
	}, nil
}

// WithFetcher replaces the underlying fetch client, used in tests.
func (c *Client) WithFetcher(fetch *httpfetch.Client) *Client {
	c.fetch = fetch
	return c
}

// GeoLocation is a resolved place.
type GeoLocation struct {
	Name          string  `json:"name"`
	LocalizedName string  `json:"local_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Country       string  `json:"country"`
	State         string  `json:"state"`
}

type geocodeMatch struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

// Geocode resolves a free-text location to coordinates using the single
// best geocoding match. Fetch failures and empty result sets both resolve
// to ErrLocationNotFound.
func (c *Client) Geocode(ctx context.Context, location string) (*GeoLocation, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("limit", "1")
	q.Set("appid", c.cfg.APIKey)

	var matches []geocodeMatch
	if err := c.fetch.FetchJSON(ctx, httpfetch.BuildURL(c.cfg.BaseURL, "/geo/1.0/direct", q), &matches); err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "geocode_failed", "location", location, "err", err.Error())
		return nil, errors.WithMessagef(ErrLocationNotFound, "%s", location)
	}
	if len(matches) == 0 {
		return nil, errors.WithMessagef(ErrLocationNotFound, "%s", location)
	}

	m := matches[0]
	loc := &GeoLocation{
		Name:          m.Name,
		LocalizedName: m.Name,
		Latitude:      m.Lat,
		Longitude:     m.Lon,
		Country:       m.Country,
		State:         m.State,
	}
	if en := m.LocalNames["en"]; en != "" {
		loc.LocalizedName = en
	}
	if loc.State == "" {
		loc.State = "N/A"
	}
	return loc, nil
}

func (c *Client) forecastURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("lat", formatCoord(lat))
	q.Set("lon", formatCoord(lon))
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "metric")
	return httpfetch.BuildURL(c.cfg.BaseURL, "/data/2.5/forecast", q)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sample is one 3-hour forecast entry in the upstream payload.
type sample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Snow struct {
		ThreeHour float64 `json:"3h"`
	} `json:"snow"`
}

type forecastResponse struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []sample `json:"list"`
}

// Forecast fetches the 3-hour-interval forecast for the coordinates and
// aggregates it into at most days daily summaries, sorted ascending by
// date. The free tier caps actual coverage near 5 days regardless of the
// requested horizon.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastReport, error) {
	var resp forecastResponse
	if err := c.fetch.FetchJSON(ctx, c.forecastURL(lat, lon), &resp); err != nil {
		return nil, errors.WithMessage(err, "failed to fetch weather data")
	}
	if len(resp.List) == 0 {
		return nil, errors.WithStack(ErrNoForecast)
	}

	report := &ForecastReport{
		Location: ForecastLocation{
			Latitude:  lat,
			Longitude: lon,
			City:      resp.City.Name,
			Country:   resp.City.Country,
		},
		Forecasts: aggregateDaily(resp.List, days),
	}
	report.DaysCount = len(report.Forecasts)
	return report, nil
}
