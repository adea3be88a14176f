// Package rockets provides agent tools for upcoming rocket launches:
// schedule lookup, launch-site weather forecasts, and a location-aware
// search that fuses launches, distance and forecast visibility.
package rockets

import (
	"github.com/astrocue/agentools/pkg/openweather"
	"github.com/astrocue/agentools/pkg/spacedevs"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
)

var logger = xlog.NewPackageLogger("github.com/astrocue/agentools", "rockets")

var validate = validator.New()

// Config wires the upstream clients for the rockets tools.
type Config struct {
	OpenWeather openweather.Config
	SpaceDevs   spacedevs.Config
}

// Clients bundles the upstream clients shared by the rockets tools.
type Clients struct {
	Weather  *openweather.Client
	Launches *spacedevs.Client
}

// NewClients constructs the upstream clients from one config.
func NewClients(cfg Config) (*Clients, error) {
	weather, err := openweather.NewClient(cfg.OpenWeather)
	if err != nil {
		return nil, err
	}
	return &Clients{
		Weather:  weather,
		Launches: spacedevs.NewClient(cfg.SpaceDevs),
	}, nil
}
