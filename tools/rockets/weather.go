package rockets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/astrocue/agentools/chatmodel"
	"github.com/astrocue/agentools/pkg/llmutils"
	"github.com/astrocue/agentools/pkg/openweather"
	"github.com/astrocue/agentools/pkg/schema"
	"github.com/astrocue/agentools/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

const LaunchWeatherToolName = "LaunchSiteWeather"

// LaunchWeatherRequest represents the tool input.
type LaunchWeatherRequest struct {
	Latitude  float64 `json:"Latitude" yaml:"Latitude" jsonschema:"title=Latitude,description=Latitude of the site in decimal degrees." validate:"min=-90,max=90"`
	Longitude float64 `json:"Longitude" yaml:"Longitude" jsonschema:"title=Longitude,description=Longitude of the site in decimal degrees." validate:"min=-180,max=180"`
	Days      int     `json:"Days,omitempty" yaml:"Days" jsonschema:"title=Days,description=Number of days to forecast. Defaults to 7; the free forecast tier covers about 5 days." validate:"omitempty,min=1,max=16"`
}

// LaunchWeatherResult is the daily forecast for the site, or a structured
// error when the forecast could not be obtained.
type LaunchWeatherResult struct {
	Error     string  `json:"error,omitempty" yaml:"Error" jsonschema:"title=error,description=Set when no forecast could be fetched."`
	Latitude  float64 `json:"latitude" yaml:"Latitude" jsonschema:"title=latitude"`
	Longitude float64 `json:"longitude" yaml:"Longitude" jsonschema:"title=longitude"`

	*openweather.ForecastReport `yaml:",inline"`
}

func (r *LaunchWeatherResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *LaunchWeatherResult) String() string {
	if r.Error != "" {
		return "ERROR: " + r.Error
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "FORECAST for %s, %s (%d days)\n", r.Location.City, r.Location.Country, r.DaysCount)
	for _, f := range r.Forecasts {
		fmt.Fprintf(&buf, "- %s: %s, %.1f..%.1fC, clouds %d%%, rain %.1fmm\n",
			f.Day(), f.Weather.Description, f.Temperature.Min, f.Temperature.Max, f.Clouds, f.Precipitation)
	}
	return buf.String()
}

// LaunchWeatherTool fetches a multi-day forecast for coordinates, grouped
// into daily summaries.
type LaunchWeatherTool struct {
	name        string
	description string
	funcParams  any

	client *openweather.Client
}

var _ tools.Tool[LaunchWeatherRequest, LaunchWeatherResult] = (*LaunchWeatherTool)(nil)

func NewLaunchWeatherTool(client *openweather.Client) (*LaunchWeatherTool, error) {
	sc, err := schema.New(reflect.TypeOf(LaunchWeatherRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &LaunchWeatherTool{
		name: LaunchWeatherToolName,
		description: "Gets a multi-day weather forecast for a latitude and longitude, aggregated into daily summaries " +
			"with temperature ranges, cloud cover, humidity, wind and precipitation.",
		funcParams: sc.Parameters,
		client:     client,
	}, nil
}

func (t *LaunchWeatherTool) Name() string {
	return t.name
}

func (t *LaunchWeatherTool) Description() string {
	return t.description
}

func (t *LaunchWeatherTool) Parameters() any {
	return t.funcParams
}

func (t *LaunchWeatherTool) Run(ctx context.Context, req *LaunchWeatherRequest) (*LaunchWeatherResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithStack(err)
	}

	days := req.Days
	if days <= 0 {
		days = 7
	}

	report, err := t.client.Forecast(ctx, req.Latitude, req.Longitude, days)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "forecast_failed",
			"lat", req.Latitude,
			"lon", req.Longitude,
			"err", err.Error())
		return &LaunchWeatherResult{
			Error:     "Failed to fetch weather data: " + err.Error(),
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}, nil
	}

	return &LaunchWeatherResult{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ForecastReport: report,
	}, nil
}

func (t *LaunchWeatherTool) Call(ctx context.Context, input string) (string, error) {
	var req LaunchWeatherRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

func (t *LaunchWeatherTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *LaunchWeatherTool) RunMCP(ctx context.Context, req *LaunchWeatherRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
