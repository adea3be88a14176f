package rockets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/astrocue/agentools/chatmodel"
	"github.com/astrocue/agentools/pkg/geo"
	"github.com/astrocue/agentools/pkg/llmutils"
	"github.com/astrocue/agentools/pkg/metricskey"
	"github.com/astrocue/agentools/pkg/openweather"
	"github.com/astrocue/agentools/pkg/schema"
	"github.com/astrocue/agentools/pkg/spacedevs"
	"github.com/astrocue/agentools/pkg/timeutil"
	"github.com/astrocue/agentools/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jonboulle/clockwork"
	mcp "github.com/metoro-io/mcp-golang"
)

const LaunchesNearToolName = "LaunchesNearLocation"

const displayDateLayout = "January 02, 2006"

// LaunchesNearRequest represents the tool input.
type LaunchesNearRequest struct {
	Location      string  `json:"Location" yaml:"Location" jsonschema:"title=Location,description=Place to search from; a city or site name like Cape Canaveral or New York." validate:"required"`
	MaxDistanceKM float64 `json:"MaxDistanceKM,omitempty" yaml:"MaxDistanceKM" jsonschema:"title=MaxDistanceKM,description=Maximum distance from the location in kilometers. Defaults to 1000." validate:"omitempty,min=0"`
	DaysAhead     int     `json:"DaysAhead,omitempty" yaml:"DaysAhead" jsonschema:"title=DaysAhead,description=Number of days to look ahead. Defaults to 7; ignored when SpecificDate is set." validate:"omitempty,min=1,max=60"`
	MaxResults    int     `json:"MaxResults,omitempty" yaml:"MaxResults" jsonschema:"title=MaxResults,description=Maximum number of launches to consider. Defaults to 10." validate:"omitempty,min=1,max=100"`
	SpecificDate  string  `json:"SpecificDate,omitempty" yaml:"SpecificDate" jsonschema:"title=SpecificDate,description=Optional date to filter to a single day; accepts forms like Nov 10 or 2025-11-10."`
}

// SearchParams echoes the effective search parameters in the result.
type SearchParams struct {
	MaxDistanceKM    float64 `json:"max_distance_km"`
	DaysAhead        int     `json:"days_ahead"`
	SpecificDate     string  `json:"specific_date,omitempty"`
	DateFilterActive bool    `json:"date_filter_active,omitempty"`
}

// NearbyLaunch is a launch within range, augmented with its distance from
// the resolved location and the visibility assessment for its day.
type NearbyLaunch struct {
	spacedevs.LaunchRecord

	DistanceKM      float64          `json:"distance_km"`
	WeatherForecast *WeatherSnapshot `json:"weather_forecast,omitempty"`
	Visibility      *Visibility      `json:"visibility,omitempty"`
}

// LaunchesNearReport is the success payload of the tool.
type LaunchesNearReport struct {
	Location      *openweather.GeoLocation `json:"location"`
	SearchParams  SearchParams             `json:"search_params"`
	LaunchesFound int                      `json:"launches_found"`
	Launches      []NearbyLaunch           `json:"launches"`

	// Weather carries the bare site forecast only when no launches
	// survived filtering; otherwise each launch has its own snapshot.
	Weather *openweather.ForecastReport `json:"weather,omitempty"`
	Message string                      `json:"message,omitempty"`
}

// LaunchesNearResult is the tool output: either an error with the echoed
// query, or the report.
type LaunchesNearResult struct {
	Error string `json:"error,omitempty" yaml:"Error" jsonschema:"title=error,description=Set when the location could not be resolved or the date could not be parsed."`
	Query string `json:"query,omitempty" yaml:"Query" jsonschema:"title=query,description=The original location text when an error is reported."`

	*LaunchesNearReport `yaml:",inline"`
}

func (r *LaunchesNearResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *LaunchesNearResult) String() string {
	if r.Error != "" {
		return "ERROR: " + r.Error
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "LOCATION: %s, %s (%0.4f, %0.4f)\n",
		r.Location.Name, r.Location.Country, r.Location.Latitude, r.Location.Longitude)
	fmt.Fprintf(&buf, "LAUNCHES FOUND: %d\n", r.LaunchesFound)
	for _, l := range r.Launches {
		fmt.Fprintf(&buf, "- %s (%.0f km away)\n", l.Name, l.DistanceKM)
		fmt.Fprintf(&buf, "  NET: %s\n", l.NET)
		if l.Visibility != nil {
			fmt.Fprintf(&buf, "  VISIBILITY: %s\n", l.Visibility.Status)
		}
	}
	if r.Message != "" {
		fmt.Fprintf(&buf, "%s\n", r.Message)
	}
	return buf.String()
}

// LaunchesNearTool answers "what launches are visible from this place, and
// will the weather cooperate": it geocodes the location, fetches launches
// and the site forecast, filters by date window and distance, and grades
// per-launch visibility from the forecast.
type LaunchesNearTool struct {
	name        string
	description string
	funcParams  any

	weather  *openweather.Client
	launches *spacedevs.Client
	clock    clockwork.Clock
}

var _ tools.Tool[LaunchesNearRequest, LaunchesNearResult] = (*LaunchesNearTool)(nil)

func NewLaunchesNearTool(clients *Clients) (*LaunchesNearTool, error) {
	sc, err := schema.New(reflect.TypeOf(LaunchesNearRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &LaunchesNearTool{
		name: LaunchesNearToolName,
		description: "Finds upcoming rocket launches near a location, sorted by distance, with a per-launch weather " +
			"forecast and a visibility verdict. Accepts an optional maximum distance, days ahead, or a specific date.",
		funcParams: sc.Parameters,
		weather:    clients.Weather,
		launches:   clients.Launches,
		clock:      clockwork.NewRealClock(),
	}, nil
}

// WithClock replaces the time source, used in tests.
func (t *LaunchesNearTool) WithClock(clock clockwork.Clock) *LaunchesNearTool {
	t.clock = clock
	return t
}

func (t *LaunchesNearTool) Name() string {
	return t.name
}

func (t *LaunchesNearTool) Description() string {
	return t.description
}

func (t *LaunchesNearTool) Parameters() any {
	return t.funcParams
}

func (t *LaunchesNearTool) Run(ctx context.Context, req *LaunchesNearRequest) (*LaunchesNearResult, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, t.name)

	res, err := t.run(ctx, req)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, t.name)
		return nil, err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, t.name)
	return res, nil
}

func (t *LaunchesNearTool) run(ctx context.Context, req *LaunchesNearRequest) (*LaunchesNearResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithStack(err)
	}

	maxDistance := req.MaxDistanceKM
	if maxDistance <= 0 {
		maxDistance = 1000
	}
	daysAhead := req.DaysAhead
	if daysAhead <= 0 {
		daysAhead = 7
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	// Stage 1: resolve the location.
	loc, err := t.weather.Geocode(ctx, req.Location)
	if err != nil {
		return &LaunchesNearResult{
			Error: "Location not found: " + req.Location,
			Query: req.Location,
		}, nil
	}

	// Stage 2: parse the specific date bounds, if requested.
	var dayStart, dayEnd time.Time
	dateActive := false
	if req.SpecificDate != "" {
		target, perr := t.parseSpecificDate(req.SpecificDate)
		if perr != nil {
			return &LaunchesNearResult{
				Error: fmt.Sprintf("Invalid date format: %s. Try \"Nov 10\" or \"2025-11-10\"", req.SpecificDate),
				Query: req.Location,
			}, nil
		}
		dateActive = true
		dayStart = time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd = dayStart.Add(24*time.Hour - time.Nanosecond)
	}

	// Stage 3: fetch the site forecast. A failed fetch degrades to an
	// absent forecast; visibility then reports Unknown.
	forecastDays := daysAhead
	if dateActive {
		// request the widest horizon to cover the target day
		forecastDays = 16
	}
	report, ferr := t.weather.Forecast(ctx, loc.Latitude, loc.Longitude, forecastDays)
	if ferr != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "forecast_failed",
			"location", req.Location,
			"err", ferr.Error())
		report = nil
	}
	if dateActive && report != nil {
		report.FilterDay(dayStart.Format("2006-01-02"), dayStart.Format(displayDateLayout))
	}

	params := SearchParams{
		MaxDistanceKM: maxDistance,
		DaysAhead:     daysAhead,
	}
	if dateActive {
		params.SpecificDate = dayStart.Format(displayDateLayout)
		params.DateFilterActive = true
	}

	// Stage 4: fetch confirmed launches.
	all := t.launches.ListLaunches(ctx, spacedevs.ListOptions{
		Status:     "Go",
		MaxResults: maxResults,
	})
	if len(all) == 0 {
		return &LaunchesNearResult{
			LaunchesNearReport: &LaunchesNearReport{
				Location:     loc,
				SearchParams: params,
				Launches:     []NearbyLaunch{},
				Weather:      report,
				Message:      "No upcoming launches found",
			},
		}, nil
	}

	// Stage 5: filter by date window and distance.
	windowStart := t.clock.Now().UTC()
	windowEnd := windowStart.AddDate(0, 0, daysAhead)
	if dateActive {
		windowStart, windowEnd = dayStart, dayEnd
	}

	nearby := make([]NearbyLaunch, 0, len(all))
	for _, launch := range all {
		net, perr := timeutil.ParseISO(launch.NETRaw)
		if perr != nil {
			continue
		}
		if net.Before(windowStart) || net.After(windowEnd) {
			continue
		}

		lat, latErr := strconv.ParseFloat(launch.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(launch.Longitude, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		distance := geo.DistanceKM(loc.Latitude, loc.Longitude, lat, lon)
		if distance > maxDistance {
			continue
		}
		nearby = append(nearby, NearbyLaunch{
			LaunchRecord: launch,
			DistanceKM:   math.Round(distance*100) / 100,
		})
	}

	// Stage 6: closest first.
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKM < nearby[j].DistanceKM
	})

	// Stage 7: grade visibility against the matching forecast day.
	for i := range nearby {
		t.attachVisibility(&nearby[i], report)
	}

	result := &LaunchesNearResult{
		LaunchesNearReport: &LaunchesNearReport{
			Location:      loc,
			SearchParams:  params,
			LaunchesFound: len(nearby),
			Launches:      nearby,
		},
	}
	if len(nearby) == 0 {
		result.Weather = report
	}
	return result, nil
}

// parseSpecificDate accepts free-form dates. Year-less inputs like "Nov 10"
// parse to year zero and get the current year. A date that lands in the
// current year but has already passed rolls forward one year, treating the
// input as "the next occurrence".
func (t *LaunchesNearTool) parseSpecificDate(input string) (time.Time, error) {
	target, err := dateparse.ParseAny(input)
	if err != nil {
		return time.Time{}, errors.WithMessagef(chatmodel.ErrInvalidDate, "%s", input)
	}
	now := t.clock.Now()
	if target.Year() == 0 {
		target = target.AddDate(now.Year(), 0, 0)
	}
	if target.Year() == now.Year() && target.Before(now) {
		target = target.AddDate(1, 0, 0)
	}
	return target.UTC(), nil
}

func (t *LaunchesNearTool) attachVisibility(launch *NearbyLaunch, report *openweather.ForecastReport) {
	net, err := timeutil.ParseISO(launch.NETRaw)
	if err != nil {
		v := unknownVisibility("Error checking weather: " + err.Error())
		launch.Visibility = &v
		return
	}

	launchDay := net.Format("2006-01-02")
	var match *openweather.DailyForecast
	if report != nil {
		for i := range report.Forecasts {
			if report.Forecasts[i].Day() == launchDay {
				match = &report.Forecasts[i]
				break
			}
		}
	}
	if match == nil {
		v := unknownVisibility("No weather forecast available for launch date")
		launch.Visibility = &v
		return
	}

	v := assessVisibility(match)
	launch.Visibility = &v
	launch.WeatherForecast = snapshotOf(match)
}

func (t *LaunchesNearTool) Call(ctx context.Context, input string) (string, error) {
	var req LaunchesNearRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

func (t *LaunchesNearTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *LaunchesNearTool) RunMCP(ctx context.Context, req *LaunchesNearRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(res.GetContent())), nil
}
