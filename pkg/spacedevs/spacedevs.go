// Package spacedevs provides a client for The Space Devs Launch Library,
// listing upcoming rocket launches.
package spacedevs

import (
	"context"
	"strings"

	"github.com/astrocue/agentools/pkg/httpfetch"
	"github.com/astrocue/agentools/pkg/timeutil"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/astrocue/agentools", "spacedevs")

// DefaultBaseURL is the Launch Library 2 API root.
const DefaultBaseURL = "https://ll.thespacedevs.com/2.2.0"

// Config holds the Launch Library access configuration. The API requires
// no key; only the base URL and retry policy are tunable.
type Config struct {
	BaseURL string
	Fetch   httpfetch.Config
}

// Client calls the Launch Library upcoming-launches endpoint.
type Client struct {
	cfg   Config
	fetch *httpfetch.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:   cfg,
		fetch: httpfetch.New(cfg.Fetch),
	}
}

// WithFetcher replaces the underlying fetch client, used in tests.
func (c *Client) WithFetcher(fetch *httpfetch.Client) *Client {
	c.fetch = fetch
	return c
}

// LaunchRecord is one upcoming launch with display and machine-parseable
// timestamps. NET ("No Earlier Than") is the earliest official estimate.
type LaunchRecord struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Status            string `json:"status"`
	StatusAbbrev      string `json:"status_abbrev"`
	StatusDescription string `json:"status_description"`

	// Formatted timestamps for display, with the raw ISO-8601 values kept
	// alongside for arithmetic.
	NET            string `json:"net"`
	NETRaw         string `json:"net_raw"`
	WindowStart    string `json:"window_start"`
	WindowStartRaw string `json:"window_start_raw"`
	WindowEnd      string `json:"window_end"`
	WindowEndRaw   string `json:"window_end_raw"`

	Probability  *int   `json:"probability"`
	Provider     string `json:"launch_service_provider"`
	ProviderType string `json:"provider_type"`
	Rocket       string `json:"rocket"`

	MissionName        string `json:"mission_name"`
	MissionDescription string `json:"mission_description"`
	MissionType        string `json:"mission_type"`
	Orbit              string `json:"orbit"`

	PadName     string `json:"pad_name"`
	Location    string `json:"location"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	CountryCode string `json:"country_code"`

	Image       string `json:"image"`
	WebcastLive bool   `json:"webcast_live"`
	URL         string `json:"url"`
}

// LaunchSummary is the reduced field set returned by ListUpcoming.
type LaunchSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	StatusAbbrev string `json:"status_abbrev"`
	NET          string `json:"net"`
	NETRaw       string `json:"net_raw"`
	Provider     string `json:"launch_service_provider"`
	Rocket       string `json:"rocket"`
	Location     string `json:"location"`
}

// ListOptions filters the upcoming-launches collection.
type ListOptions struct {
	// Status keeps launches whose status name contains the value,
	// case-insensitively. Empty disables the filter.
	Status string
	// Provider applies the same substring semantics to the provider name.
	Provider string
	// MaxResults caps accumulation; upstream order decides which matches
	// are kept. Defaults to 10.
	MaxResults int
}

type upstreamLaunch struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	Status struct {
		Name        string `json:"name"`
		Abbrev      string `json:"abbrev"`
		Description string `json:"description"`
	} `json:"status"`
	NET         string `json:"net"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Probability *int   `json:"probability"`
	Provider    struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"launch_service_provider"`
	Rocket struct {
		Configuration struct {
			Name     string `json:"name"`
			FullName string `json:"full_name"`
		} `json:"configuration"`
	} `json:"rocket"`
	Mission struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Orbit       struct {
			Name string `json:"name"`
		} `json:"orbit"`
	} `json:"mission"`
	Pad struct {
		Name      string `json:"name"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
		Location  struct {
			Name        string `json:"name"`
			CountryCode string `json:"country_code"`
		} `json:"location"`
	} `json:"pad"`
	Image       string `json:"image"`
	WebcastLive bool   `json:"webcast_live"`
}

type upstreamList struct {
	Results []upstreamLaunch `json:"results"`
}

// ListLaunches fetches upcoming launches and applies the filters. Fetch
// failures degrade to an empty result; per the error policy an absent
// upstream response is indistinguishable from no matches.
func (c *Client) ListLaunches(ctx context.Context, opts ListOptions) []LaunchRecord {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	results, ok := c.fetchUpcoming(ctx)
	if !ok {
		return nil
	}

	var launches []LaunchRecord
	for _, launch := range results {
		if opts.Status != "" && !strings.Contains(strings.ToLower(launch.Status.Name), strings.ToLower(opts.Status)) {
			continue
		}
		if opts.Provider != "" && !strings.Contains(strings.ToLower(launch.Provider.Name), strings.ToLower(opts.Provider)) {
			continue
		}

		launches = append(launches, newLaunchRecord(launch))
		if len(launches) >= maxResults {
			break
		}
	}
	return launches
}

// ListUpcoming returns up to limit upcoming launches with no filtering and
// a reduced field set.
func (c *Client) ListUpcoming(ctx context.Context, limit int) []LaunchSummary {
	if limit <= 0 {
		limit = 10
	}

	results, ok := c.fetchUpcoming(ctx)
	if !ok {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}

	summaries := make([]LaunchSummary, 0, len(results))
	for _, launch := range results {
		summaries = append(summaries, LaunchSummary{
			ID:           launch.ID,
			Name:         launch.Name,
			Status:       launch.Status.Name,
			StatusAbbrev: launch.Status.Abbrev,
			NET:          timeutil.FormatDateTime(launch.NET),
			NETRaw:       launch.NET,
			Provider:     launch.Provider.Name,
			Rocket:       rocketName(launch),
			Location:     launch.Pad.Location.Name,
		})
	}
	return summaries
}

func (c *Client) fetchUpcoming(ctx context.Context) ([]upstreamLaunch, bool) {
	var resp upstreamList
	if err := c.fetch.FetchJSON(ctx, httpfetch.BuildURL(c.cfg.BaseURL, "/launch/upcoming", nil), &resp); err != nil {
		logger.ContextKV(ctx, xlog.WARNING, "reason", "launch_fetch_failed", "err", err.Error())
		return nil, false
	}
	return resp.Results, true
}

func rocketName(launch upstreamLaunch) string {
	return values.StringsCoalesce(launch.Rocket.Configuration.FullName, launch.Rocket.Configuration.Name)
}

func newLaunchRecord(launch upstreamLaunch) LaunchRecord {
	return LaunchRecord{
		ID:                launch.ID,
		Name:              launch.Name,
		Status:            launch.Status.Name,
		StatusAbbrev:      launch.Status.Abbrev,
		StatusDescription: launch.Status.Description,

		NET:            timeutil.FormatDateTime(launch.NET),
		NETRaw:         launch.NET,
		WindowStart:    timeutil.FormatDateTime(launch.WindowStart),
		WindowStartRaw: launch.WindowStart,
		WindowEnd:      timeutil.FormatDateTime(launch.WindowEnd),
		WindowEndRaw:   launch.WindowEnd,

		Probability:  launch.Probability,
		Provider:     launch.Provider.Name,
		ProviderType: launch.Provider.Type,
		Rocket:       rocketName(launch),

		MissionName:        launch.Mission.Name,
		MissionDescription: launch.Mission.Description,
		MissionType:        launch.Mission.Type,
		Orbit:              launch.Mission.Orbit.Name,

		PadName:     launch.Pad.Name,
		Location:    launch.Pad.Location.Name,
		Latitude:    launch.Pad.Latitude,
		Longitude:   launch.Pad.Longitude,
		CountryCode: launch.Pad.Location.CountryCode,

		Image:       launch.Image,
		WebcastLive: launch.WebcastLive,
		URL:         launch.URL,
	}
}
