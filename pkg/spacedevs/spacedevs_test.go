package spacedevs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/astrocue/agentools/pkg/httpfetch"
	"github.com/astrocue/agentools/pkg/spacedevs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upcomingPayload = `{
	"results": [
		{
			"id": "starlink-201",
			"url": "https://ll.thespacedevs.com/2.2.0/launch/starlink-201/",
			"name": "Falcon 9 Block 5 | Starlink Group 10-16",
			"status": {"name": "Go for Launch", "abbrev": "Go", "description": "Current T-0 confirmed by official sources."},
			"net": "2025-11-06T20:56:00Z",
			"window_start": "2025-11-06T20:30:00Z",
			"window_end": "2025-11-07T00:26:00Z",
			"probability": 95,
			"launch_service_provider": {"name": "SpaceX", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Falcon 9", "full_name": "Falcon 9 Block 5"}},
			"mission": {
				"name": "Starlink Group 10-16",
				"description": "A batch of satellites for the Starlink constellation.",
				"type": "Communications",
				"orbit": {"name": "Low Earth Orbit"}
			},
			"pad": {
				"name": "Space Launch Complex 40",
				"latitude": "28.56194122",
				"longitude": "-80.57735736",
				"location": {"name": "Cape Canaveral SFS, FL, USA", "country_code": "USA"}
			},
			"image": "https://example.com/falcon9.jpg",
			"webcast_live": true
		},
		{
			"id": "vulcan-kuiper",
			"name": "Vulcan VC4L | Kuiper 3",
			"status": {"name": "To Be Confirmed", "abbrev": "TBC"},
			"net": "2025-11-10T12:00:00Z",
			"launch_service_provider": {"name": "United Launch Alliance", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Vulcan"}},
			"pad": {"location": {"name": "Cape Canaveral SFS, FL, USA", "country_code": "USA"}}
		},
		{
			"id": "electron-47",
			"name": "Electron | Owl For One",
			"status": {"name": "Go for Launch", "abbrev": "Go"},
			"net": "2025-11-12T03:15:00Z",
			"launch_service_provider": {"name": "Rocket Lab", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Electron"}},
			"pad": {"location": {"name": "Mahia Peninsula, New Zealand", "country_code": "NZL"}}
		}
	]
}`

func testClient(t *testing.T, handler http.Handler) *spacedevs.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return spacedevs.NewClient(spacedevs.Config{BaseURL: server.URL}).
		WithFetcher(httpfetch.New(httpfetch.Config{}).WithHTTPClient(server.Client()))
}

func upcomingHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/launch/upcoming", r.URL.Path)
		_, _ = w.Write([]byte(upcomingPayload))
	})
}

func Test_ListLaunches(t *testing.T) {
	client := testClient(t, upcomingHandler(t))

	launches := client.ListLaunches(context.Background(), spacedevs.ListOptions{})
	require.Len(t, launches, 3)

	first := launches[0]
	assert.Equal(t, "starlink-201", first.ID)
	assert.Equal(t, "Go for Launch", first.Status)
	assert.Equal(t, "Go", first.StatusAbbrev)
	assert.Equal(t, "November 06, 2025 at 08:56 PM UTC", first.NET)
	assert.Equal(t, "2025-11-06T20:56:00Z", first.NETRaw)
	assert.Equal(t, "November 06, 2025 at 08:30 PM UTC", first.WindowStart)
	assert.Equal(t, "November 07, 2025 at 12:26 AM UTC", first.WindowEnd)
	require.NotNil(t, first.Probability)
	assert.Equal(t, 95, *first.Probability)
	assert.Equal(t, "SpaceX", first.Provider)
	assert.Equal(t, "Commercial", first.ProviderType)
	assert.Equal(t, "Falcon 9 Block 5", first.Rocket)
	assert.Equal(t, "Starlink Group 10-16", first.MissionName)
	assert.Equal(t, "Low Earth Orbit", first.Orbit)
	assert.Equal(t, "Space Launch Complex 40", first.PadName)
	assert.Equal(t, "28.56194122", first.Latitude)
	assert.Equal(t, "-80.57735736", first.Longitude)
	assert.Equal(t, "USA", first.CountryCode)
	assert.True(t, first.WebcastLive)

	// no full_name configured: plain name stands in
	assert.Equal(t, "Vulcan", launches[1].Rocket)
	assert.Nil(t, launches[1].Probability)
	// absent timestamps render as N/A, raw stays empty
	assert.Equal(t, "N/A", launches[1].WindowStart)
	assert.Empty(t, launches[1].WindowStartRaw)
}

func Test_ListLaunches_Filters(t *testing.T) {
	client := testClient(t, upcomingHandler(t))
	ctx := context.Background()

	tcases := []struct {
		name string
		opts spacedevs.ListOptions
		ids  []string
	}{
		{"status_go", spacedevs.ListOptions{Status: "Go"}, []string{"starlink-201", "electron-47"}},
		{"status_case_insensitive", spacedevs.ListOptions{Status: "go for launch"}, []string{"starlink-201", "electron-47"}},
		{"provider_substring", spacedevs.ListOptions{Provider: "rocket lab"}, []string{"electron-47"}},
		{"status_and_provider", spacedevs.ListOptions{Status: "Go", Provider: "SpaceX"}, []string{"starlink-201"}},
		{"no_match", spacedevs.ListOptions{Provider: "Roscosmos"}, nil},
		{"max_results", spacedevs.ListOptions{MaxResults: 1}, []string{"starlink-201"}},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			launches := client.ListLaunches(ctx, tc.opts)
			ids := make([]string, 0, len(launches))
			for _, l := range launches {
				ids = append(ids, l.ID)
			}
			if tc.ids == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tc.ids, ids)
			}
		})
	}
}

func Test_ListLaunches_UpstreamError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	// fetch failures degrade to an empty list rather than an error
	launches := client.ListLaunches(context.Background(), spacedevs.ListOptions{})
	assert.Empty(t, launches)
}

func Test_ListUpcoming(t *testing.T) {
	client := testClient(t, upcomingHandler(t))

	summaries := client.ListUpcoming(context.Background(), 2)
	require.Len(t, summaries, 2)

	assert.Equal(t, "starlink-201", summaries[0].ID)
	assert.Equal(t, "Falcon 9 Block 5", summaries[0].Rocket)
	assert.Equal(t, "November 06, 2025 at 08:56 PM UTC", summaries[0].NET)
	assert.Equal(t, "Cape Canaveral SFS, FL, USA", summaries[0].Location)
	assert.Equal(t, "vulcan-kuiper", summaries[1].ID)
}
