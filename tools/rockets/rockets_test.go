package rockets_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/astrocue/agentools/pkg/httpfetch"
	"github.com/astrocue/agentools/pkg/openweather"
	"github.com/astrocue/agentools/pkg/spacedevs"
	"github.com/astrocue/agentools/tools/rockets"
	"github.com/stretchr/testify/require"
)

// testNow anchors every fixture; the fake clock and all launch dates are
// relative to it.
var testNow = time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)

// Cape Canaveral as resolved by geocoding, and the SLC-40 pad about 19 km
// from it.
const (
	capeLat = 28.3922
	capeLon = -80.6077
)

type upstreamFixture struct {
	// launches is the payload served at /launch/upcoming; replace to
	// simulate an empty schedule.
	launches string
	// forecastDown makes /data/2.5/forecast fail.
	forecastDown bool
}

func defaultFixture() *upstreamFixture {
	return &upstreamFixture{launches: launchesPayload}
}

const launchesPayload = `{
	"results": [
		{
			"id": "starlink-201",
			"name": "Falcon 9 Block 5 | Starlink Group 10-16",
			"status": {"name": "Go for Launch", "abbrev": "Go"},
			"net": "2025-11-06T20:56:00Z",
			"launch_service_provider": {"name": "SpaceX", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Falcon 9", "full_name": "Falcon 9 Block 5"}},
			"pad": {
				"name": "Space Launch Complex 40",
				"latitude": "28.56194122",
				"longitude": "-80.57735736",
				"location": {"name": "Cape Canaveral SFS, FL, USA", "country_code": "USA"}
			}
		},
		{
			"id": "vulcan-kuiper",
			"name": "Vulcan VC4L | Kuiper 3",
			"status": {"name": "To Be Confirmed", "abbrev": "TBC"},
			"net": "2025-11-06T12:00:00Z",
			"launch_service_provider": {"name": "United Launch Alliance", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Vulcan"}},
			"pad": {
				"latitude": "28.58341025",
				"longitude": "-80.58303644",
				"location": {"name": "Cape Canaveral SFS, FL, USA", "country_code": "USA"}
			}
		},
		{
			"id": "transporter-vandenberg",
			"name": "Falcon 9 Block 5 | Transporter 15",
			"status": {"name": "Go for Launch", "abbrev": "Go"},
			"net": "2025-11-07T10:00:00Z",
			"launch_service_provider": {"name": "SpaceX", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Falcon 9", "full_name": "Falcon 9 Block 5"}},
			"pad": {
				"name": "Space Launch Complex 4E",
				"latitude": "34.632",
				"longitude": "-120.611",
				"location": {"name": "Vandenberg SFB, CA, USA", "country_code": "USA"}
			}
		},
		{
			"id": "starship-flight",
			"name": "Starship | Integrated Flight Test",
			"status": {"name": "Go for Launch", "abbrev": "Go"},
			"net": "2025-12-25T12:00:00Z",
			"launch_service_provider": {"name": "SpaceX", "type": "Commercial"},
			"rocket": {"configuration": {"name": "Starship"}},
			"pad": {
				"name": "Orbital Launch Mount A",
				"latitude": "25.997",
				"longitude": "-97.157",
				"location": {"name": "Starbase, TX, USA", "country_code": "USA"}
			}
		}
	]
}`

func forecastSample(ts time.Time, temp float64, main, desc string, clouds int, humidity float64) map[string]any {
	return map[string]any{
		"dt": ts.Unix(),
		"main": map[string]any{
			"temp":       temp,
			"feels_like": temp - 1,
			"pressure":   1015,
			"humidity":   humidity,
		},
		"weather": []map[string]any{{"main": main, "description": desc, "icon": "01d"}},
		"clouds":  map[string]any{"all": clouds},
		"wind":    map[string]any{"speed": 4.2, "deg": 120},
	}
}

// forecastPayload covers the day after testNow with clear weather and the
// following day with heavy clouds.
func forecastPayload() map[string]any {
	day1 := testNow.Add(24 * time.Hour).Add(12 * time.Hour) // Nov 6, noon
	day2 := day1.Add(24 * time.Hour)
	return map[string]any{
		"city": map[string]string{"name": "Cape Canaveral", "country": "US"},
		"list": []map[string]any{
			forecastSample(day1, 22.5, "Clear", "clear sky", 10, 50),
			forecastSample(day2, 19.0, "Clouds", "overcast clouds", 90, 85),
		},
	}
}

func newClients(t *testing.T, fx *upstreamFixture) *rockets.Clients {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geo/1.0/direct":
			if r.URL.Query().Get("q") == "Nowhereville" {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			_, _ = w.Write([]byte(`[{"name":"Cape Canaveral","lat":28.3922,"lon":-80.6077,"country":"US","state":"Florida"}]`))
		case "/data/2.5/forecast":
			if fx.forecastDown {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			require.NoError(t, json.NewEncoder(w).Encode(forecastPayload()))
		case "/launch/upcoming":
			_, _ = w.Write([]byte(fx.launches))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	fetcher := func() *httpfetch.Client {
		return httpfetch.New(httpfetch.Config{}).WithHTTPClient(server.Client())
	}

	weather, err := openweather.NewClient(openweather.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	return &rockets.Clients{
		Weather:  weather.WithFetcher(fetcher()),
		Launches: spacedevs.NewClient(spacedevs.Config{BaseURL: server.URL}).WithFetcher(fetcher()),
	}
}
