package rockets

import (
	"fmt"
	"strings"

	"github.com/astrocue/agentools/pkg/openweather"
)

// VisibilityStatus is the qualitative verdict on whether a launch can be
// observed from the ground given the forecast at the launch site.
type VisibilityStatus string

const (
	VisibilityGood    VisibilityStatus = "Good"
	VisibilityLow     VisibilityStatus = "Low Visibility"
	VisibilityNone    VisibilityStatus = "Not Visible"
	VisibilityUnknown VisibilityStatus = "Unknown"
)

// Visibility is the per-launch assessment derived from the matching
// forecast day.
type Visibility struct {
	Status    VisibilityStatus `json:"status"`
	CanBeSeen bool             `json:"can_be_seen"`
	Reasons   []string         `json:"reasons"`
}

// WeatherSnapshot is the forecast summary attached to a launch.
type WeatherSnapshot struct {
	Main          string                  `json:"main"`
	Description   string                  `json:"description"`
	Clouds        int                     `json:"clouds"`
	Humidity      float64                 `json:"humidity"`
	Precipitation float64                 `json:"precipitation"`
	Snow          float64                 `json:"snow"`
	Temperature   openweather.Temperature `json:"temperature"`
}

// badConditions are dominant conditions that obscure a launch.
var badConditions = map[string]bool{
	"clouds":       true,
	"rain":         true,
	"thunderstorm": true,
	"snow":         true,
	"drizzle":      true,
	"mist":         true,
	"fog":          true,
}

const clearConditions = "Clear conditions expected"

// assessVisibility applies the threshold rules to one forecast day.
//
// NotVisible triggers on three or more reasons, on heavy snow alone, or on
// the bad-weather+high-clouds pair. The pair overlaps with the reason
// count on purpose; the two branches are deliberately independent.
func assessVisibility(f *openweather.DailyForecast) Visibility {
	condition := strings.ToLower(f.Weather.Main)

	badWeather := badConditions[condition]
	highClouds := f.Clouds > 30
	highHumidity := f.Humidity > 80
	highPrecipitation := f.Precipitation > 5
	highSnow := f.Snow > 5

	var reasons []string
	if badWeather {
		reasons = append(reasons, fmt.Sprintf("Poor weather: %s", titleCase(condition)))
	}
	if highClouds {
		reasons = append(reasons, fmt.Sprintf("High cloud cover: %d%%", f.Clouds))
	}
	if highHumidity {
		reasons = append(reasons, fmt.Sprintf("High humidity: %v%%", f.Humidity))
	}
	if highPrecipitation {
		reasons = append(reasons, fmt.Sprintf("Heavy precipitation: %vmm", f.Precipitation))
	}
	if highSnow {
		reasons = append(reasons, fmt.Sprintf("Heavy snow: %vmm", f.Snow))
	}

	var status VisibilityStatus
	switch {
	case len(reasons) >= 3 || highSnow || (badWeather && highClouds):
		status = VisibilityNone
	case len(reasons) >= 1:
		status = VisibilityLow
	default:
		status = VisibilityGood
	}

	if len(reasons) == 0 {
		reasons = []string{clearConditions}
	}

	return Visibility{
		Status:    status,
		CanBeSeen: status == VisibilityGood || status == VisibilityLow,
		Reasons:   reasons,
	}
}

func unknownVisibility(reason string) Visibility {
	return Visibility{
		Status:    VisibilityUnknown,
		CanBeSeen: false,
		Reasons:   []string{reason},
	}
}

func snapshotOf(f *openweather.DailyForecast) *WeatherSnapshot {
	return &WeatherSnapshot{
		Main:          f.Weather.Main,
		Description:   f.Weather.Description,
		Clouds:        f.Clouds,
		Humidity:      f.Humidity,
		Precipitation: f.Precipitation,
		Snow:          f.Snow,
		Temperature:   f.Temperature,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
