package rockets

import (
	"testing"

	"github.com/astrocue/agentools/pkg/openweather"
	"github.com/stretchr/testify/assert"
)

func forecastWith(main string, clouds int, humidity, precipitation, snow float64) *openweather.DailyForecast {
	f := &openweather.DailyForecast{
		Humidity:      humidity,
		Clouds:        clouds,
		Precipitation: precipitation,
		Snow:          snow,
	}
	f.Weather.Main = main
	return f
}

func Test_AssessVisibility(t *testing.T) {
	tcases := []struct {
		name      string
		forecast  *openweather.DailyForecast
		status    VisibilityStatus
		canBeSeen bool
		reasons   []string
	}{
		{
			name:      "clear",
			forecast:  forecastWith("Clear", 10, 50, 0, 0),
			status:    VisibilityGood,
			canBeSeen: true,
			reasons:   []string{"Clear conditions expected"},
		},
		{
			name:      "thresholds_are_exclusive",
			forecast:  forecastWith("Clear", 30, 80, 5, 5),
			status:    VisibilityGood,
			canBeSeen: true,
			reasons:   []string{"Clear conditions expected"},
		},
		{
			name:      "high_clouds_only",
			forecast:  forecastWith("Clear", 45, 50, 0, 0),
			status:    VisibilityLow,
			canBeSeen: true,
			reasons:   []string{"High cloud cover: 45%"},
		},
		{
			name:      "bad_weather_only",
			forecast:  forecastWith("Rain", 20, 50, 0, 0),
			status:    VisibilityLow,
			canBeSeen: true,
			reasons:   []string{"Poor weather: Rain"},
		},
		{
			name:      "bad_weather_and_high_clouds",
			forecast:  forecastWith("Clouds", 75, 50, 0, 0),
			status:    VisibilityNone,
			canBeSeen: false,
			reasons:   []string{"Poor weather: Clouds", "High cloud cover: 75%"},
		},
		{
			name:      "heavy_snow_alone",
			forecast:  forecastWith("Clear", 10, 50, 0, 6),
			status:    VisibilityNone,
			canBeSeen: false,
			reasons:   []string{"Heavy snow: 6mm"},
		},
		{
			name:      "three_reasons",
			forecast:  forecastWith("Clear", 45, 85, 6.5, 0),
			status:    VisibilityNone,
			canBeSeen: false,
			reasons: []string{
				"High cloud cover: 45%",
				"High humidity: 85%",
				"Heavy precipitation: 6.5mm",
			},
		},
		{
			name:      "rainy_cloudy_humid",
			forecast:  forecastWith("Rain", 50, 85, 0, 0),
			status:    VisibilityNone,
			canBeSeen: false,
			reasons: []string{
				"Poor weather: Rain",
				"High cloud cover: 50%",
				"High humidity: 85%",
			},
		},
		{
			name:      "two_reasons_without_bad_weather",
			forecast:  forecastWith("Clear", 45, 85, 0, 0),
			status:    VisibilityLow,
			canBeSeen: true,
			reasons: []string{
				"High cloud cover: 45%",
				"High humidity: 85%",
			},
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			v := assessVisibility(tc.forecast)
			assert.Equal(t, tc.status, v.Status)
			assert.Equal(t, tc.canBeSeen, v.CanBeSeen)
			assert.Equal(t, tc.reasons, v.Reasons)
		})
	}
}

func Test_UnknownVisibility(t *testing.T) {
	v := unknownVisibility("No weather forecast available for launch date")
	assert.Equal(t, VisibilityUnknown, v.Status)
	assert.False(t, v.CanBeSeen)
	assert.Equal(t, []string{"No weather forecast available for launch date"}, v.Reasons)
}

func Test_SnapshotOf(t *testing.T) {
	f := forecastWith("Clouds", 40, 70, 1.2, 0)
	f.Weather.Description = "scattered clouds"
	f.Temperature = openweather.Temperature{Day: 21.5, Min: 18, Max: 25}

	s := snapshotOf(f)
	assert.Equal(t, "Clouds", s.Main)
	assert.Equal(t, "scattered clouds", s.Description)
	assert.Equal(t, 40, s.Clouds)
	assert.Equal(t, 70.0, s.Humidity)
	assert.Equal(t, 1.2, s.Precipitation)
	assert.Equal(t, f.Temperature, s.Temperature)
}
