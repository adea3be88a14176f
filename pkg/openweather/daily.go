package openweather

import (
	"math"
	"sort"
	"time"

	"github.com/astrocue/agentools/pkg/timeutil"
)

// ForecastLocation identifies the place a forecast covers.
type ForecastLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// Temperature aggregates a day's 3-hour temperature samples.
//
// Morning and Night are the first and last sample of the UTC day in
// arrival order, not true morning/night hours; depending on timezone and
// where the forecast window starts they may fall elsewhere in the day.
type Temperature struct {
	Day     float64 `json:"day"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Morning float64 `json:"morning"`
	Night   float64 `json:"night"`
}

// FeelsLike mirrors Temperature for perceived temperature, with the same
// arrival-order Morning/Night quirk.
type FeelsLike struct {
	Day     float64 `json:"day"`
	Morning float64 `json:"morning"`
	Night   float64 `json:"night"`
}

// Condition is the dominant weather condition of a day, taken from the
// representative sample.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DailyForecast is a one-day aggregate of 3-hour forecast samples.
type DailyForecast struct {
	// Date is the human-readable rendition of the day (anchored at noon UTC);
	// DateRaw is the UTC midnight unix timestamp for arithmetic.
	Date    string `json:"date"`
	DateRaw int64  `json:"date_raw"`

	Temperature Temperature `json:"temperature"`
	FeelsLike   FeelsLike   `json:"feels_like"`

	// Pressure, humidity, clouds and wind come from the representative
	// sample: the first with UTC hour in [11,14], else the day's first.
	Pressure      float64   `json:"pressure"`
	Humidity      float64   `json:"humidity"`
	Weather       Condition `json:"weather"`
	Clouds        int       `json:"clouds"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`

	// Precipitation and Snow sum every sample's 3-hour amount in mm.
	Precipitation float64 `json:"precipitation"`
	Snow          float64 `json:"snow"`
}

// ForecastReport is the aggregated multi-day forecast.
type ForecastReport struct {
	Location        ForecastLocation `json:"location"`
	Forecasts       []DailyForecast  `json:"forecasts"`
	DaysCount       int              `json:"days_count"`
	FilteredForDate string           `json:"filtered_for_date,omitempty"`
}

// Day returns the UTC calendar day string (YYYY-MM-DD) of the forecast.
func (f *DailyForecast) Day() string {
	return time.Unix(f.DateRaw, 0).UTC().Format("2006-01-02")
}

// FilterDay keeps only the forecast entries matching the given UTC calendar
// day (YYYY-MM-DD) and records the applied filter.
func (r *ForecastReport) FilterDay(day, display string) {
	kept := make([]DailyForecast, 0, 1)
	for _, f := range r.Forecasts {
		if f.Day() == day {
			kept = append(kept, f)
		}
	}
	r.Forecasts = kept
	r.DaysCount = len(kept)
	r.FilteredForDate = display
}

func aggregateDaily(samples []sample, days int) []DailyForecast {
	byDay := make(map[string][]sample)
	for _, s := range samples {
		key := time.Unix(s.Dt, 0).UTC().Format("2006-01-02")
		byDay[key] = append(byDay[key], s)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	forecasts := make([]DailyForecast, 0, len(keys))
	for _, key := range keys {
		if len(forecasts) >= days {
			break
		}
		forecasts = append(forecasts, aggregateDay(key, byDay[key]))
	}
	return forecasts
}

func aggregateDay(day string, items []sample) DailyForecast {
	minTemp := math.Inf(1)
	maxTemp := math.Inf(-1)
	var sumTemp, sumFeels, rain, snow float64
	for _, s := range items {
		t := s.Main.Temp
		minTemp = math.Min(minTemp, t)
		maxTemp = math.Max(maxTemp, t)
		sumTemp += t
		sumFeels += s.Main.FeelsLike
		rain += s.Rain.ThreeHour
		snow += s.Snow.ThreeHour
	}
	n := float64(len(items))

	rep := representative(items)

	dayStart, _ := time.Parse("2006-01-02", day)

	f := DailyForecast{
		Date:    timeutil.FormatDateTime(day + "T12:00:00Z"),
		DateRaw: dayStart.UTC().Unix(),
		Temperature: Temperature{
			Day:     round1(sumTemp / n),
			Min:     round1(minTemp),
			Max:     round1(maxTemp),
			Morning: items[0].Main.Temp,
			Night:   items[len(items)-1].Main.Temp,
		},
		FeelsLike: FeelsLike{
			Day:     round1(sumFeels / n),
			Morning: items[0].Main.FeelsLike,
			Night:   items[len(items)-1].Main.FeelsLike,
		},
		Pressure:      rep.Main.Pressure,
		Humidity:      rep.Main.Humidity,
		Clouds:        rep.Clouds.All,
		WindSpeed:     rep.Wind.Speed,
		WindDirection: rep.Wind.Deg,
		Precipitation: rain,
		Snow:          snow,
	}
	if len(rep.Weather) > 0 {
		f.Weather = Condition{
			Main:        rep.Weather[0].Main,
			Description: rep.Weather[0].Description,
			Icon:        rep.Weather[0].Icon,
		}
	}
	return f
}

// representative prefers a midday sample (11:00-14:00 UTC) to stand in for
// the whole day, falling back to the day's first.
func representative(items []sample) sample {
	for _, s := range items {
		h := time.Unix(s.Dt, 0).UTC().Hour()
		if h >= 11 && h <= 14 {
			return s
		}
	}
	return items[0]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
