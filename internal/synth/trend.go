package synth

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/lox/habitatshift/internal/models"
)

// YearGroup holds the per-year means of a table's value columns.
type YearGroup struct {
	Year            int     `json:"year"`
	Count           int     `json:"count"`
	MeanTemperature float64 `json:"mean_temperature"`
	MeanSightings   float64 `json:"mean_sightings"`
}

// Trend summarises how temperature and sightings move over the table.
type Trend struct {
	Groups []YearGroup `json:"groups"`

	// Least-squares slopes over all rows, scaled to change per decade.
	TempPerDecade      float64 `json:"temp_per_decade"`
	SightingsPerDecade float64 `json:"sightings_per_decade"`

	// Pearson correlation between temperature and sightings.
	Correlation float64 `json:"correlation"`
}

// GroupByYear returns per-year means in ascending year order. Rows are
// assumed to be grouped contiguously by year, as Generate produces them.
func GroupByYear(t *models.Table) []YearGroup {
	if t.Len() == 0 {
		return nil
	}

	var groups []YearGroup
	var temps, sightings []float64
	flush := func(year int) {
		groups = append(groups, YearGroup{
			Year:            year,
			Count:           len(temps),
			MeanTemperature: stat.Mean(temps, nil),
			MeanSightings:   stat.Mean(sightings, nil),
		})
		temps, sightings = temps[:0], sightings[:0]
	}

	current := t.Rows[0].Year
	for _, row := range t.Rows {
		if row.Year != current {
			flush(current)
			current = row.Year
		}
		temps = append(temps, row.MeanTemperature)
		sightings = append(sightings, row.SightingCount)
	}
	flush(current)
	return groups
}

// Summarize computes the trend figures shown in the dashboard's observation
// note. Tables with fewer than two rows produce zero slopes and correlation.
func Summarize(t *models.Table) Trend {
	trend := Trend{Groups: GroupByYear(t)}
	if t.Len() < 2 {
		return trend
	}

	years := make([]float64, t.Len())
	temps := make([]float64, t.Len())
	sightings := make([]float64, t.Len())
	for i, row := range t.Rows {
		years[i] = float64(row.Year)
		temps[i] = row.MeanTemperature
		sightings[i] = row.SightingCount
	}

	_, tempSlope := stat.LinearRegression(years, temps, nil, false)
	_, sightSlope := stat.LinearRegression(years, sightings, nil, false)
	trend.TempPerDecade = finite(tempSlope * 10)
	trend.SightingsPerDecade = finite(sightSlope * 10)
	trend.Correlation = finite(stat.Correlation(temps, sightings, nil))
	return trend
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
