// Package synth builds the synthetic climate and species-sighting table shown
// on the dashboard, and the year filter and trend summaries computed from it.
package synth

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/lox/habitatshift/internal/metrics"
	"github.com/lox/habitatshift/internal/models"
)

const (
	FirstYear      = 2000
	YearCount      = 25
	LastYear       = FirstYear + YearCount - 1
	RecordsPerYear = 5
	RowCount       = YearCount * RecordsPerYear

	DefaultSeed = 42
)

// Ranges for each generated column. Trends run from Start to Stop across the
// whole table; noise is the standard deviation of the added Gaussian.
const (
	tempStart  = 12.0
	tempStop   = 15.5
	tempNoise  = 0.2
	sightStart = 100.0
	sightStop  = 20.0
	sightNoise = 5.0
	latMin     = 35.0
	latMax     = 38.0
	lonMin     = 126.5
	lonMax     = 129.0
)

// Generator produces observation tables. A seeded generator returns
// bit-identical tables on every call; an unseeded one draws a fresh seed each
// time.
type Generator struct {
	seed   uint32
	seeded bool
	now    func() time.Time
}

// NewSeeded returns a generator that reseeds with seed before every table.
func NewSeeded(seed uint32) *Generator {
	return &Generator{seed: seed, seeded: true, now: time.Now}
}

// NewUnseeded returns a generator whose tables differ on every call.
func NewUnseeded() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Seeded() bool { return g.seeded }

// Seed returns the fixed seed, or 0 for an unseeded generator.
func (g *Generator) Seed() uint32 { return g.seed }

// Generate builds a new table. The four random columns are drawn in a fixed
// order (temperature, sightings, latitude, longitude) from one stream.
func (g *Generator) Generate() *models.Table {
	seed := g.seed
	mode := "seeded"
	if !g.seeded {
		seed = rand.Uint32()
		mode = "unseeded"
	}
	src := NewSource(seed)

	years := repeatYears(FirstYear, YearCount, RecordsPerYear)

	temps := linspace(tempStart, tempStop, RowCount)
	for i := range temps {
		temps[i] += src.Normal(0, tempNoise)
	}

	sightings := linspace(sightStart, sightStop, RowCount)
	for i := range sightings {
		sightings[i] += src.Normal(0, sightNoise)
	}

	lats := make([]float64, RowCount)
	for i := range lats {
		lats[i] = src.Uniform(latMin, latMax)
	}

	lons := make([]float64, RowCount)
	for i := range lons {
		lons[i] = src.Uniform(lonMin, lonMax)
	}

	rows := make([]models.Observation, RowCount)
	for i := range rows {
		rows[i] = models.Observation{
			Year:            years[i],
			MeanTemperature: temps[i],
			SightingCount:   sightings[i],
			Latitude:        lats[i],
			Longitude:       lons[i],
		}
	}

	metrics.TablesGenerated.WithLabelValues(mode).Inc()

	return &models.Table{
		Rows:        rows,
		Seed:        seed,
		Seeded:      g.seeded,
		GeneratedAt: g.now(),
	}
}

// repeatYears repeats each year n times before moving on:
// [first x n, first+1 x n, ...].
func repeatYears(first, count, n int) []int {
	years := make([]int, 0, count*n)
	for y := first; y < first+count; y++ {
		for range n {
			years = append(years, y)
		}
	}
	return years
}

// linspace returns n evenly spaced values from start to stop inclusive. The
// last element is exactly stop.
func linspace(start, stop float64, n int) []float64 {
	out := floats.Span(make([]float64, n), start, stop)
	out[n-1] = stop
	return out
}
