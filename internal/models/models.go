package models

import (
	"strings"
	"time"
)

// Observation is one synthetic data point: a year, the mean temperature and
// species sighting count for that year, and where the sighting was made.
type Observation struct {
	Year            int     `json:"year"`
	MeanTemperature float64 `json:"mean_temperature"`
	SightingCount   float64 `json:"sighting_count"`
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"lon"`
}

// Table is an immutable set of observations in generation order.
type Table struct {
	Rows        []Observation `json:"rows"`
	Seed        uint32        `json:"seed"`
	Seeded      bool          `json:"seeded"`
	GeneratedAt time.Time     `json:"generated_at"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Species is an observable species and how its markers are drawn on the map.
type Species struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	MarkerColor string `json:"marker_color"`
}

var SpeciesCatalog = []Species{
	{ID: "honeybee", Label: "꿀벌 (기온 민감종)", MarkerColor: "blue"},
	{ID: "hornet", Label: "등검은말벌 (외래 침입종)", MarkerColor: "red"},
}

// DefaultSpecies is the species selected when none (or an unknown one) is given.
func DefaultSpecies() Species {
	return SpeciesCatalog[0]
}

// LookupSpecies matches on ID or display label. Unknown values fall back to
// the default species.
func LookupSpecies(s string) Species {
	s = strings.TrimSpace(s)
	for _, sp := range SpeciesCatalog {
		if strings.EqualFold(sp.ID, s) || sp.Label == s {
			return sp
		}
	}
	return DefaultSpecies()
}
