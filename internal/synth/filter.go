package synth

import "github.com/lox/habitatshift/internal/models"

// FilterByYear returns the rows observed in year, in table order. A year with
// no rows (including one outside the generated range) yields an empty,
// non-nil slice. The table is never modified.
func FilterByYear(t *models.Table, year int) []models.Observation {
	out := make([]models.Observation, 0, RecordsPerYear)
	if t == nil {
		return out
	}
	for _, row := range t.Rows {
		if row.Year == year {
			out = append(out, row)
		}
	}
	return out
}

// InRange reports whether year is one the generator produces.
func InRange(year int) bool {
	return year >= FirstYear && year <= LastYear
}
