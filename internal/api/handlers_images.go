package api

import (
	"log"
	"net/http"
	"time"

	"github.com/lox/habitatshift/internal/chartimg"
	"github.com/lox/habitatshift/internal/dashboard"
	"github.com/lox/habitatshift/internal/metrics"
	"github.com/lox/habitatshift/internal/synth"
)

// handleChartImage serves the trend chart as a PNG. Seeded tables are equal
// across sessions, so their images are cached by seed and year. Years outside
// the table draw no marker and share the year 0 entry.
func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	table := s.session(w, r).Table()
	sel := dashboard.ParseSelection(r.URL.Query())
	year := sel.Year
	if !synth.InRange(year) {
		year = 0
	}
	key := chartimg.Key{Seed: table.Seed, Year: year}

	if table.Seeded {
		if data, ok := s.chartCache.Get(key); ok {
			serveImage(w, data, true)
			return
		}
	}

	start := time.Now()
	data, err := chartimg.Render(dashboard.BuildChart(table, year))
	metrics.ChartImageLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("render chart image: %v", err)
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}

	if table.Seeded {
		s.chartCache.Set(key, data)
	}
	serveImage(w, data, table.Seeded)
}

func serveImage(w http.ResponseWriter, data []byte, cacheable bool) {
	w.Header().Set("Content-Type", "image/png")
	if cacheable {
		w.Header().Set("Cache-Control", "public, max-age=600")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Write(data)
}
