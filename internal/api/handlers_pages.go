package api

import (
	"log"
	"net/http"

	"github.com/lox/habitatshift/internal/dashboard"
	"github.com/lox/habitatshift/internal/metrics"
)

// render builds the view for the request's session and selection. The
// session's table is read, never regenerated, unless the store was created in
// regenerating mode.
func (s *Server) render(w http.ResponseWriter, r *http.Request, kind string) dashboard.View {
	sess := s.session(w, r)
	view := dashboard.Render(sess.Table(), dashboard.ParseSelection(r.URL.Query()))

	metrics.Renders.WithLabelValues(kind).Inc()
	metrics.MarkersPerRender.Observe(float64(len(view.Map.Markers)))
	return view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	view := s.render(w, r, "page")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", view); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	view := s.render(w, r, "chart")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "chart.html", view); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) handleMapPartial(w http.ResponseWriter, r *http.Request) {
	view := s.render(w, r, "map")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "map.html", view); err != nil {
		log.Printf("template error: %v", err)
	}
}
