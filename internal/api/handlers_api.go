package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/lox/habitatshift/internal/models"
	"github.com/lox/habitatshift/internal/synth"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleAPIObservations returns the session's full table, or only the rows
// for ?year= when given. A year with no rows returns [].
func (s *Server) handleAPIObservations(w http.ResponseWriter, r *http.Request) {
	table := s.session(w, r).Table()

	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		writeJSON(w, http.StatusOK, table.Rows)
		return
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be an integer"})
		return
	}
	writeJSON(w, http.StatusOK, synth.FilterByYear(table, year))
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.render(w, r, "api"))
}

func (s *Server) handleAPISpecies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SpeciesCatalog)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"rows":     synth.RowCount,
		"sessions": s.sessions.Len(),
	})
}
