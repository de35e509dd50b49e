// Package dashboard turns an observation table and the viewer's selections
// into the data the chart and map draw. Rendering is pure: it reads the
// table and never regenerates or modifies it.
package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lox/habitatshift/internal/models"
	"github.com/lox/habitatshift/internal/synth"
)

const (
	DefaultYear = synth.LastYear

	MapCenterLat = 36.5
	MapCenterLon = 127.5
	MapZoom      = 7
	MarkerRadius = 5

	Title = "기후변화에 따른 생물 종 분포 변화 관찰"
)

// Selection is the viewer-controlled input to a render.
type Selection struct {
	Year    int
	Species models.Species
}

// ParseSelection reads ?year= and ?species=. A missing or non-numeric year
// falls back to DefaultYear; a numeric year outside the generated range is
// kept so the map renders empty.
func ParseSelection(q url.Values) Selection {
	sel := Selection{Year: DefaultYear, Species: models.DefaultSpecies()}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			sel.Year = y
		}
	}
	if v := q.Get("species"); v != "" {
		sel.Species = models.LookupSpecies(v)
	}
	return sel
}

// Query encodes the selection back into URL query form.
func (s Selection) Query() string {
	q := url.Values{}
	q.Set("year", strconv.Itoa(s.Year))
	q.Set("species", s.Species.ID)
	return q.Encode()
}

type ChartSeries struct {
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Data  []float64 `json:"data"`
}

// ChartData is the full table laid out for a year-on-x line chart.
type ChartData struct {
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle"`
	Labels       []int         `json:"labels"`
	Series       []ChartSeries `json:"series"`
	SelectedYear int           `json:"selected_year"`
}

type Marker struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius int     `json:"radius"`
	Color  string  `json:"color"`
	Fill   bool    `json:"fill"`
}

type MapData struct {
	Subtitle  string   `json:"subtitle"`
	CenterLat float64  `json:"center_lat"`
	CenterLon float64  `json:"center_lon"`
	Zoom      int      `json:"zoom"`
	Markers   []Marker `json:"markers"`
}

// Note is the observation summary shown under the chart and map.
type Note struct {
	Year               int     `json:"year"`
	SpeciesLabel       string  `json:"species_label"`
	Text               string  `json:"text"`
	TempPerDecade      float64 `json:"temp_per_decade"`
	SightingsPerDecade float64 `json:"sightings_per_decade"`
	Correlation        float64 `json:"correlation"`
	YearMeanTemp       float64 `json:"year_mean_temp,omitempty"`
	YearMeanSightings  float64 `json:"year_mean_sightings,omitempty"`
	HasYearData        bool    `json:"has_year_data"`
}

// View is everything needed to draw one dashboard state.
type View struct {
	Title     string           `json:"title"`
	Selection Selection        `json:"-"`
	Year      int              `json:"year"`
	Species   models.Species   `json:"species"`
	Catalog   []models.Species `json:"catalog"`
	MinYear   int              `json:"min_year"`
	MaxYear   int              `json:"max_year"`
	Chart     ChartData        `json:"chart"`
	Map       MapData          `json:"map"`
	Note      Note             `json:"note"`
}

// Render builds a View from the table and selection.
func Render(t *models.Table, sel Selection) View {
	return View{
		Title:     Title,
		Selection: sel,
		Year:      sel.Year,
		Species:   sel.Species,
		Catalog:   models.SpeciesCatalog,
		MinYear:   synth.FirstYear,
		MaxYear:   synth.LastYear,
		Chart:     BuildChart(t, sel.Year),
		Map:       BuildMap(synth.FilterByYear(t, sel.Year), sel),
		Note:      BuildNote(t, sel),
	}
}

// BuildChart lays out every row of the table, one point per row, with the
// year as the x label.
func BuildChart(t *models.Table, year int) ChartData {
	chart := ChartData{
		Title:        "기온 상승에 따른 발견 빈도 변화",
		Subtitle:     fmt.Sprintf("%d년 기온 vs 개체수 추이", year),
		Labels:       make([]int, 0, t.Len()),
		SelectedYear: year,
	}
	temps := ChartSeries{Name: "평균기온", Color: "#ef553b", Data: make([]float64, 0, t.Len())}
	sightings := ChartSeries{Name: "발견횟수", Color: "#636efa", Data: make([]float64, 0, t.Len())}
	if t != nil {
		for _, row := range t.Rows {
			chart.Labels = append(chart.Labels, row.Year)
			temps.Data = append(temps.Data, row.MeanTemperature)
			sightings.Data = append(sightings.Data, row.SightingCount)
		}
	}
	chart.Series = []ChartSeries{temps, sightings}
	return chart
}

// BuildMap places one marker per filtered row, coloured by species.
func BuildMap(rows []models.Observation, sel Selection) MapData {
	m := MapData{
		Subtitle:  fmt.Sprintf("%d년 발견 위치 지도", sel.Year),
		CenterLat: MapCenterLat,
		CenterLon: MapCenterLon,
		Zoom:      MapZoom,
		Markers:   make([]Marker, 0, len(rows)),
	}
	for _, row := range rows {
		m.Markers = append(m.Markers, Marker{
			Lat:    row.Latitude,
			Lon:    row.Longitude,
			Radius: MarkerRadius,
			Color:  sel.Species.MarkerColor,
			Fill:   true,
		})
	}
	return m
}

// BuildNote summarises the trend for the observation note.
func BuildNote(t *models.Table, sel Selection) Note {
	trend := synth.Summarize(t)
	note := Note{
		Year:               sel.Year,
		SpeciesLabel:       sel.Species.Label,
		TempPerDecade:      trend.TempPerDecade,
		SightingsPerDecade: trend.SightingsPerDecade,
		Correlation:        trend.Correlation,
		Text: fmt.Sprintf(
			"%d년 기준으로 기온이 상승함에 따라 해당 종의 발견 횟수가 변화하고 있습니다. "+
				"이는 기후 변화가 생물의 생태 사이클에 직접적인 영향을 미치고 있음을 시사합니다.",
			sel.Year),
	}
	for _, g := range trend.Groups {
		if g.Year == sel.Year {
			note.YearMeanTemp = g.MeanTemperature
			note.YearMeanSightings = g.MeanSightings
			note.HasYearData = true
			break
		}
	}
	return note
}
