package api

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		// signed formats with an explicit sign, without printing "-0.00".
		"signed": func(f float64, prec int) string {
			s := fmt.Sprintf("%+.*f", prec, f)
			if strings.Trim(s, "+-0.") == "" {
				return strings.TrimLeft(s, "+-")
			}
			return s
		},
		"fixed": func(f float64, prec int) string {
			return fmt.Sprintf("%.*f", prec, f)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
