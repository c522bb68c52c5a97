package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page with the shared FuncMap.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templatesFS, "templates/*.html")
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDateTime": FormatDateTime,
		"add":            func(a, b int) int { return a + b },
	}
}

// FormatDateTime renders a timestamp as dd/mm/yyyy hh:mm; the zero time renders empty.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}
