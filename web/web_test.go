package web

import (
	"testing"
	"time"
)

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	if got := FormatDateTime(ts); got != "05/03/2024 14:07" {
		t.Errorf("got %q", got)
	}
	if got := FormatDateTime(time.Time{}); got != "" {
		t.Errorf("zero time should render empty, got %q", got)
	}
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	for _, name := range []string{"login.html", "pesquisa.html", "pesquisa_concluida.html", "admin_login.html", "admin.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %s missing", name)
		}
	}
}
