package charts

import (
	"bytes"
	"testing"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderPie(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		counts  []int
		wantErr bool
	}{
		{name: "mixed counts", labels: []string{"A", "B", "C"}, counts: []int{2, 0, 5}},
		{name: "single option", labels: []string{"Sim"}, counts: []int{3}},
		{name: "no answers yet", labels: []string{"Sim", "Não"}, counts: []int{0, 0}},
		{name: "no options", labels: nil, counts: nil},
		{name: "length mismatch", labels: []string{"A"}, counts: []int{1, 2}, wantErr: true},
		{name: "negative count", labels: []string{"A"}, counts: []int{-1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := RenderPie(tt.labels, tt.counts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("RenderPie: %v", err)
			}
			if !bytes.HasPrefix(png, pngMagic) {
				t.Errorf("output is not a PNG (first bytes %q)", png[:min(8, len(png))])
			}
		})
	}
}

func TestRenderPieIsPure(t *testing.T) {
	a, err := RenderPie([]string{"A", "B"}, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderPie([]string{"A", "B"}, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same input produced different images")
	}
}
