package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	width  = 480
	height = 480
)

// EmptyLabel is the single slice drawn when no option received an answer.
const EmptyLabel = "Sem respostas"

// RenderPie draws a pie chart of counts and returns it as PNG. Slice labels carry the
// percentage of the total, formatted like "Ótimo (40.0%)". Options with zero answers get
// no slice.
func RenderPie(labels []string, counts []int) ([]byte, error) {
	if len(labels) != len(counts) {
		return nil, fmt.Errorf("charts: %d labels for %d counts", len(labels), len(counts))
	}

	var total int
	for _, c := range counts {
		if c < 0 {
			return nil, errors.New("charts: negative count")
		}
		total += c
	}

	var values []chart.Value
	if total == 0 {
		values = []chart.Value{{
			Value: 1,
			Label: EmptyLabel,
			Style: chart.Style{FillColor: drawing.ColorFromHex("d9d9d9")},
		}}
	} else {
		for i, c := range counts {
			if c == 0 {
				continue
			}
			values = append(values, chart.Value{
				Value: float64(c),
				Label: fmt.Sprintf("%s (%.1f%%)", labels[i], float64(c)*100/float64(total)),
			})
		}
	}

	pie := chart.PieChart{
		Width:  width,
		Height: height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("charts: render pie: %w", err)
	}
	return buf.Bytes(), nil
}
