package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bmorton/folio/internal/models"
)

// Slice colors cycle when a portfolio has more holdings than entries here.
var sliceColors = []drawing.Color{
	drawing.ColorFromHex("2563eb"), // blue-600
	drawing.ColorFromHex("16a34a"), // green-600
	drawing.ColorFromHex("dc2626"), // red-600
	drawing.ColorFromHex("d97706"), // amber-600
	drawing.ColorFromHex("7c3aed"), // violet-600
	drawing.ColorFromHex("0891b2"), // cyan-600
	drawing.ColorFromHex("9ca3af"), // gray-400
}

// RenderAllocationChart renders a PNG pie chart of portfolio allocation by
// market value, with cash as its own slice. Watched positions with zero
// value are skipped. Returns raw PNG bytes.
func RenderAllocationChart(summary *models.PortfolioSummary) ([]byte, error) {
	var values []chart.Value
	for _, h := range summary.Holdings {
		if h.TotalValue <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s $%.0f", h.Symbol, h.TotalValue),
			Value: h.TotalValue,
		})
	}
	if summary.CashBalance > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Cash $%.0f", summary.CashBalance),
			Value: summary.CashBalance,
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to chart: portfolio has no value")
	}

	for i := range values {
		values[i].Style = chart.Style{
			FillColor: sliceColors[i%len(sliceColors)],
			FontSize:  11,
		}
	}

	graph := chart.PieChart{
		Title:  "Portfolio Allocation",
		Width:  600,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
