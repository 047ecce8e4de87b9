package main

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cambra/aduana-dashboard/domain/models"
)

// DrawRankingBar renders the top-N ranking as a PNG for download. Bars are
// drawn in the emitted order with values on the trillions scale.
func DrawRankingBar(entries []models.BarEntry) ([]byte, error) {
	var bars []chart.Value
	for _, e := range entries {
		bars = append(bars, chart.Value{
			Value: e.Value / 1e12,
			Label: e.Office,
		})
	}

	graph := chart.BarChart{
		Title: "Port Ranking by Total Import Value (Trillions)",
		Background: chart.Style{
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorBlue,
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 120,
			},
		},
		Height:   1024,
		Width:    2028,
		BarWidth: 60,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name: "Total Import Value (Trillions)",
		},
	}
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}
