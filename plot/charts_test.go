package plot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cambra/aduana-dashboard/domain/models"
)

func TestRankingBarRenders(t *testing.T) {
	bar := RankingBar([]models.BarEntry{
		{Office: "PUERTO VILLETA", Value: 2e12},
		{Office: "AEROPUERTO", Value: 1e12},
	})
	var buf bytes.Buffer
	require.NoError(t, bar.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "PUERTO VILLETA")
	assert.Contains(t, html, "Port Ranking by Total Import Value")
}

func TestVolumeValueScatterSymbolSizes(t *testing.T) {
	sc := VolumeValueScatter([]models.ScatterPoint{
		{Office: "A", Weight: 10, Total: 100, Size: 49.6},
	}, "Net Weight")
	var buf bytes.Buffer
	require.NoError(t, sc.Render(&buf))
	assert.Contains(t, buf.String(), "Port Volume vs Monetary Value")
}

func TestWeightTreemapScalesToTons(t *testing.T) {
	tm := WeightTreemap([]models.TreemapNode{
		{Office: "A", WeightMillions: 1.5, ValueTrillions: 0.2},
	}, "Net Weight")
	var buf bytes.Buffer
	require.NoError(t, tm.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "A (0.20T)")
	// 1.5M kg becomes 1500 tons in the node value.
	assert.Contains(t, html, "1500")
}

func TestPerformanceRadarSlicesClosedSeries(t *testing.T) {
	data := &models.RadarData{
		Metrics: []string{"m1", "m2", "m3"},
		Max:     []float64{1, 1, 0},
		Series: []models.RadarSeries{
			{Office: "A", Values: []float64{0.5, 1, 0.25, 0.5}},
		},
	}
	radar := PerformanceRadar(data)
	var buf bytes.Buffer
	require.NoError(t, radar.Render(&buf))
	assert.Contains(t, buf.String(), "Port Performance Radar")
}

func TestNoDataChart(t *testing.T) {
	bar := NoDataChart("Port Ranking")
	var buf bytes.Buffer
	require.NoError(t, bar.Render(&buf))
	assert.Contains(t, buf.String(), "No data is available to display")
}

func TestNewDashboardPage(t *testing.T) {
	page := NewDashboardPage(NoDataChart("a"), NoDataChart("b"))
	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), "Paraguay Import Ports Analysis")
}
