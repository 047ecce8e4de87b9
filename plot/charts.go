package plot

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cambra/aduana-dashboard/domain/models"
)

// RankingBar renders the top-N offices as a horizontal bar chart. Entries
// arrive already in emission order; values are shown on the trillions scale.
func RankingBar(entries []models.BarEntry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Port Ranking by Total Import Value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Total Import Value (Trillions)"}),
	)

	offices := make([]string, 0, len(entries))
	data := make([]opts.BarData, 0, len(entries))
	for _, e := range entries {
		offices = append(offices, e.Office)
		data = append(data, opts.BarData{Value: e.Value / 1e12})
	}
	bar.SetXAxis(offices).AddSeries("total", data)
	bar.XYReversal()
	return bar
}

// DiversityBar renders the row-level metric ranking as vertical bars.
func DiversityBar(entries []models.BarEntry, metricLabel string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Merchandise Diversity Ranking by Port"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: metricLabel}),
	)

	offices := make([]string, 0, len(entries))
	data := make([]opts.BarData, 0, len(entries))
	for _, e := range entries {
		offices = append(offices, e.Office)
		data = append(data, opts.BarData{Value: e.Value})
	}
	bar.SetXAxis(offices).AddSeries(metricLabel, data)
	return bar
}

// VolumeValueScatter plots weight against value, symbol size carrying the
// merchandise diversity.
func VolumeValueScatter(points []models.ScatterPoint, weightLabel string) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Port Volume vs Monetary Value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: weightLabel + " (kg)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Monetary Value", Type: "value"}),
	)

	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{
			Name:       p.Office,
			Value:      []interface{}{p.Weight, p.Total},
			SymbolSize: int(math.Round(p.Size)),
		})
	}
	sc.AddSeries("ports", data)
	return sc
}

// WeightTreemap shows the weight distribution across offices.
func WeightTreemap(nodes []models.TreemapNode, weightLabel string) *charts.TreeMap {
	tm := charts.NewTreeMap()
	tm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Port Weight Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Formatter: opts.FuncOpts("function(p){return p.name+': '+(p.value/1000).toFixed(1)+'M kg';}"),
		}),
	)

	// Node values are tons: the treemap data type is integral and million-kg
	// magnitudes would truncate badly.
	data := make([]opts.TreeMapNode, 0, len(nodes))
	for _, n := range nodes {
		data = append(data, opts.TreeMapNode{
			Name:  fmt.Sprintf("%s (%.2fT)", n.Office, n.ValueTrillions),
			Value: int(math.Round(n.WeightMillions * 1000)),
		})
	}
	tm.AddSeries(weightLabel, data)
	return tm
}

// PerformanceRadar draws one closed polygon per selected office over the five
// performance metrics. The series values arrive closed (first metric repeated
// at the end); the indicator axis only carries the five distinct metrics, so
// the closing value is sliced off here.
func PerformanceRadar(data *models.RadarData) *charts.Radar {
	radar := charts.NewRadar()

	indicators := make([]*opts.Indicator, 0, len(data.Metrics))
	for i, m := range data.Metrics {
		max := data.Max[i]
		if max <= 0 {
			max = 1
		}
		indicators = append(indicators, &opts.Indicator{Name: m, Max: float32(max)})
	}
	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Port Performance Radar"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	series := make([]opts.RadarData, 0, len(data.Series))
	for _, s := range data.Series {
		values := s.Values
		if len(values) > len(data.Metrics) {
			values = values[:len(data.Metrics)]
		}
		series = append(series, opts.RadarData{Name: s.Office, Value: values})
	}
	radar.AddSeries("ports", series)
	return radar
}

// NoDataChart is the placeholder rendered when a component has nothing to
// show, distinct from its error state.
func NoDataChart(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data is available to display"}),
	)
	return bar
}

// NewDashboardPage assembles the chart components into one page.
func NewDashboardPage(chartComponents ...components.Charter) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Paraguay Import Ports Analysis"
	page.AddCharts(chartComponents...)
	return page
}
