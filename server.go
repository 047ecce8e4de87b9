package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/cambra/aduana-dashboard/domain/models"
	"github.com/cambra/aduana-dashboard/plot"
)

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleDashboard)
	mux.HandleFunc("/upload", handleUpload)
	mux.HandleFunc("/api/filters", apiFilters)
	mux.HandleFunc("/api/cards", apiCards)
	mux.HandleFunc("/api/table", apiTable)
	mux.HandleFunc("/api/ranking", apiRanking)
	mux.HandleFunc("/api/scatter", apiScatter)
	mux.HandleFunc("/api/diversity", apiDiversity)
	mux.HandleFunc("/api/treemap", apiTreemap)
	mux.HandleFunc("/api/radar", apiRadar)
	mux.HandleFunc("/export/ranking.png", exportRankingPNG)
	mux.HandleFunc("/export/table.csv", exportTableCSV)
	return mux
}

// parseFilterParams reads the eleven filter values from the query string.
// Absent selections mean "all", absent bounds leave the range open.
func parseFilterParams(r *http.Request) models.FilterParams {
	q := r.URL.Query()
	p := models.FilterParams{
		Offices:   queryList(q.Get("port_selection")),
		PortTypes: queryList(q.Get("port_type")),
		TotalMin:  queryFloat(q.Get("total_value_min"), math.Inf(-1)),
		TotalMax:  queryFloat(q.Get("total_value_max"), math.Inf(1)),
		NetMin:    queryFloat(q.Get("net_weight_min"), math.Inf(-1)),
		NetMax:    queryFloat(q.Get("net_weight_max"), math.Inf(1)),
		GrossMin:  queryFloat(q.Get("gross_weight_min"), math.Inf(-1)),
		GrossMax:  queryFloat(q.Get("gross_weight_max"), math.Inf(1)),
		MerchMin:  queryFloat(q.Get("merchandise_count_min"), math.Inf(-1)),
		MerchMax:  queryFloat(q.Get("merchandise_count_max"), math.Inf(1)),
	}
	if v := q.Get("top_ports_filter"); v != "" && v != "all" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.TopN = n
		}
	}
	return p
}

func queryList(v string) []string {
	if v == "" || v == "all" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func queryFloat(v string, def float64) float64 {
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func queryFloatClamped(v string, def, lo, hi float64) float64 {
	f := queryFloat(v, def)
	return math.Min(hi, math.Max(lo, f))
}

// componentResponse is the per-component result envelope. A failing
// component reports its own error here; nothing propagates to its siblings.
type componentResponse struct {
	Data   interface{} `json:"data,omitempty"`
	NoData bool        `json:"no_data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func writeComponent(w http.ResponseWriter, data interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	resp := componentResponse{}
	switch {
	case err == ErrNoData:
		resp.NoData = true
	case err != nil:
		log.Printf("component error: %v", err)
		resp.Error = err.Error()
	default:
		resp.Data = data
	}
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Printf("encode response: %v", encErr)
	}
}

func filteredRows(r *http.Request) []models.Record {
	return FilterData(ActiveTable(), parseFilterParams(r)).Rows
}

// filterOptions feeds the dashboard controls: distinct offices, port types
// present and the data bounds for the four numeric ranges.
type filterOptions struct {
	Offices   []string   `json:"offices"`
	PortTypes []string   `json:"port_types"`
	Total     [2]float64 `json:"total"`
	KiloNeto  [2]float64 `json:"kilo_neto"`
	KiloBruto [2]float64 `json:"kilo_bruto"`
	Merch     [2]float64 `json:"mercaderias_distintas"`
}

func apiFilters(w http.ResponseWriter, r *http.Request) {
	rows := ActiveTable().Rows
	if len(rows) == 0 {
		writeComponent(w, nil, ErrNoData)
		return
	}
	offices := UniqueOffices(rows)
	opts := filterOptions{
		Offices:   offices,
		PortTypes: PortTypesPresent(offices),
		Total:     metricBounds(rows, MetricTotal),
		KiloNeto:  metricBounds(rows, MetricKiloNeto),
		KiloBruto: metricBounds(rows, MetricKiloBruto),
		Merch:     metricBounds(rows, MetricMercaderias),
	}
	writeComponent(w, opts, nil)
}

func metricBounds(rows []models.Record, metric string) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		if v, ok := metricValue(r, metric); ok {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return [2]float64{0, 0}
	}
	return [2]float64{lo, hi}
}

func apiCards(w http.ResponseWriter, r *http.Request) {
	writeComponent(w, SummaryCards(filteredRows(r)), nil)
}

func apiTable(w http.ResponseWriter, r *http.Request) {
	stats, err := RankingTable(filteredRows(r))
	writeComponent(w, stats, err)
}

func apiRanking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n := int(queryFloat(q.Get("top_n"), 10))
	entries, err := TopPortsBar(filteredRows(r), n, q.Get("sort_order"))
	writeComponent(w, entries, err)
}

func apiScatter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	factor := queryFloatClamped(q.Get("size_factor"), 1.0, 0.1, 2.0)
	points, err := ScatterPoints(filteredRows(r), q.Get("weight_type"), factor)
	writeComponent(w, points, err)
}

func apiDiversity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := DiversityRanking(
		filteredRows(r),
		q.Get("sort_metric"),
		queryFloat(q.Get("min_merchandise"), math.Inf(-1)),
		queryFloat(q.Get("max_merchandise"), math.Inf(1)),
	)
	writeComponent(w, entries, err)
}

func apiTreemap(w http.ResponseWriter, r *http.Request) {
	nodes, err := TreemapNodes(filteredRows(r), r.URL.Query().Get("weight_type"))
	writeComponent(w, nodes, err)
}

func apiRadar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows := filteredRows(r)
	selected := queryList(q.Get("ports"))
	if len(selected) == 0 {
		selected = defaultRadarPorts(ActiveTable().Rows)
	}
	data, err := RadarChart(rows, selected, q.Get("normalize") != "false")
	writeComponent(w, data, err)
}

// defaultRadarPorts mirrors the dashboard default: the three biggest offices
// by total value out of the top ten.
func defaultRadarPorts(rows []models.Record) []string {
	top := topOfficesByValue(rows, 10)
	if len(top) > 3 {
		top = top[:3]
	}
	return top
}

func exportRankingPNG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n := int(queryFloat(q.Get("top_n"), 10))
	entries, err := TopPortsBar(filteredRows(r), n, q.Get("sort_order"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	png, err := DrawRankingBar(entries)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func exportTableCSV(w http.ResponseWriter, r *http.Request) {
	stats, err := RankingTable(filteredRows(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="port_rankings.csv"`)
	cw := csv.NewWriter(w)
	cw.Write([]string{"total_rank", "aduana", "total", "kilo_neto", "kilo_bruto", "mercaderias_distintas", "weight_rank", "diversity_rank"})
	for _, s := range stats {
		cw.Write([]string{
			strconv.Itoa(s.TotalRank),
			s.Office,
			strconv.FormatFloat(s.Total, 'f', -1, 64),
			strconv.FormatFloat(s.KiloNeto, 'f', -1, 64),
			strconv.FormatFloat(s.KiloBruto, 'f', -1, 64),
			strconv.FormatFloat(s.Mercaderias, 'f', -1, 64),
			strconv.Itoa(s.WeightRank),
			strconv.Itoa(s.DiversityRank),
		})
	}
	cw.Flush()
}

// handleDashboard renders the full page: KPI cards, the four charts and the
// ranking grid, all driven by the same filter parameters. Each component
// degrades independently; one failure never blanks the page.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	rows := filteredRows(r)

	var chartList []components.Charter

	if entries, err := TopPortsBar(rows, int(queryFloat(q.Get("top_n"), 10)), q.Get("sort_order")); err == nil {
		chartList = append(chartList, plot.RankingBar(entries))
	} else {
		chartList = append(chartList, plot.NoDataChart("Port Ranking by Total Import Value"))
	}

	factor := queryFloatClamped(q.Get("size_factor"), 1.0, 0.1, 2.0)
	weightType := q.Get("weight_type")
	weightLabel := "Net Weight"
	if weightType == MetricKiloBruto {
		weightLabel = "Gross Weight"
	}
	if points, err := ScatterPoints(rows, weightType, factor); err == nil {
		chartList = append(chartList, plot.VolumeValueScatter(points, weightLabel))
	} else {
		chartList = append(chartList, plot.NoDataChart("Port Volume vs Monetary Value"))
	}

	if entries, err := DiversityRanking(rows, q.Get("sort_metric"),
		queryFloat(q.Get("min_merchandise"), math.Inf(-1)),
		queryFloat(q.Get("max_merchandise"), math.Inf(1))); err == nil {
		chartList = append(chartList, plot.DiversityBar(entries, diversityMetricLabel(q.Get("sort_metric"))))
	} else {
		chartList = append(chartList, plot.NoDataChart("Merchandise Diversity Ranking by Port"))
	}

	if nodes, err := TreemapNodes(rows, weightType); err == nil {
		chartList = append(chartList, plot.WeightTreemap(nodes, weightLabel))
	} else {
		chartList = append(chartList, plot.NoDataChart("Port Weight Distribution"))
	}

	selected := queryList(q.Get("ports"))
	if len(selected) == 0 {
		selected = defaultRadarPorts(ActiveTable().Rows)
	}
	if data, err := RadarChart(rows, selected, q.Get("normalize") != "false"); err == nil {
		chartList = append(chartList, plot.PerformanceRadar(data))
	} else {
		chartList = append(chartList, plot.NoDataChart("Port Performance Radar"))
	}

	page := plot.NewDashboardPage(chartList...)
	buf := &bytes.Buffer{}
	if err := page.Render(buf); err != nil {
		log.Printf("render dashboard: %v", err)
		http.Error(w, "error rendering dashboard", http.StatusInternalServerError)
		return
	}

	// Cards and the ranking grid go below the charts, inside the same page.
	extra := fmt.Sprintf("<div style='margin:20px'>%s</div>", GenerateCardsHTML(SummaryCards(rows)))
	if stats, err := RankingTable(rows); err == nil {
		extra += fmt.Sprintf("<div style='margin:20px'>%s</div>", GenerateRankingTableHTML(stats))
	}
	html := strings.Replace(buf.String(), "</body>", extra+"</body>", 1)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func diversityMetricLabel(metric string) string {
	switch metric {
	case MetricTotal:
		return "Total Value"
	case MetricKiloNeto:
		return "Net Weight (kg)"
	default:
		return "Merchandise Count"
	}
}
