package main

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/cambra/aduana-dashboard/domain/models"
)

// ErrNoData marks an empty-input aggregation. It is an expected state, not a
// failure: the presentation layer renders a "no data" placeholder for it.
var ErrNoData = errors.New("no data")

// Hard cap on aggregated rows handed to the rendering layer.
const maxTableRows = 10000

const (
	MetricTotal       = "total"
	MetricKiloNeto    = "kilo_neto"
	MetricKiloBruto   = "kilo_bruto"
	MetricMercaderias = "mercaderias_distintas"
)

var radarMetricLabels = []string{
	"Total Value", "Net Weight (kg)", "Merchandise Types", "Weight Efficiency", "Value per kg",
}

// aggregatePorts groups rows by office and sums the four numeric fields,
// null cells contributing nothing. Output is ordered alphabetically so the
// same row set yields the same slice regardless of input order.
func aggregatePorts(rows []models.Record) []models.PortStats {
	byOffice := map[string]*models.PortStats{}
	for _, r := range rows {
		s, ok := byOffice[r.Office]
		if !ok {
			s = &models.PortStats{Office: r.Office}
			byOffice[r.Office] = s
		}
		if r.Total != nil {
			s.Total += *r.Total
		}
		if r.KiloNeto != nil {
			s.KiloNeto += *r.KiloNeto
		}
		if r.KiloBruto != nil {
			s.KiloBruto += *r.KiloBruto
		}
		if r.Mercaderias != nil {
			s.Mercaderias += float64(*r.Mercaderias)
		}
	}
	out := make([]models.PortStats, 0, len(byOffice))
	for _, s := range byOffice {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Office < out[j].Office })
	return out
}

// denseRanks assigns descending dense ranks: the greatest value gets 1, tied
// values share a rank and the next distinct value follows without a gap.
func denseRanks(values []float64) []int {
	distinct := map[float64]struct{}{}
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	sorted := make([]float64, 0, len(distinct))
	for v := range distinct {
		sorted = append(sorted, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	rank := make(map[float64]int, len(sorted))
	for i, v := range sorted {
		rank[v] = i + 1
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = rank[v]
	}
	return out
}

// RankingTable builds the grid rows: per-office sums with independent dense
// ranks for total value, net weight and merchandise count, sorted by total
// value descending, capped at maxTableRows.
func RankingTable(rows []models.Record) ([]models.PortStats, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	stats := aggregatePorts(rows)

	totals := make([]float64, len(stats))
	weights := make([]float64, len(stats))
	merch := make([]float64, len(stats))
	for i, s := range stats {
		totals[i], weights[i], merch[i] = s.Total, s.KiloNeto, s.Mercaderias
	}
	tr, wr, dr := denseRanks(totals), denseRanks(weights), denseRanks(merch)
	for i := range stats {
		stats[i].TotalRank, stats[i].WeightRank, stats[i].DiversityRank = tr[i], wr[i], dr[i]
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	if len(stats) > maxTableRows {
		stats = stats[:maxTableRows]
	}
	return stats, nil
}

// topOfficesByValue ranks offices by summed total value over rows and returns
// the first n names. Ties fall back to the alphabetical order aggregatePorts
// produces, kept stable by the sort.
func topOfficesByValue(rows []models.Record, n int) []string {
	stats := aggregatePorts(rows)
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	if n > len(stats) {
		n = len(stats)
	}
	out := make([]string, 0, n)
	for _, s := range stats[:n] {
		out = append(out, s.Office)
	}
	return out
}

// TopPortsBar ranks offices by summed total value in the requested order and
// keeps the first n. The emitted order is then inverted when descending was
// requested: the horizontal bar draws bottom-up, so ascending emission puts
// the largest bar on top. Preserved exactly as the source system behaves.
func TopPortsBar(rows []models.Record, n int, order string) ([]models.BarEntry, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if n <= 0 {
		n = 10
	}
	asc := order == "asc"

	stats := aggregatePorts(rows)
	sort.SliceStable(stats, func(i, j int) bool {
		if asc {
			return stats[i].Total < stats[j].Total
		}
		return stats[i].Total > stats[j].Total
	})
	if n < len(stats) {
		stats = stats[:n]
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if asc {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Total < stats[j].Total
	})

	out := make([]models.BarEntry, 0, len(stats))
	for _, s := range stats {
		out = append(out, models.BarEntry{Office: s.Office, Value: s.Total})
	}
	return out, nil
}

// DiversityRanking applies the extra merchandise-count bounds on top of the
// already filtered rows, then sorts rows descending by the chosen metric.
// Rows whose chosen metric is null are dropped.
func DiversityRanking(rows []models.Record, metric string, minMerch, maxMerch float64) ([]models.BarEntry, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	switch metric {
	case MetricMercaderias, MetricTotal, MetricKiloNeto:
	default:
		metric = MetricMercaderias
	}

	out := []models.BarEntry{}
	for _, r := range rows {
		if r.Mercaderias == nil || float64(*r.Mercaderias) < minMerch || float64(*r.Mercaderias) > maxMerch {
			continue
		}
		v, ok := metricValue(r, metric)
		if !ok {
			continue
		}
		out = append(out, models.BarEntry{Office: r.Office, Value: v})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > maxTableRows {
		out = out[:maxTableRows]
	}
	return out, nil
}

func metricValue(r models.Record, metric string) (float64, bool) {
	switch metric {
	case MetricTotal:
		if r.Total != nil {
			return *r.Total, true
		}
	case MetricKiloNeto:
		if r.KiloNeto != nil {
			return *r.KiloNeto, true
		}
	case MetricKiloBruto:
		if r.KiloBruto != nil {
			return *r.KiloBruto, true
		}
	case MetricMercaderias:
		if r.Mercaderias != nil {
			return float64(*r.Mercaderias), true
		}
	}
	return 0, false
}

// ScatterPoints drops rows null in the selected weight column, total value or
// merchandise count, then sizes each point by min-max normalizing merchandise
// count into [5,50] pixels scaled by factor (clamped to [0.1,2.0]). A zero
// merchandise range sizes every point at the top of the range, mirroring the
// radar zero-range policy.
func ScatterPoints(rows []models.Record, weightType string, factor float64) ([]models.ScatterPoint, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if weightType != MetricKiloBruto {
		weightType = MetricKiloNeto
	}
	if factor < 0.1 {
		factor = 0.1
	}
	if factor > 2.0 {
		factor = 2.0
	}

	pts := []models.ScatterPoint{}
	minM, maxM := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		w, ok := metricValue(r, weightType)
		if !ok || r.Total == nil || r.Mercaderias == nil {
			continue
		}
		m := float64(*r.Mercaderias)
		minM = math.Min(minM, m)
		maxM = math.Max(maxM, m)
		pts = append(pts, models.ScatterPoint{Office: r.Office, Weight: w, Total: *r.Total, Mercaderias: m})
	}
	if len(pts) == 0 {
		return nil, ErrNoData
	}

	minSize, maxSize := 5*factor, 50*factor
	for i := range pts {
		frac := 1.0
		if maxM > minM {
			frac = (pts[i].Mercaderias - minM) / (maxM - minM)
		}
		pts[i].Size = minSize + (maxSize-minSize)*frac
	}
	return pts, nil
}

// TreemapNodes groups rows by office, rescales for display (weight in
// millions of kg, value on the trillions scale) and trims offices below the
// 5th-percentile weight so the treemap stays legible. The trim threshold is
// fixed, not user-configurable.
func TreemapNodes(rows []models.Record, weightType string) ([]models.TreemapNode, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if weightType != MetricKiloBruto {
		weightType = MetricKiloNeto
	}
	stats := aggregatePorts(rows)

	nodes := make([]models.TreemapNode, 0, len(stats))
	weights := make([]float64, 0, len(stats))
	for _, s := range stats {
		w := s.KiloNeto
		if weightType == MetricKiloBruto {
			w = s.KiloBruto
		}
		n := models.TreemapNode{
			Office:         s.Office,
			WeightMillions: w / 1e6,
			ValueTrillions: s.Total / 1e12,
			Mercaderias:    s.Mercaderias,
		}
		nodes = append(nodes, n)
		weights = append(weights, n.WeightMillions)
	}

	threshold := Quantile(weights, 0.05)
	kept := nodes[:0]
	for _, n := range nodes {
		if n.WeightMillions >= threshold {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoData
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].WeightMillions > kept[j].WeightMillions })
	return kept, nil
}

// Quantile returns the p-quantile of values using linear interpolation
// between the two nearest order statistics at position p*(n-1).
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(pos)]
	}
	return sorted[int(lo)] + (pos-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// RadarChart aggregates the selected offices and computes the five radar
// metrics per office: total value, net weight, merchandise count, weight
// efficiency (net/gross) and value per kg (total/net). Both ratios coerce
// division-by-zero artifacts to 0. With normalize set, each metric is min-max
// scaled to [0,1] across the selected offices; a zero-range metric maps to a
// constant 1.0. Each series is closed by repeating its first value.
func RadarChart(rows []models.Record, selected []string, normalize bool) (*models.RadarData, error) {
	if len(rows) == 0 || len(selected) == 0 {
		return nil, ErrNoData
	}
	picked := keepRows(rows, func(r models.Record) bool {
		for _, o := range selected {
			if r.Office == o {
				return true
			}
		}
		return false
	})
	if len(picked) == 0 {
		return nil, ErrNoData
	}

	stats := aggregatePorts(picked)
	metrics := make([][]float64, len(stats))
	for i, s := range stats {
		metrics[i] = []float64{
			s.Total,
			s.KiloNeto,
			s.Mercaderias,
			sanitizeRatio(s.KiloNeto, s.KiloBruto),
			sanitizeRatio(s.Total, s.KiloNeto),
		}
	}

	nMetrics := len(radarMetricLabels)
	maxes := make([]float64, nMetrics)
	if normalize {
		for m := 0; m < nMetrics; m++ {
			lo, hi := math.Inf(1), math.Inf(-1)
			for i := range metrics {
				lo = math.Min(lo, metrics[i][m])
				hi = math.Max(hi, metrics[i][m])
			}
			for i := range metrics {
				if hi > lo {
					metrics[i][m] = (metrics[i][m] - lo) / (hi - lo)
				} else {
					metrics[i][m] = 1.0
				}
			}
			maxes[m] = 1.0
		}
	} else {
		for m := 0; m < nMetrics; m++ {
			for i := range metrics {
				maxes[m] = math.Max(maxes[m], metrics[i][m])
			}
		}
	}

	out := &models.RadarData{
		Metrics:    append([]string{}, radarMetricLabels...),
		Max:        maxes,
		Normalized: normalize,
	}
	for i, s := range stats {
		closed := append(append([]float64{}, metrics[i]...), metrics[i][0])
		out.Series = append(out.Series, models.RadarSeries{Office: s.Office, Values: closed})
	}
	return out, nil
}

// sanitizeRatio is num/den with NaN and infinities coerced to 0, the single
// policy for derived ratios across all components.
func sanitizeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SummaryCards computes the KPI card strings over the filtered rows.
func SummaryCards(rows []models.Record) models.Cards {
	if len(rows) == 0 {
		return models.NoDataCards()
	}

	totalWeight := 0.0
	totalValue := 0.0
	topPort := ""
	topWeight := math.Inf(-1)
	for _, r := range rows {
		if r.KiloNeto != nil {
			totalWeight += *r.KiloNeto
			if *r.KiloNeto > topWeight {
				topWeight = *r.KiloNeto
				topPort = r.Office
			}
		}
		if r.Total != nil {
			totalValue += *r.Total
		}
	}
	tons := totalWeight / 1000
	if name := []rune(topPort); len(name) > 20 {
		topPort = string(name[:20]) + "..."
	}
	return models.Cards{
		TotalPorts:      formatInt(int64(len(rows))),
		TotalWeightTons: formatFloat0(tons),
		AvgWeightTons:   formatFloat0(tons / float64(len(rows))),
		TopPort:         topPort,
		TotalValue:      "$" + formatFloat0(totalValue),
	}
}

// UniqueOffices lists the distinct non-empty office names, sorted.
func UniqueOffices(rows []models.Record) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		if r.Office != "" {
			seen[r.Office] = true
		}
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

func formatInt(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strings.Builder{}
	digits := []byte{}
	for {
		digits = append(digits, byte('0'+v%10))
		v /= 10
		if v == 0 {
			break
		}
	}
	if neg {
		s.WriteByte('-')
	}
	for i := len(digits) - 1; i >= 0; i-- {
		s.WriteByte(digits[i])
		if i > 0 && i%3 == 0 {
			s.WriteByte(',')
		}
	}
	return s.String()
}

func formatFloat0(v float64) string {
	return formatInt(int64(math.Round(v)))
}
