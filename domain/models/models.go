package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type PortType string

const (
	PortTypeAirport    PortType = "Airport"
	PortTypeSeaport    PortType = "Seaport"
	PortTypeFreeZone   PortType = "Free Zone"
	PortTypeLandBorder PortType = "Land Border"
)

// Record is one row of the imports dataset. Numeric fields are pointers
// because the source files carry empty cells.
type Record struct {
	Office      string   `json:"aduana"`
	KiloNeto    *float64 `json:"kilo_neto"`
	KiloBruto   *float64 `json:"kilo_bruto"`
	Total       *float64 `json:"total"`
	Mercaderias *int64   `json:"mercaderias_distintas"`
}

// AllNull reports whether every field of the row is empty. Such rows are
// dropped at load time.
func (r Record) AllNull() bool {
	return strings.TrimSpace(r.Office) == "" &&
		r.KiloNeto == nil && r.KiloBruto == nil && r.Total == nil && r.Mercaderias == nil
}

type Table struct {
	Rows []Record
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FilterParams is the eleven-value filter tuple built from one dashboard
// interaction. Empty Offices/PortTypes slices mean "all"; TopN == 0 means
// "all".
type FilterParams struct {
	Offices   []string
	TopN      int
	PortTypes []string

	TotalMin, TotalMax float64
	NetMin, NetMax     float64
	GrossMin, GrossMax float64
	MerchMin, MerchMax float64
}

func (p FilterParams) AllOffices() bool {
	if len(p.Offices) == 0 {
		return true
	}
	for _, o := range p.Offices {
		if o == "all" {
			return true
		}
	}
	return false
}

func (p FilterParams) AllTypes() bool {
	if len(p.PortTypes) == 0 {
		return true
	}
	for _, t := range p.PortTypes {
		if t == "all" {
			return true
		}
	}
	return false
}

// Key serializes the tuple for memoization. Slices are sorted so the same
// selection in a different order hits the same cache entry.
func (p FilterParams) Key() string {
	offices := append([]string{}, p.Offices...)
	sort.Strings(offices)
	types := append([]string{}, p.PortTypes...)
	sort.Strings(types)
	b := strings.Builder{}
	b.WriteString(strings.Join(offices, "\x1f"))
	b.WriteString("|")
	b.WriteString(strconv.Itoa(p.TopN))
	b.WriteString("|")
	b.WriteString(strings.Join(types, "\x1f"))
	for _, v := range []float64{p.TotalMin, p.TotalMax, p.NetMin, p.NetMax, p.GrossMin, p.GrossMax, p.MerchMin, p.MerchMax} {
		b.WriteString("|")
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// PortStats is one aggregated row of the ranking table: per-office sums plus
// dense ranks (1 = highest, ties share a rank).
type PortStats struct {
	Office        string  `json:"aduana"`
	Total         float64 `json:"total"`
	KiloNeto      float64 `json:"kilo_neto"`
	KiloBruto     float64 `json:"kilo_bruto"`
	Mercaderias   float64 `json:"mercaderias_distintas"`
	TotalRank     int     `json:"total_rank"`
	WeightRank    int     `json:"weight_rank"`
	DiversityRank int     `json:"diversity_rank"`
}

type BarEntry struct {
	Office string  `json:"aduana"`
	Value  float64 `json:"value"`
}

type ScatterPoint struct {
	Office      string  `json:"aduana"`
	Weight      float64 `json:"weight"`
	Total       float64 `json:"total"`
	Mercaderias float64 `json:"mercaderias_distintas"`
	Size        float64 `json:"size"`
}

type TreemapNode struct {
	Office         string  `json:"aduana"`
	WeightMillions float64 `json:"weight_millions"`
	ValueTrillions float64 `json:"value_trillions"`
	Mercaderias    float64 `json:"mercaderias_distintas"`
}

// RadarSeries holds one port's polygon. Values is closed: the first metric
// value is repeated at the end.
type RadarSeries struct {
	Office string    `json:"aduana"`
	Values []float64 `json:"values"`
}

type RadarData struct {
	Metrics    []string      `json:"metrics"`
	Max        []float64     `json:"max"`
	Normalized bool          `json:"normalized"`
	Series     []RadarSeries `json:"series"`
}

// Cards carries the formatted KPI strings for the summary row.
type Cards struct {
	TotalPorts      string `json:"total_ports"`
	TotalWeightTons string `json:"total_weight_tons"`
	AvgWeightTons   string `json:"avg_weight_tons"`
	TopPort         string `json:"top_port"`
	TotalValue      string `json:"total_value"`
}

func NoDataCards() Cards {
	return Cards{"No Data", "No Data", "No Data", "No Data", "No Data"}
}

func (c Cards) String() string {
	return fmt.Sprintf("ports=%s weight=%s avg=%s top=%s value=%s",
		c.TotalPorts, c.TotalWeightTons, c.AvgWeightTons, c.TopPort, c.TotalValue)
}
