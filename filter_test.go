package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cambra/aduana-dashboard/domain/models"
)

func TestFilterDataOpenFiltersKeepEverything(t *testing.T) {
	resetFilterCache()
	got := FilterData(scenarioTable(), openParams())
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, "A", got.Rows[0].Office)
	assert.Equal(t, "B", got.Rows[1].Office)
}

func TestFilterDataIsSubsetAndIdempotent(t *testing.T) {
	resetFilterCache()
	table := scenarioTable()
	params := openParams()
	params.Offices = []string{"B"}

	once := FilterData(table, params)
	for _, r := range once.Rows {
		assert.Equal(t, "B", r.Office)
	}
	assert.LessOrEqual(t, once.Len(), table.Len())

	// The filtered view is a distinct table, so this recomputes.
	twice := FilterData(once, params)
	assert.Equal(t, once.Rows, twice.Rows)
}

// Two tables filtered with the same tuple must never share a cache entry.
func TestFilterDataMemoKeyedByTable(t *testing.T) {
	resetFilterCache()
	params := wideOpenParams()

	full := scenarioTable()
	bOnly := &models.Table{Rows: []models.Record{rec("B", 30, 30, 200, 3)}}

	assert.Equal(t, 2, FilterData(full, params).Len())
	assert.Equal(t, 1, FilterData(bOnly, params).Len())
	assert.Equal(t, 2, FilterData(full, params).Len())
}

func TestFilterDataAllSentinel(t *testing.T) {
	resetFilterCache()
	params := openParams()
	params.Offices = []string{"all"}
	params.PortTypes = []string{"all"}
	assert.Equal(t, 2, FilterData(scenarioTable(), params).Len())
}

func TestFilterDataTopN(t *testing.T) {
	resetFilterCache()
	params := openParams()
	params.TopN = 1
	got := FilterData(scenarioTable(), params)
	// B has the greater summed total value.
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "B", got.Rows[0].Office)
}

// Top-N ranks offices over the rows surviving earlier predicates, not the
// original table.
func TestFilterDataTopNAfterMembership(t *testing.T) {
	resetFilterCache()
	params := openParams()
	params.Offices = []string{"A"}
	params.TopN = 1
	got := FilterData(scenarioTable(), params)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "A", got.Rows[0].Office)
}

func TestFilterDataPortType(t *testing.T) {
	resetFilterCache()
	table := &models.Table{Rows: []models.Record{
		rec("PUERTO VILLETA", 10, 20, 100, 5),
		rec("AEROPUERTO GUARANI", 30, 30, 200, 3),
		rec("CIUDAD DEL ESTE", 5, 6, 50, 2),
	}}
	params := wideOpenParams()
	params.PortTypes = []string{"Seaport", "Airport"}
	got := FilterData(table, params)
	assert.Equal(t, 2, got.Len())
	for _, r := range got.Rows {
		pt := string(ClassifyPort(r.Office))
		assert.Contains(t, []string{"Seaport", "Airport"}, pt)
	}
}

func TestFilterDataRangesAreInclusive(t *testing.T) {
	resetFilterCache()
	params := openParams()
	params.TotalMin, params.TotalMax = 100, 200
	got := FilterData(scenarioTable(), params)
	assert.Equal(t, 2, got.Len(), "both bounds are inclusive")

	resetFilterCache()
	params.TotalMin = 101
	got = FilterData(scenarioTable(), params)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "B", got.Rows[0].Office)
}

func TestFilterDataNullCellFailsRange(t *testing.T) {
	resetFilterCache()
	table := &models.Table{Rows: []models.Record{
		rec("A", 10, 20, 100, 5),
		{Office: "C", KiloNeto: fptr(7)}, // total, gross, merch missing
	}}
	got := FilterData(table, openParams())
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "A", got.Rows[0].Office)
}

func TestFilterDataEmptyResultIsValid(t *testing.T) {
	resetFilterCache()
	params := openParams()
	params.Offices = []string{"NO SUCH OFFICE"}
	got := FilterData(scenarioTable(), params)
	assert.Equal(t, 0, got.Len())
}

func TestFilterDataMemoizedByTuple(t *testing.T) {
	resetFilterCache()
	table := scenarioTable()
	a := FilterData(table, openParams())
	b := FilterData(table, openParams())
	assert.Same(t, a, b, "same tuple must hit the cache")

	params := openParams()
	params.TopN = 1
	c := FilterData(table, params)
	assert.NotSame(t, a, c)
}

func TestFilterParamsKeyOrderInsensitive(t *testing.T) {
	p1 := openParams()
	p1.Offices = []string{"A", "B"}
	p2 := openParams()
	p2.Offices = []string{"B", "A"}
	assert.Equal(t, p1.Key(), p2.Key())
}
