package main

import (
	"fmt"
	"sync"

	"github.com/pivolan/go_utils"

	"github.com/cambra/aduana-dashboard/domain/models"
)

var (
	filterMu    sync.Mutex
	filterCache = map[string]*models.Table{}
)

func resetFilterCache() {
	filterMu.Lock()
	filterCache = map[string]*models.Table{}
	filterMu.Unlock()
}

// FilterData applies the dashboard filter chain to table and returns a fresh
// view. Predicate order is fixed: office membership, top-N by summed total
// value over the rows surviving so far, port type, then the four inclusive
// numeric ranges. Results are memoized by the source table identity plus the
// parameter tuple; cached views are shared and must not be mutated.
func FilterData(table *models.Table, params models.FilterParams) *models.Table {
	key := fmt.Sprintf("%p|%d|%s", table, datasetGeneration(), params.Key())
	filterMu.Lock()
	if t, ok := filterCache[key]; ok {
		filterMu.Unlock()
		return t
	}
	filterMu.Unlock()

	rows := table.Rows

	if !params.AllOffices() {
		rows = keepRows(rows, func(r models.Record) bool {
			return go_utils.InArray(r.Office, params.Offices)
		})
	}

	if params.TopN > 0 {
		top := topOfficesByValue(rows, params.TopN)
		rows = keepRows(rows, func(r models.Record) bool {
			return go_utils.InArray(r.Office, top)
		})
	}

	if !params.AllTypes() {
		rows = keepRows(rows, func(r models.Record) bool {
			return go_utils.InArray(string(ClassifyPort(r.Office)), params.PortTypes)
		})
	}

	// A null cell never satisfies a range bound, matching the source system
	// where comparisons against missing values exclude the row.
	rows = keepRows(rows, func(r models.Record) bool {
		return floatInRange(r.Total, params.TotalMin, params.TotalMax)
	})
	rows = keepRows(rows, func(r models.Record) bool {
		return floatInRange(r.KiloNeto, params.NetMin, params.NetMax)
	})
	rows = keepRows(rows, func(r models.Record) bool {
		return floatInRange(r.KiloBruto, params.GrossMin, params.GrossMax)
	})
	rows = keepRows(rows, func(r models.Record) bool {
		return intInRange(r.Mercaderias, params.MerchMin, params.MerchMax)
	})

	out := &models.Table{Rows: rows}
	filterMu.Lock()
	filterCache[key] = out
	filterMu.Unlock()
	return out
}

func keepRows(rows []models.Record, pred func(models.Record) bool) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func floatInRange(v *float64, min, max float64) bool {
	return v != nil && *v >= min && *v <= max
}

func intInRange(v *int64, min, max float64) bool {
	return v != nil && float64(*v) >= min && float64(*v) <= max
}
