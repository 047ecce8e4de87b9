package main

import (
	"math"

	"github.com/cambra/aduana-dashboard/domain/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

func rec(office string, net, gross, total float64, merch int64) models.Record {
	return models.Record{
		Office:      office,
		KiloNeto:    fptr(net),
		KiloBruto:   fptr(gross),
		Total:       fptr(total),
		Mercaderias: iptr(merch),
	}
}

// The two-office table used across the scenario tests:
// A(total=100, net=10, gross=20, merch=5), B(total=200, net=30, gross=30, merch=3).
func scenarioTable() *models.Table {
	return &models.Table{Rows: []models.Record{
		rec("A", 10, 20, 100, 5),
		rec("B", 30, 30, 200, 3),
	}}
}

func openParams() models.FilterParams {
	return models.FilterParams{
		TotalMin: 0, TotalMax: 300,
		NetMin: 0, NetMax: 50,
		GrossMin: 0, GrossMax: 50,
		MerchMin: 0, MerchMax: 10,
	}
}

func wideOpenParams() models.FilterParams {
	inf := math.Inf(1)
	return models.FilterParams{
		TotalMin: math.Inf(-1), TotalMax: inf,
		NetMin: math.Inf(-1), NetMax: inf,
		GrossMin: math.Inf(-1), GrossMax: inf,
		MerchMin: math.Inf(-1), MerchMax: inf,
	}
}
