package main

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cambra/aduana-dashboard/domain/models"
)

var rankingHeader = table.Row{
	"Rank (Total Value)", "Port/Customs (Aduana)", "Total Value",
	"Net Weight (kg)", "Gross Weight (kg)", "Merchandise Types",
	"Weight Rank", "Diversity Rank",
}

func rankingWriter(stats []models.PortStats) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(rankingHeader)
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.TotalRank,
			s.Office,
			formatFloat0(s.Total),
			formatFloat0(s.KiloNeto),
			formatFloat0(s.KiloBruto),
			formatFloat0(s.Mercaderias),
			s.WeightRank,
			s.DiversityRank,
		})
	}
	t.SetStyle(table.StyleLight)
	return t
}

// GenerateRankingTableHTML renders the ranking grid for the dashboard page.
func GenerateRankingTableHTML(stats []models.PortStats) string {
	return rankingWriter(stats).RenderHTML()
}

// GenerateRankingTable renders the ranking grid as text, used for logs and
// the CLI-style export.
func GenerateRankingTable(stats []models.PortStats) string {
	return rankingWriter(stats).Render()
}

// GenerateCardsTable renders the KPI summary as a small two-row table.
func GenerateCardsTable(c models.Cards) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"Total Ports", "Total Weight (tons)", "Avg Weight per Port (tons)",
		"Top Port by Weight", "Total Value (Gs)",
	})
	t.AppendRow(table.Row{c.TotalPorts, c.TotalWeightTons, c.AvgWeightTons, c.TopPort, c.TotalValue})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func GenerateCardsHTML(c models.Cards) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"Total Ports", "Total Weight (tons)", "Avg Weight per Port (tons)",
		"Top Port by Weight", "Total Value (Gs)",
	})
	t.AppendRow(table.Row{c.TotalPorts, c.TotalWeightTons, c.AvgWeightTons, c.TopPort, c.TotalValue})
	t.SetStyle(table.StyleLight)
	return t.RenderHTML()
}
