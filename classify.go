package main

import (
	"sort"
	"strings"

	"github.com/cambra/aduana-dashboard/domain/models"
)

// Keyword groups checked top-down; the first match wins and the last entry is
// the fallback. The substrings are deliberately loose ("za" catches zone
// abbreviations) and the order is part of the classification contract, so
// neither may change without reclassifying historical output.
var portTypeKeywords = []struct {
	Type     models.PortType
	Keywords []string
}{
	{models.PortTypeAirport, []string{"aerop", "airport"}},
	{models.PortTypeSeaport, []string{"pto", "puerto", "port"}},
	{models.PortTypeFreeZone, []string{"za", "zona", "frca"}},
}

// ClassifyPort maps a customs office name to its port type. Names matching
// no group are land border crossings.
func ClassifyPort(name string) models.PortType {
	lower := strings.ToLower(name)
	for _, group := range portTypeKeywords {
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				return group.Type
			}
		}
	}
	return models.PortTypeLandBorder
}

// PortTypesPresent lists the distinct types among the given offices, sorted
// for stable dropdown options.
func PortTypesPresent(offices []string) []string {
	seen := map[string]bool{}
	for _, o := range offices {
		seen[string(ClassifyPort(o))] = true
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
