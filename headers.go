package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Canonical dataset columns. Spanish source files name them this way; a few
// English aliases from re-exported files map onto the same schema.
const (
	colOffice      = "aduana"
	colKiloNeto    = "kilo_neto"
	colKiloBruto   = "kilo_bruto"
	colTotal       = "total"
	colMercaderias = "mercaderias_distintas"
)

var headerAliases = map[string]string{
	"aduana":                colOffice,
	"office_name":           colOffice,
	"kilo_neto":             colKiloNeto,
	"net_weight_kg":         colKiloNeto,
	"kilo_bruto":            colKiloBruto,
	"gross_weight_kg":       colKiloBruto,
	"total":                 colTotal,
	"total_value":           colTotal,
	"mercaderias_distintas": colMercaderias,
	"distinct_merchandise":  colMercaderias,
}

// NormalizeHeaders folds each raw header to ascii lowercase with underscores,
// fills empty names with column_N and deduplicates with _1, _2 suffixes.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = normalizeHeader(h, i)
	}
	return dedupHeaders(out)
}

func normalizeHeader(h string, idx int) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = unidecode.Unidecode(h)
	h = strings.ToLower(strings.TrimSpace(h))

	b := strings.Builder{}
	lastUnderscore := false
	for _, r := range h {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return fmt.Sprintf("column_%d", idx+1)
	}
	return name
}

func dedupHeaders(headers []string) []string {
	seen := map[string]int{}
	out := make([]string, len(headers))
	for i, h := range headers {
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			out[i] = fmt.Sprintf("%s_%d", h, n)
		} else {
			seen[h] = 1
			out[i] = h
		}
	}
	return out
}

// canonicalColumn maps a normalized header onto the fixed schema, or returns
// "" for columns the dashboard does not use.
func canonicalColumn(normalized string) string {
	return headerAliases[normalized]
}
