package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cambra/aduana-dashboard/config"
	"github.com/cambra/aduana-dashboard/domain/models"
)

// datasetStore caches loaded tables per resolved path and tracks which path
// is the active dashboard dataset. Loaded tables are immutable; filtering and
// aggregation only ever read them. The generation counter is folded into the
// filter memo key so an upload invalidates stale filtered views.
type datasetStore struct {
	mu         sync.Mutex
	tables     map[string]*models.Table
	activePath string
	generation uint64
}

var datasets = &datasetStore{tables: map[string]*models.Table{}}

// LoadTable reads the dataset at path, caching by resolved absolute path.
// A missing or unreadable file degrades to an empty table with the expected
// schema so every downstream component still has well-typed input.
func LoadTable(path string) *models.Table {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	datasets.mu.Lock()
	defer datasets.mu.Unlock()
	if t, ok := datasets.tables[abs]; ok {
		return t
	}

	t, err := readTable(abs)
	if err != nil {
		log.Printf("dataset: cannot load %s: %v, serving empty table", abs, err)
		t = &models.Table{}
	} else {
		log.Printf("dataset: loaded %s, %d rows", abs, t.Len())
	}
	datasets.tables[abs] = t
	return t
}

// ActiveTable returns the current dashboard dataset, loading the configured
// file on first access.
func ActiveTable() *models.Table {
	datasets.mu.Lock()
	path := datasets.activePath
	datasets.mu.Unlock()
	if path == "" {
		path = config.GetConfig().DataPath
	}
	return LoadTable(path)
}

// ReplaceTable makes path the active dataset. The file must parse into at
// least one row; otherwise the previous dataset stays active.
func ReplaceTable(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	t, err := readTable(abs)
	if err != nil {
		return err
	}
	if t.Len() == 0 {
		return fmt.Errorf("dataset %s contains no rows", abs)
	}

	datasets.mu.Lock()
	datasets.tables[abs] = t
	datasets.activePath = abs
	datasets.generation++
	datasets.mu.Unlock()
	resetFilterCache()
	log.Printf("dataset: replaced active table with %s, %d rows", abs, t.Len())
	return nil
}

func datasetGeneration() uint64 {
	datasets.mu.Lock()
	defer datasets.mu.Unlock()
	return datasets.generation
}

func readTable(path string) (*models.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		t   *models.Table
		err error
	)
	if ext == ".db" || ext == ".sqlite" || ext == ".sqlite3" {
		t, err = readSQLiteTable(path)
	} else {
		t, err = readDelimitedTable(path)
	}
	if err != nil {
		return nil, err
	}
	t.Rows = dropAllNullRows(t.Rows)
	return t, nil
}

func dropAllNullRows(rows []models.Record) []models.Record {
	out := rows[:0]
	for _, r := range rows {
		if !r.AllNull() {
			out = append(out, r)
		}
	}
	return out
}

// sqliteImport mirrors the imports table of the binary dataset variant.
type sqliteImport struct {
	Aduana      string   `gorm:"column:ADUANA"`
	KiloNeto    *float64 `gorm:"column:kilo_neto"`
	KiloBruto   *float64 `gorm:"column:kilo_bruto"`
	Total       *float64 `gorm:"column:total"`
	Mercaderias *int64   `gorm:"column:mercaderias_distintas"`
}

func readSQLiteTable(path string) (*models.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite dataset: %w", err)
	}
	var rows []sqliteImport
	if err := db.Table("imports").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read imports table: %w", err)
	}
	t := &models.Table{Rows: make([]models.Record, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, models.Record{
			Office:      strings.TrimSpace(r.Aduana),
			KiloNeto:    r.KiloNeto,
			KiloBruto:   r.KiloBruto,
			Total:       r.Total,
			Mercaderias: r.Mercaderias,
		})
	}
	return t, nil
}

func readDelimitedTable(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	sep, err := sniffSeparator(br)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(br)
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rawHeaders, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	headers := NormalizeHeaders(rawHeaders)

	idx := map[string]int{}
	for i, h := range headers {
		if c := canonicalColumn(h); c != "" {
			idx[c] = i
		}
	}
	if _, ok := idx[colOffice]; !ok {
		return nil, fmt.Errorf("no %s column in %v", colOffice, headers)
	}

	t := &models.Table{}
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("dataset: skipping malformed row: %v", err)
			continue
		}
		t.Rows = append(t.Rows, models.Record{
			Office:      strings.TrimSpace(fieldAt(fields, idx, colOffice)),
			KiloNeto:    parseFloatCell(fieldAt(fields, idx, colKiloNeto)),
			KiloBruto:   parseFloatCell(fieldAt(fields, idx, colKiloBruto)),
			Total:       parseFloatCell(fieldAt(fields, idx, colTotal)),
			Mercaderias: parseIntCell(fieldAt(fields, idx, colMercaderias)),
		})
	}
	return t, nil
}

// sniffSeparator inspects the first line without consuming it and picks the
// delimiter with the most occurrences, comma winning ties.
func sniffSeparator(br *bufio.Reader) (rune, error) {
	peek, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, err
	}
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best, nil
}

func fieldAt(fields []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func parseFloatCell(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseIntCell(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	// Integer columns exported through float formatting ("12.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		v := int64(f)
		return &v
	}
	return nil
}
