package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadDelimitedTableComma(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"ADUANA,kilo_neto,kilo_bruto,total,mercaderias_distintas\n"+
			"PUERTO VILLETA,10,20,100,5\n"+
			"AEROPUERTO,30,30,200,3\n")
	table, err := readTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "PUERTO VILLETA", table.Rows[0].Office)
	assert.Equal(t, 10.0, *table.Rows[0].KiloNeto)
	assert.Equal(t, int64(5), *table.Rows[0].Mercaderias)
}

func TestReadDelimitedTableSemicolonAndBOM(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"\ufeffADUANA;kilo_neto;kilo_bruto;total;mercaderias_distintas\n"+
			"CIUDAD DEL ESTE;1,5;2;3;4\n")
	table, err := readTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "CIUDAD DEL ESTE", table.Rows[0].Office)
	// "1,5" is not a parseable float: the cell becomes null, the row stays.
	assert.Nil(t, table.Rows[0].KiloNeto)
	assert.Equal(t, 3.0, *table.Rows[0].Total)
}

func TestReadDelimitedTableDropsAllNullRows(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"ADUANA,kilo_neto,kilo_bruto,total,mercaderias_distintas\n"+
			",,,,\n"+
			"PUERTO,1,2,3,4\n"+
			"   ,,,,\n")
	table, err := readTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestReadDelimitedTablePartialNullsKept(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"ADUANA,kilo_neto,kilo_bruto,total,mercaderias_distintas\n"+
			"PUERTO,,,,\n")
	table, err := readTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Nil(t, table.Rows[0].Total)
}

func TestReadDelimitedTableEnglishAliases(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"office_name,net_weight_kg,gross_weight_kg,total_value,distinct_merchandise\n"+
			"PUERTO,1,2,3,4\n")
	table, err := readTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 3.0, *table.Rows[0].Total)
}

func TestReadTableMissingOfficeColumn(t *testing.T) {
	path := writeTempCSV(t, "data.csv", "foo,bar\n1,2\n")
	_, err := readTable(path)
	assert.Error(t, err)
}

func TestLoadTableMissingFileDegradesToEmpty(t *testing.T) {
	table := LoadTable(filepath.Join(t.TempDir(), "absent.csv"))
	require.NotNil(t, table)
	assert.Equal(t, 0, table.Len())
}

func TestLoadTableCached(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"ADUANA,kilo_neto,kilo_bruto,total,mercaderias_distintas\nPUERTO,1,2,3,4\n")
	a := LoadTable(path)
	b := LoadTable(path)
	assert.Same(t, a, b, "repeated loads must serve the cached table")
}

func TestReplaceTableRejectsEmptyDataset(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"ADUANA,kilo_neto,kilo_bruto,total,mercaderias_distintas\n")
	assert.Error(t, ReplaceTable(path))
}

func TestReplaceTableBumpsGeneration(t *testing.T) {
	path := writeTempCSV(t, "data.csv",
		"ADUANA,kilo_neto,kilo_bruto,total,mercaderias_distintas\nPUERTO,1,2,3,4\n")
	before := datasetGeneration()
	require.NoError(t, ReplaceTable(path))
	assert.Equal(t, before+1, datasetGeneration())
	assert.Equal(t, 1, ActiveTable().Len())
}

func TestParseCells(t *testing.T) {
	assert.Nil(t, parseFloatCell(""))
	assert.Nil(t, parseFloatCell("abc"))
	assert.Equal(t, 1.5, *parseFloatCell(" 1.5 "))
	assert.Nil(t, parseIntCell("1.7"))
	assert.Equal(t, int64(12), *parseIntCell("12.0"))
	assert.Equal(t, int64(-3), *parseIntCell("-3"))
}
