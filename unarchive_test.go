package main

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackArchivePlainFile(t *testing.T) {
	path := writeTempCSV(t, "data.csv", "ADUANA\nPUERTO\n")
	dest, err := unpackArchive(path)
	require.NoError(t, err)
	assert.Equal(t, "", dest)
	_, err = os.Stat(path)
	assert.NoError(t, err, "non-archives must be left in place")
}

func TestUnpackArchiveGzip(t *testing.T) {
	dir := t.TempDir()
	content := "ADUANA,total\nPUERTO,100\n"

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	path := filepath.Join(dir, "data.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	dest, err := unpackArchive(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), dest)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "the archive is removed after extraction")
}

func TestUnpackArchiveZipPicksLargestFile(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	small, err := zw.Create("readme.txt")
	require.NoError(t, err)
	small.Write([]byte("x"))
	big, err := zw.Create("nested/data.csv")
	require.NoError(t, err)
	big.Write([]byte("ADUANA,total\nPUERTO,100\nAEROPUERTO,200\n"))
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "upload.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	dest, err := unpackArchive(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), dest)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(got), "AEROPUERTO")
}

func TestUnpackArchiveEmptyZip(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	require.NoError(t, zw.Close())
	path := filepath.Join(dir, "empty.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	_, err := unpackArchive(path)
	assert.Error(t, err)
}
