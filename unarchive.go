package main

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// unpackArchive unpacks an uploaded dataset archive in place and returns the
// path of the extracted file. Non-archive paths return "" with no error and
// are used as-is.
func unpackArchive(filePath string) (string, error) {
	switch filepath.Ext(filePath) {
	case ".zip":
		return unpackZipArchive(filePath)
	case ".gz":
		return unpackStream(filePath, ".gz", func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case ".lz4":
		return unpackStream(filePath, ".lz4", func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		})
	}
	return "", nil
}

func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	// The dataset is the largest file in the archive.
	var largest *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return "", fmt.Errorf("empty zip archive %s", filePath)
	}

	rc, err := largest.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	destPath := filepath.Join(filepath.Dir(filePath), filepath.Base(largest.Name))
	if err := writeTo(destPath, rc); err != nil {
		return "", err
	}
	os.Remove(filePath)
	return destPath, nil
}

func unpackStream(filePath, suffix string, wrap func(io.Reader) (io.Reader, error)) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r, err := wrap(f)
	if err != nil {
		return "", err
	}

	destPath := strings.TrimSuffix(filePath, suffix)
	if err := writeTo(destPath, r); err != nil {
		return "", err
	}
	os.Remove(filePath)
	return destPath, nil
}

func writeTo(destPath string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}
