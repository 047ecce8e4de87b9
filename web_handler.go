package main

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	uuid "github.com/satori/go.uuid"

	"github.com/cambra/aduana-dashboard/config"
)

// uploadDir resolves the upload base directory per request, so tests can
// point it elsewhere without touching the config singleton.
var uploadDir = func() string { return config.GetConfig().UploadDir }

var uploadTmpl = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html><head><title>Upload dataset</title></head>
<body>
<h3>Replace dashboard dataset</h3>
<p>CSV (any delimiter), SQLite, or a gzip/lz4/zip archived CSV.</p>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="file" required>
  <button type="submit">Upload</button>
</form>
</body></html>`))

// handleUpload accepts a replacement dataset. The file lands in a fresh
// session directory, archives are unpacked in place, and the dataset is
// swapped only if the new file parses into at least one row.
func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		if err := uploadTmpl.Execute(w, nil); err != nil {
			http.Error(w, "Error rendering upload form", http.StatusInternalServerError)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	uid := uuid.NewV4()
	dir := filepath.Join(uploadDir(), uid.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}
	filePath := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(filePath)
	if err != nil {
		http.Error(w, "Error saving file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}
	dst.Close()

	if unpacked, err := unpackArchive(filePath); err != nil {
		http.Error(w, "Error unpacking archive: "+err.Error(), http.StatusBadRequest)
		return
	} else if unpacked != "" {
		filePath = unpacked
	}

	if err := ReplaceTable(filePath); err != nil {
		log.Printf("upload %s rejected: %v", uid, err)
		http.Error(w, "Error loading dataset: "+err.Error(), http.StatusBadRequest)
		return
	}
	fmt.Fprintf(w, "File uploaded successfully, %d rows loaded", ActiveTable().Len())
}
