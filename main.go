package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cambra/aduana-dashboard/config"
)

func main() {
	cfg := config.GetConfig()

	t := LoadTable(cfg.DataPath)
	log.Printf("active dataset: %s, %d rows", cfg.DataPath, t.Len())
	log.Println(GenerateCardsTable(SummaryCards(t.Rows)))

	go func() {
		for {
			time.Sleep(time.Minute)
			if err := removeOldFiles(cfg.UploadDir, time.Now().Add(-2*time.Hour)); err != nil && !os.IsNotExist(err) {
				log.Printf("cleanup %s: %v", cfg.UploadDir, err)
			}
		}
	}()

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, newMux()); err != nil {
		log.Fatalln("server error:", err)
	}
}

// removeOldFiles drops upload session directories older than maxAge. The
// active dataset is cached in memory, so removing its file is harmless.
func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(maxAge) {
			if err := os.RemoveAll(filepath.Join(dirPath, f.Name())); err != nil {
				log.Printf("remove %s: %v", f.Name(), err)
			}
		}
	}
	return nil
}
