package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	DataPath   string
	ListenAddr string
	UploadDir  string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file, using environment defaults")
		}

		config = &Config{
			DataPath:   getenv("DATA_PATH", "data/data.csv"),
			ListenAddr: getenv("LISTEN_ADDR", ":8005"),
			UploadDir:  getenv("UPLOAD_DIR", "uploads"),
		}
	})
	return config
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
