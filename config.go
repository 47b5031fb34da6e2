package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort    = "8000"
	bindHost       = "0.0.0.0"
	defaultDBPath  = "leads.db"
	defaultService = "yesterdaysleads"
	defaultVersion = "v2026-02-04-1"

	// workerCount is the number of worker processes the master forks.
	workerCount = 2
)

// allowedOrigins is the CORS allow-list used unless CORS_ALLOW_ALL=1.
var allowedOrigins = []string{
	"https://castudios.tv",
	"https://www.castudios.tv",
	"https://yesterdaysleads.onrender.com",
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// Config is the launch configuration, resolved once at startup and never
// mutated afterwards.
type Config struct {
	Port         string
	DBPath       string
	ServiceName  string
	Version      string
	CORSAllowAll bool
	SeedPath     string
	PricingJSON  string
}

// LoadConfig resolves the launch configuration from the environment. A .env
// file in the working directory is applied first when present.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port:         envOr("PORT", defaultPort),
		DBPath:       envOr("LEADS_DB_PATH", defaultDBPath),
		ServiceName:  envOr("SERVICE_NAME", defaultService),
		Version:      envOr("VERSION", defaultVersion),
		CORSAllowAll: strings.TrimSpace(os.Getenv("CORS_ALLOW_ALL")) == "1",
		SeedPath:     os.Getenv("LEADS_SEED_PATH"),
		PricingJSON:  os.Getenv("PRICING_JSON"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ListenAddr is the bind address handed to net.Listen. The host is always the
// wildcard address; the port value is used verbatim, unvalidated.
func (c Config) ListenAddr() string {
	return bindHost + ":" + c.Port
}
