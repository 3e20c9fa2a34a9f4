// Package config provides functionality for managing configuration options
// for the application using command-line flags, a .env file, environment
// variables, and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDSN holds the connection string for the hosted backend.
	// Empty means the service runs on local file storage only.
	DatabaseDSN string `json:"database_dsn"`

	// DataDir is the directory holding the local JSON snapshots.
	DataDir string `json:"data_dir"`

	// LogLevel sets the logger verbosity ("debug", "info", "warn", "error").
	LogLevel string `json:"log_level"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "hosted backend DSN")
	flag.StringVar(&options.DataDir, "data", "data", "directory for local JSON snapshots")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional .env and JSON config
// files, and environment variables to set configuration values. Environment
// variables win. It returns a pointer to the Options struct containing the
// parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// A .env next to the binary is optional; ignore its absence.
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if addr := os.Getenv("RUN_ADDRESS"); addr != "" {
		options.Address = addr
	}
	if dsn := os.Getenv("DATABASE_URI"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		options.DataDir = dir
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
