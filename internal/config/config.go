// Package config provides functionality for managing configuration options
// for the backend services using command-line flags, environment variables,
// and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Service selection values for the Service option.
const (
	ServiceDataSource = "data_source"
	ServiceDataSink   = "data_sink"
	ServiceAll        = "all"
)

// DefaultTokenTTL is the bearer-token lifetime used unless overridden.
const DefaultTokenTTL = 60 * time.Minute

// devJWTSecret is the development-only signing key. Production
// deployments must override it via JWT_SECRET_KEY.
const devJWTSecret = "SUPER_SECRET_JWT_KEY"

// devReceiveSecret is the development-only shared secret for the
// inbound transfer endpoint. Override via RECEIVE_SECRET.
const devReceiveSecret = "SOVITY_SECRET_TOKEN"

// Options holds the configuration values for the backend services.
type Options struct {
	// Service selects which service(s) to run: data_source, data_sink, or all.
	Service string

	// SourceAddr is the bind address of the data-source service.
	SourceAddr string

	// SinkAddr is the bind address of the data-sink service.
	SinkAddr string

	// DataDir is the sandbox root; every stored file lives under it.
	DataDir string

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string

	// LogFile, if set, receives log output in addition to stderr.
	LogFile string

	// DetailedLogs switches to the verbose log format with caller info.
	DetailedLogs bool

	// CORSOrigin is the frontend origin allowed to call the API.
	CORSOrigin string

	// JWTSecret signs and verifies bearer tokens. Shared by both services.
	JWTSecret string

	// TokenTTL is the bearer-token lifetime.
	TokenTTL time.Duration

	// ReceiveSecret gates the inbound transfer endpoint.
	ReceiveSecret string

	// MaxUploadSize caps request bodies on upload endpoints, in bytes.
	MaxUploadSize int64

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Service, "service", ServiceAll, "service to run: data_source, data_sink, or all")
	flag.StringVar(&options.SourceAddr, "source-addr", "localhost:8000", "data-source bind address (ip:port)")
	flag.StringVar(&options.SinkAddr, "sink-addr", "localhost:8001", "data-sink bind address (ip:port)")
	flag.StringVar(&options.DataDir, "data-dir", "./data", "sandbox root directory for stored files")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&options.LogFile, "log-file", "", "log file path (in addition to stderr)")
	flag.BoolVar(&options.DetailedLogs, "detailed-logs", false, "use the verbose log format with caller info")
	flag.StringVar(&options.CORSOrigin, "cors-origin", "http://localhost:4200", "frontend origin allowed by CORS")
	flag.DurationVar(&options.TokenTTL, "token-ttl", DefaultTokenTTL, "bearer token lifetime")
	flag.Int64Var(&options.MaxUploadSize, "max-upload-size", 256<<20, "maximum upload size in bytes")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

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

	options.JWTSecret = devJWTSecret
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		options.JWTSecret = secret
	}

	options.ReceiveSecret = devReceiveSecret
	if secret := os.Getenv("RECEIVE_SECRET"); secret != "" {
		options.ReceiveSecret = secret
	}

	if addr := os.Getenv("SOURCE_ADDRESS"); addr != "" {
		options.SourceAddr = addr
	}
	if addr := os.Getenv("SINK_ADDRESS"); addr != "" {
		options.SinkAddr = addr
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		options.DataDir = dir
	}

	return options
}
