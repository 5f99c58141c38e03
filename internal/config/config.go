package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database   DatabaseConfig
	Recognizer RecognizerConfig
	Blob       BlobConfig
	Auth       AuthConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type RecognizerConfig struct {
	URL             string        // Base URL of the recognition backend (e.g. http://localhost:8000)
	PollInterval    time.Duration // Cadence of the detection poll loop
	RequestTimeout  time.Duration // Per-request timeout for backend calls
	MaxPollFailures int           // Consecutive poll failures before a session is failed
}

type BlobConfig struct {
	Endpoint      string // S3-compatible endpoint (e.g. MinIO), empty for AWS
	Region        string
	AccessKey     string
	SecretKey     string
	PhotoBucket   string // defaults to case-photos
	FootageBucket string // defaults to cctv-footage
	PublicBaseURL string // base URL for public object links, defaults to Endpoint
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// defaults mirrors the structure of the embedded defaults.yaml file.
type defaults struct {
	Recognizer struct {
		PollIntervalSeconds   int `yaml:"poll_interval_seconds"`
		RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
		MaxPollFailures       int `yaml:"max_poll_failures"`
	} `yaml:"recognizer"`
	Auth struct {
		TokenTTLHours int `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable, falling back to a default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var d defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	blobEndpoint := os.Getenv("BLOB_ENDPOINT")

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Recognizer: RecognizerConfig{
			URL:             os.Getenv("RECOGNIZER_URL"),
			PollInterval:    time.Duration(envInt("RECOGNIZER_POLL_INTERVAL", d.Recognizer.PollIntervalSeconds)) * time.Second,
			RequestTimeout:  time.Duration(envInt("RECOGNIZER_REQUEST_TIMEOUT", d.Recognizer.RequestTimeoutSeconds)) * time.Second,
			MaxPollFailures: envInt("RECOGNIZER_MAX_POLL_FAILURES", d.Recognizer.MaxPollFailures),
		},
		Blob: BlobConfig{
			Endpoint:      blobEndpoint,
			Region:        envString("BLOB_REGION", "us-east-1"),
			AccessKey:     os.Getenv("BLOB_ACCESS_KEY"),
			SecretKey:     os.Getenv("BLOB_SECRET_KEY"),
			PhotoBucket:   envString("BLOB_PHOTO_BUCKET", "case-photos"),
			FootageBucket: envString("BLOB_FOOTAGE_BUCKET", "cctv-footage"),
			PublicBaseURL: envString("BLOB_PUBLIC_BASE_URL", blobEndpoint),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			TokenTTL:  time.Duration(envInt("AUTH_TOKEN_TTL_HOURS", d.Auth.TokenTTLHours)) * time.Hour,
		},
	}
}
