package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vidtube/pkg/storage"

	"github.com/joho/godotenv"
)

// Config is read once at startup. Missing secrets or TTLs are a startup
// failure, never a per-request error.
type Config struct {
	Addr        string
	DSN         string
	AutoMigrate bool

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	CookieSecure bool
	UploadTmpDir string

	S3 storage.S3Config
}

func loadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         envOr("SERVER_ADDR", ":8081"),
		DSN:          os.Getenv("DB_DSN"),
		AutoMigrate:  envBool("DB_AUTO_MIGRATE", true),
		CookieSecure: envBool("COOKIE_SECURE", true),
		UploadTmpDir: envOr("UPLOAD_TMP_DIR", os.TempDir()),
		S3: storage.S3Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        envOr("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set; this service requires a Postgres DSN")
	}
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not set")
	}

	access := os.Getenv("ACCESS_TOKEN_SECRET")
	refresh := os.Getenv("REFRESH_TOKEN_SECRET")
	if access == "" || refresh == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must both be set")
	}
	cfg.AccessSecret = []byte(access)
	cfg.RefreshSecret = []byte(refresh)

	var err error
	if cfg.AccessTTL, err = envDuration("ACCESS_TOKEN_TTL"); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = envDuration("REFRESH_TOKEN_TTL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return def
	}
	return !(v == "false" || v == "0" || v == "no")
}

func envDuration(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is not set (expected a Go duration, e.g. 15m or 720h)", key)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
