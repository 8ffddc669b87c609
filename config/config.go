// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once in main and handed to every constructor that needs it.
type Config struct {
	Port           string
	DatabaseURL    string
	GatewayToken   string
	AllowedOrigins []string

	VoucherValidity     time.Duration
	VoucherCodeAttempts int

	PointsResetCron   string
	InactiveSweepCron string
	InactiveAfter     time.Duration
	NotifyWorkers     int

	MailServiceURL   string
	MailServiceToken string

	Storage StorageConfig
}

// StorageConfig points at an S3-compatible bucket (Cloudflare R2 in production).
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether enough settings are present to build a client.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Default returns the settings used when the environment is silent.
func Default() Config {
	return Config{
		Port:                "5200",
		AllowedOrigins:      []string{"http://localhost:3000"},
		VoucherValidity:     30 * 24 * time.Hour,
		VoucherCodeAttempts: 16,
		PointsResetCron:     "0 0 1 * *",
		InactiveSweepCron:   "0 9 * * *",
		InactiveAfter:       30 * 24 * time.Hour,
		NotifyWorkers:       8,
	}
}

// Load reads a .env file if present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup (os.LookupEnv in production).
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.DatabaseURL = get("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	cfg.GatewayToken = get("GATEWAY_TOKEN")
	if cfg.GatewayToken == "" {
		return cfg, fmt.Errorf("GATEWAY_TOKEN environment variable not set")
	}

	if v := get("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}

	var err error
	if cfg.VoucherValidity, err = days(get("VOUCHER_VALIDITY_DAYS"), cfg.VoucherValidity); err != nil {
		return cfg, fmt.Errorf("VOUCHER_VALIDITY_DAYS: %w", err)
	}
	if cfg.InactiveAfter, err = days(get("INACTIVE_AFTER_DAYS"), cfg.InactiveAfter); err != nil {
		return cfg, fmt.Errorf("INACTIVE_AFTER_DAYS: %w", err)
	}
	if cfg.VoucherCodeAttempts, err = positiveInt(get("VOUCHER_CODE_ATTEMPTS"), cfg.VoucherCodeAttempts); err != nil {
		return cfg, fmt.Errorf("VOUCHER_CODE_ATTEMPTS: %w", err)
	}
	if cfg.NotifyWorkers, err = positiveInt(get("NOTIFY_WORKERS"), cfg.NotifyWorkers); err != nil {
		return cfg, fmt.Errorf("NOTIFY_WORKERS: %w", err)
	}

	if v := get("POINTS_RESET_CRON"); v != "" {
		cfg.PointsResetCron = v
	}
	if v := get("INACTIVE_SWEEP_CRON"); v != "" {
		cfg.InactiveSweepCron = v
	}

	cfg.MailServiceURL = get("MAIL_SERVICE_URL")
	cfg.MailServiceToken = get("MAIL_SERVICE_TOKEN")

	cfg.Storage = StorageConfig{
		Endpoint:        get("STORAGE_ENDPOINT"),
		AccessKeyID:     get("STORAGE_ACCESS_KEY_ID"),
		AccessKeySecret: get("STORAGE_ACCESS_KEY_SECRET"),
		Bucket:          get("STORAGE_BUCKET"),
		CDNBaseURL:      strings.TrimSuffix(get("CDN_BASE_URL"), "/"),
	}
	if cfg.Storage.CDNBaseURL == "" && cfg.Storage.Endpoint != "" {
		cfg.Storage.CDNBaseURL = strings.TrimSuffix(cfg.Storage.Endpoint, "/") + "/" + cfg.Storage.Bucket
	}

	return cfg, nil
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func days(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	n, err := positiveInt(raw, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * 24 * time.Hour, nil
}
