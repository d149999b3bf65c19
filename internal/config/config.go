package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/fulfillsync/internal/pkg/signature"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    slog.Level

	WebhookSecret   string
	SignatureMode   signature.Mode
	SignatureHeader string
	TimestampHeader string
	FlattenFields   []string

	SheetID           string
	SheetName         string
	GoogleClientEmail string
	GooglePrivateKey  string
	SheetsEndpoint    string

	ShopifyStore      string
	ShopifyAdminToken string
	ShopifyAPIVersion string
	CommerceBaseURL   string

	VariantTurnaround map[int64]time.Duration
	DefaultTurnaround time.Duration
	UpstreamTimeout   time.Duration

	VerificationSecret     string
	VerificationTokenTTL   time.Duration
	ChallengeTTL           time.Duration
	ChallengeMaxAttempts   int
	ChallengeSweepInterval time.Duration

	MailRelayURL   string
	MailRelayToken string
	MailFrom       string

	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress             = ":8080"
	defaultLogLevel               = "info"
	defaultSignatureMode          = signature.ModeTimestamp
	defaultSheetName              = "Sheet1"
	defaultShopifyAPIVersion      = "2024-10"
	defaultTurnaround             = 72 * time.Hour
	defaultUpstreamTimeout        = 10 * time.Second
	defaultVerificationTokenTTL   = 30 * time.Minute
	defaultChallengeTTL           = 10 * time.Minute
	defaultChallengeMaxAttempts   = 5
	defaultChallengeSweepInterval = 5 * time.Minute
	defaultMailFrom               = "orders@localhost"
	defaultShutdownTimeout        = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		WebhookSecret:          getString(lookup, "WEBHOOK_SECRET", ""),
		SignatureHeader:        getString(lookup, "WEBHOOK_SIGNATURE_HEADER", signature.DefaultSignatureHeader),
		TimestampHeader:        getString(lookup, "WEBHOOK_TIMESTAMP_HEADER", signature.DefaultTimestampHeader),
		FlattenFields:          getList(lookup, "WEBHOOK_FLATTEN_FIELDS"),
		SheetID:                getString(lookup, "SHEET_ID", ""),
		SheetName:              getString(lookup, "SHEET_NAME", defaultSheetName),
		GoogleClientEmail:      getString(lookup, "GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:       strings.ReplaceAll(getString(lookup, "GOOGLE_PRIVATE_KEY", ""), `\n`, "\n"),
		SheetsEndpoint:         getString(lookup, "SHEETS_ENDPOINT", ""),
		ShopifyStore:           getString(lookup, "SHOPIFY_STORE", ""),
		ShopifyAdminToken:      getString(lookup, "SHOPIFY_ADMIN_TOKEN", ""),
		ShopifyAPIVersion:      getString(lookup, "SHOPIFY_API_VERSION", defaultShopifyAPIVersion),
		CommerceBaseURL:        getString(lookup, "COMMERCE_BASE_URL", ""),
		DefaultTurnaround:      getDuration(lookup, "DEFAULT_TURNAROUND", defaultTurnaround),
		UpstreamTimeout:        getDuration(lookup, "UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
		VerificationSecret:     getString(lookup, "VERIFICATION_SECRET", ""),
		VerificationTokenTTL:   getDuration(lookup, "VERIFICATION_TOKEN_TTL", defaultVerificationTokenTTL),
		ChallengeTTL:           getDuration(lookup, "CHALLENGE_TTL", defaultChallengeTTL),
		ChallengeMaxAttempts:   getInt(lookup, "CHALLENGE_MAX_ATTEMPTS", defaultChallengeMaxAttempts),
		ChallengeSweepInterval: getDuration(lookup, "CHALLENGE_SWEEP_INTERVAL", defaultChallengeSweepInterval),
		MailRelayURL:           getString(lookup, "MAIL_RELAY_URL", ""),
		MailRelayToken:         getString(lookup, "MAIL_RELAY_TOKEN", ""),
		MailFrom:               getString(lookup, "MAIL_FROM", defaultMailFrom),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("fulfillsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
		signatureModeStr   = getString(lookup, "WEBHOOK_SIGNATURE_MODE", string(defaultSignatureMode))
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Shared secret for payment webhook signatures")
	fs.StringVar(&signatureModeStr, "signature-mode", signatureModeStr, "Webhook signing mode: raw, timestamp, flattened")
	fs.StringVar(&cfg.SheetID, "sheet-id", cfg.SheetID, "Production ledger spreadsheet id")
	fs.StringVar(&cfg.ShopifyStore, "shopify-store", cfg.ShopifyStore, "Shopify store name")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.LogLevel, err = parseLevel(logLevelStr); err != nil {
		return nil, err
	}

	if cfg.SignatureMode, err = signature.ParseMode(signatureModeStr); err != nil {
		return nil, fmt.Errorf("invalid signature mode: %w", err)
	}

	if cfg.VariantTurnaround, err = parseTurnaround(getString(lookup, "VARIANT_TURNAROUND", "")); err != nil {
		return nil, fmt.Errorf("invalid variant turnaround: %w", err)
	}

	if err := readSecretFile(lookup, "WEBHOOK_SECRET_FILE", &cfg.WebhookSecret); err != nil {
		return nil, err
	}
	if err := readSecretFile(lookup, "VERIFICATION_SECRET_FILE", &cfg.VerificationSecret); err != nil {
		return nil, err
	}
	if err := readSecretFile(lookup, "GOOGLE_PRIVATE_KEY_FILE", &cfg.GooglePrivateKey); err != nil {
		return nil, err
	}

	if cfg.DefaultTurnaround <= 0 {
		cfg.DefaultTurnaround = defaultTurnaround
	}

	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}

	if cfg.VerificationTokenTTL <= 0 {
		cfg.VerificationTokenTTL = defaultVerificationTokenTTL
	}

	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = defaultChallengeTTL
	}

	if cfg.ChallengeMaxAttempts <= 0 {
		cfg.ChallengeMaxAttempts = defaultChallengeMaxAttempts
	}

	if cfg.ChallengeSweepInterval <= 0 {
		cfg.ChallengeSweepInterval = defaultChallengeSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.SheetID == "" {
		return nil, fmt.Errorf("ledger sheet id must be provided")
	}

	if cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "" {
		return nil, fmt.Errorf("google service account credentials must be provided")
	}

	if cfg.CommerceBaseURL == "" {
		if cfg.ShopifyStore == "" {
			return nil, fmt.Errorf("shopify store or commerce base URL must be provided")
		}
		cfg.CommerceBaseURL = fmt.Sprintf("https://%s.myshopify.com", cfg.ShopifyStore)
	}

	if cfg.ShopifyAdminToken == "" {
		return nil, fmt.Errorf("shopify admin token must be provided")
	}

	if strings.TrimSpace(cfg.VerificationSecret) == "" {
		return nil, fmt.Errorf("verification secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(lookup envLookup, key string) []string {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func readSecretFile(lookup envLookup, key string, dst *string) error {
	path, ok := lookup(key)
	if !ok || path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(key), err)
	}
	*dst = strings.TrimRight(string(content), "\r\n")
	return nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// parseTurnaround reads "variant=hours" pairs separated by commas.
func parseTurnaround(value string) (map[int64]time.Duration, error) {
	table := make(map[int64]time.Duration)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		variant, hours, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("pair %q is not variant=hours", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(variant), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", variant, err)
		}
		h, err := strconv.Atoi(strings.TrimSpace(hours))
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("hours %q for variant %d must be a positive integer", hours, id)
		}
		table[id] = time.Duration(h) * time.Hour
	}
	return table, nil
}
