package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies KICKBID_* environment variable overrides, and
// returns the final Config. A missing config file is not an error: the bot can
// run entirely from defaults plus environment variables, which is how it runs
// in CI. The returned Config has NOT been validated; the caller should invoke
// Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known KICKBID_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file. The KICKBASE_* names are compatibility aliases kept from the
// original deployment's secrets.
func applyEnvOverrides(cfg *Config) {
	// ── Kickbase ──
	setStr(&cfg.Kickbase.BaseURL, "KICKBID_KICKBASE_BASE_URL")
	setStr(&cfg.Kickbase.Email, "KICKBASE_EMAIL") // compatibility alias
	setStr(&cfg.Kickbase.Email, "KICKBID_KICKBASE_EMAIL")
	setStr(&cfg.Kickbase.Password, "KICKBASE_PASSWORD") // compatibility alias
	setStr(&cfg.Kickbase.Password, "KICKBID_KICKBASE_PASSWORD")
	setStr(&cfg.Kickbase.LeagueID, "KICKBASE_LEAGUE_ID") // compatibility alias
	setStr(&cfg.Kickbase.LeagueID, "KICKBID_KICKBASE_LEAGUE_ID")
	setStr(&cfg.Kickbase.UserAgent, "KICKBID_KICKBASE_USER_AGENT")
	setDuration(&cfg.Kickbase.RequestTimeout, "KICKBID_KICKBASE_REQUEST_TIMEOUT")

	// ── Selector ──
	setIntSlice(&cfg.Selector.AllowedTrendFlags, "KICKBID_SELECTOR_ALLOWED_TREND_FLAGS")
	setInt64(&cfg.Selector.MinMarketValue, "KICKBID_SELECTOR_MIN_MARKET_VALUE")
	setInt64(&cfg.Selector.MinSecondsRemaining, "KICKBID_SELECTOR_MIN_SECONDS_REMAINING")
	setInt64(&cfg.Selector.MaxSecondsRemaining, "KICKBID_SELECTOR_MAX_SECONDS_REMAINING")

	// ── Bid ──
	setStr(&cfg.Bid.Strategy, "KICKBID_BID_STRATEGY")
	setInt64(&cfg.Bid.Increment, "KICKBID_BID_INCREMENT")
	setFloat64(&cfg.Bid.MinROI, "KICKBID_BID_MIN_ROI")
	setFloat64(&cfg.Bid.MaxOverpayFraction, "KICKBID_BID_MAX_OVERPAY_FRACTION")
	setInt64(&cfg.Bid.CashBuffer, "KICKBID_BID_CASH_BUFFER")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "KICKBID_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "KICKBID_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "KICKBID_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "KICKBID_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "KICKBID_MODE")
	setBool(&cfg.DryRun, "KICKBID_DRY_RUN")
	setBool(&cfg.DryRun, "DRY_RUN") // compatibility alias
	setStr(&cfg.LogLevel, "KICKBID_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setIntSlice(dst *[]int, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]int, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				return
			}
			cleaned = append(cleaned, n)
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
