// Package config defines the top-level configuration for the kickbid bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by KICKBID_* environment variables.
type Config struct {
	Kickbase KickbaseConfig `toml:"kickbase"`
	Selector SelectorConfig `toml:"selector"`
	Bid      BidConfig      `toml:"bid"`
	Submit   SubmitConfig   `toml:"submit"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	DryRun   bool           `toml:"dry_run"`
	LogLevel string         `toml:"log_level"`
}

// KickbaseConfig holds upstream API endpoint and credential parameters.
type KickbaseConfig struct {
	BaseURL        string   `toml:"base_url"`
	Email          string   `toml:"email"`
	Password       string   `toml:"password"`
	LeagueID       string   `toml:"league_id"`
	UserAgent      string   `toml:"user_agent"`
	RequestTimeout duration `toml:"request_timeout"`
}

// SelectorConfig holds candidate filtering parameters.
type SelectorConfig struct {
	// AllowedTrendFlags is the set of trend flag values eligible for bidding.
	AllowedTrendFlags   []int `toml:"allowed_trend_flags"`
	MinMarketValue      int64 `toml:"min_market_value"`
	MinSecondsRemaining int64 `toml:"min_seconds_remaining"`
	MaxSecondsRemaining int64 `toml:"max_seconds_remaining"`
}

// BidConfig holds bid pricing parameters.
type BidConfig struct {
	// Strategy selects the bid pricing strategy: "flat_markup" or "trend_roi".
	Strategy string `toml:"strategy"`
	// Increment is the flat_markup markup in currency units. 0 derives the
	// markup from the listing's trend flag as max(1, flag).
	Increment int64 `toml:"increment"`
	// MinROI is the trend_roi eligibility threshold (trend / market value).
	MinROI float64 `toml:"min_roi"`
	// MaxOverpayFraction caps any bid at floor(marketValue * (1 + fraction)).
	MaxOverpayFraction float64 `toml:"max_overpay_fraction"`
	// CashBuffer is the minimum balance that must remain after any bid.
	CashBuffer int64 `toml:"cash_buffer"`
}

// EndpointConfig is one candidate wire shape for placing an offer. Paths may
// contain {leagueId} and {listingId} placeholders.
type EndpointConfig struct {
	Path       string `toml:"path"`
	Method     string `toml:"method"`
	PayloadKey string `toml:"payload_key"`
}

// SubmitConfig holds offer submission parameters. Endpoints are tried in
// order; the first success wins, mismatch statuses fall through to the next
// endpoint, anything else aborts the offer.
type SubmitConfig struct {
	Endpoints        []EndpointConfig `toml:"endpoints"`
	SuccessStatuses  []int            `toml:"success_statuses"`
	MismatchStatuses []int            `toml:"mismatch_statuses"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "20s", "1m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "20s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values. The
// endpoint list covers the offer shapes the upstream API has used
// historically, in priority order.
func Defaults() Config {
	return Config{
		Kickbase: KickbaseConfig{
			BaseURL:        "https://api.kickbase.com",
			UserAgent:      "kickbid/0.1",
			RequestTimeout: duration{20 * time.Second},
		},
		Selector: SelectorConfig{
			AllowedTrendFlags:   []int{1, 2},
			MinMarketValue:      0,
			MinSecondsRemaining: 0,
			MaxSecondsRemaining: 86_400,
		},
		Bid: BidConfig{
			Strategy:           "flat_markup",
			Increment:          0,
			MinROI:             0,
			MaxOverpayFraction: 0.10,
			CashBuffer:         500_000,
		},
		Submit: SubmitConfig{
			Endpoints: []EndpointConfig{
				{Path: "/v4/leagues/{leagueId}/market/{listingId}/offers", Method: "POST", PayloadKey: "price"},
				{Path: "/leagues/{leagueId}/market/{listingId}/offers", Method: "POST", PayloadKey: "price"},
				{Path: "/v4/leagues/{leagueId}/market/{listingId}/offers", Method: "PUT", PayloadKey: "prc"},
			},
			SuccessStatuses:  []int{200, 201},
			MismatchStatuses: []int{404, 405, 410},
		},
		Notify: NotifyConfig{
			Events: []string{"run_completed", "offer_accepted", "error"},
		},
		Mode:     "bid",
		DryRun:   true,
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"bid":     true,
	"monitor": true,
	"login":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validStrategies enumerates the accepted values for BidConfig.Strategy.
var validStrategies = map[string]bool{
	"flat_markup": true,
	"trend_roi":   true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: bid, monitor, login)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Kickbase
	if c.Kickbase.BaseURL == "" {
		errs = append(errs, "kickbase: base_url must not be empty")
	}
	if c.Kickbase.Email == "" {
		errs = append(errs, "kickbase: email must be set (KICKBASE_EMAIL)")
	}
	if c.Kickbase.Password == "" {
		errs = append(errs, "kickbase: password must be set (KICKBASE_PASSWORD)")
	}
	if c.Kickbase.LeagueID == "" && strings.ToLower(c.Mode) != "login" {
		errs = append(errs, "kickbase: league_id is required for mode "+c.Mode)
	}
	if c.Kickbase.RequestTimeout.Duration <= 0 {
		errs = append(errs, "kickbase: request_timeout must be > 0")
	}

	// Selector
	if len(c.Selector.AllowedTrendFlags) == 0 {
		errs = append(errs, "selector: allowed_trend_flags must not be empty")
	}
	if c.Selector.MinMarketValue < 0 {
		errs = append(errs, "selector: min_market_value must be >= 0")
	}
	if c.Selector.MaxSecondsRemaining <= 0 {
		errs = append(errs, "selector: max_seconds_remaining must be > 0")
	}
	if c.Selector.MinSecondsRemaining > c.Selector.MaxSecondsRemaining {
		errs = append(errs, "selector: min_seconds_remaining must not exceed max_seconds_remaining")
	}

	// Bid
	if !validStrategies[strings.ToLower(c.Bid.Strategy)] {
		errs = append(errs, fmt.Sprintf("bid: unknown strategy %q (valid: flat_markup, trend_roi)", c.Bid.Strategy))
	}
	if c.Bid.Increment < 0 {
		errs = append(errs, "bid: increment must be >= 0")
	}
	if c.Bid.MinROI < 0 {
		errs = append(errs, "bid: min_roi must be >= 0")
	}
	if c.Bid.MaxOverpayFraction < 0 {
		errs = append(errs, "bid: max_overpay_fraction must be >= 0")
	}
	if c.Bid.CashBuffer < 0 {
		errs = append(errs, "bid: cash_buffer must be >= 0")
	}

	// Submit
	if len(c.Submit.Endpoints) == 0 {
		errs = append(errs, "submit: at least one endpoint must be configured")
	}
	for i, ep := range c.Submit.Endpoints {
		if ep.Path == "" {
			errs = append(errs, fmt.Sprintf("submit: endpoints[%d]: path must not be empty", i))
		}
		switch strings.ToUpper(ep.Method) {
		case "POST", "PUT":
		default:
			errs = append(errs, fmt.Sprintf("submit: endpoints[%d]: method must be POST or PUT, got %q", i, ep.Method))
		}
		if ep.PayloadKey == "" {
			errs = append(errs, fmt.Sprintf("submit: endpoints[%d]: payload_key must not be empty", i))
		}
	}
	if len(c.Submit.SuccessStatuses) == 0 {
		errs = append(errs, "submit: success_statuses must not be empty")
	}
	if len(c.Submit.MismatchStatuses) == 0 {
		errs = append(errs, "submit: mismatch_statuses must not be empty")
	}

	// Notify — both Telegram fields must be set together, or neither.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
