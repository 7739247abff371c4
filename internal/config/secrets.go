package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so credentials never end up in CI logs.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	// Kickbase
	out.Kickbase = cfg.Kickbase
	redact(&out.Kickbase.Email)
	redact(&out.Kickbase.Password)

	// Notify
	out.Notify = cfg.Notify
	redact(&out.Notify.TelegramToken)
	redact(&out.Notify.DiscordWebhookURL)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Notify.Events != nil {
		out.Notify.Events = make([]string, len(cfg.Notify.Events))
		copy(out.Notify.Events, cfg.Notify.Events)
	}
	if cfg.Selector.AllowedTrendFlags != nil {
		out.Selector.AllowedTrendFlags = make([]int, len(cfg.Selector.AllowedTrendFlags))
		copy(out.Selector.AllowedTrendFlags, cfg.Selector.AllowedTrendFlags)
	}
	if cfg.Submit.Endpoints != nil {
		out.Submit.Endpoints = make([]EndpointConfig, len(cfg.Submit.Endpoints))
		copy(out.Submit.Endpoints, cfg.Submit.Endpoints)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
