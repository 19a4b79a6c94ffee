package config

import "time"

// Config is the root configuration for Zeon.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Catalog CatalogConfig `json:"catalog"`
	Models  ModelsConfig  `json:"models"`
	Planner PlannerConfig `json:"planner"`
	Events  EventsConfig  `json:"events"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CatalogConfig configures where skill definitions are loaded from.
type CatalogConfig struct {
	Dirs       []string `json:"dirs"`        // skill definition directories (default: [$ZEON_PATH/skills])
	Patterns   []string `json:"patterns"`    // definition file globs within each dir
	SQLitePath string   `json:"sqlite_path"` // optional sqlite definition store
	ReloadCron string   `json:"reload_cron"` // optional cron expression for scheduled reloads
}

// ModelsConfig holds planning-provider model configuration.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver    string         `json:"driver"` // "openai", "claude", "gemini", "ollama"
	Model     string         `json:"model"`
	BaseURL   string         `json:"base_url,omitempty"`
	Auth      AuthConfig     `json:"auth"`
	MaxTokens int            `json:"max_tokens,omitempty"`
	Timeout   Duration       `json:"timeout,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// AuthConfig configures credential resolution for a provider.
type AuthConfig struct {
	APIKey string `json:"api_key,omitempty"` // Direct key, ${{ .Env.VAR }} template, or ENC[age:...] blob
	Token  string `json:"token,omitempty"`   // OAuth/Bearer token
}

// PlannerConfig holds plan-generation settings.
type PlannerConfig struct {
	Timeout Duration `json:"timeout,omitempty"` // provider call deadline (default 60s)
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int    `json:"buffer_size"`
	LogDir     string `json:"log_dir,omitempty"` // JSONL event log directory (empty = disabled)
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
