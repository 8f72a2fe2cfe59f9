// Package config loads relay settings from a TOML file, a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/relay"
	"github.com/joho/godotenv"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvAPIKey  = "ANTHROPIC_API_KEY"
	EnvBaseURL = "ANTHROPIC_BASE_URL"
	EnvModel   = "RELAY_MODEL"
)

// Config holds every user-tunable setting. Zero values mean "use the
// default" throughout.
type Config struct {
	Model        string   `toml:"model"`
	MaxTokens    int      `toml:"max_tokens"`
	Temperature  *float64 `toml:"temperature"`
	SystemPrompt string   `toml:"system_prompt"`
	BaseURL      string   `toml:"base_url"`
	SessionDir   string   `toml:"session_dir"`
	LogFile      string   `toml:"log_file"`
	CodeStyle    string   `toml:"code_style"`
	Theme        Theme    `toml:"theme"`

	// APIKey comes from the environment only.
	APIKey string `toml:"-"`
}

// Theme overrides individual colors of [relay.DefaultTheme]. Unset fields
// keep the default.
type Theme struct {
	UserMsg    *int `toml:"user_msg"`
	Heading    *int `toml:"heading"`
	Subheading *int `toml:"subheading"`
	Minor      *int `toml:"minor"`
	InlineCode *int `toml:"inline_code"`
	Bullet     *int `toml:"bullet"`
	Error      *int `toml:"error"`
	Muted      *int `toml:"muted"`
	CodeBg     *int `toml:"code_bg"`
	Accent     *int `toml:"accent"`
}

// Dir returns the relay configuration directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(base, "relay"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path. An empty path means the default
// location, which is allowed to be missing; an explicit path is not.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config: %s: unknown keys %s: %w", path, strings.Join(keys, ", "), relay.ErrValidation)
	}
	return cfg, nil
}

// Env returns a lookup over the process environment that falls back to the
// values of the .env file at path. A missing file is not an error.
func Env(path string) (func(string) string, error) {
	vals, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vals[key]
	}, nil
}

// ApplyEnv fills the API key and overrides the base URL and model from
// the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.APIKey = getenv(EnvAPIKey)
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvModel); v != "" {
		c.Model = v
	}
}

// SessionPath returns the directory sessions are stored in.
func (c Config) SessionPath() (string, error) {
	if c.SessionDir != "" {
		return expandHome(c.SessionDir)
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// LogPath returns the log file path, or "" when logging is off.
func (c Config) LogPath() (string, error) {
	if c.LogFile == "" {
		return "", nil
	}
	return expandHome(c.LogFile)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", c.MaxTokens, relay.ErrValidation)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 1) {
		return fmt.Errorf("temperature must be in [0, 1], got %g: %w", *c.Temperature, relay.ErrValidation)
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url must be an http(s) URL, got %q: %w", c.BaseURL, relay.ErrValidation)
		}
	}
	return c.Theme.validate()
}

// Apply returns base with the configured overrides.
func (t Theme) Apply(base relay.Theme) relay.Theme {
	for _, f := range t.fields(&base) {
		if f.override != nil {
			*f.target = *f.override
		}
	}
	return base
}

func (t Theme) validate() error {
	var base relay.Theme
	for _, f := range t.fields(&base) {
		if f.override != nil && (*f.override < -1 || *f.override > 255) {
			return fmt.Errorf("theme.%s must be in [-1, 255], got %d: %w", f.name, *f.override, relay.ErrValidation)
		}
	}
	return nil
}

type themeField struct {
	name     string
	override *int
	target   *int
}

func (t Theme) fields(dst *relay.Theme) []themeField {
	return []themeField{
		{"user_msg", t.UserMsg, &dst.UserMsg},
		{"heading", t.Heading, &dst.Heading},
		{"subheading", t.Subheading, &dst.Subheading},
		{"minor", t.Minor, &dst.Minor},
		{"inline_code", t.InlineCode, &dst.InlineCode},
		{"bullet", t.Bullet, &dst.Bullet},
		{"error", t.Error, &dst.Error},
		{"muted", t.Muted, &dst.Muted},
		{"code_bg", t.CodeBg, &dst.CodeBg},
		{"accent", t.Accent, &dst.Accent},
	}
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(home, rest), nil
}
