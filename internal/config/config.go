package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"calgrid/internal/model"
)

// SubscriptionConfig describes an ICS feed imported into the store at startup.
type SubscriptionConfig struct {
	// URL is the ICS endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Category is the category id assigned to imported events when the feed
	// does not carry a CATEGORIES value matching an existing category.
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// ResizeConfig controls how pointer movement snaps during a resize gesture.
type ResizeConfig struct {
	PixelsPerStep  int `yaml:"pixels_per_step" json:"pixels_per_step"`
	MinutesPerStep int `yaml:"minutes_per_step" json:"minutes_per_step"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// DefaultView is the granularity selected when a session starts.
	DefaultView model.ViewType `yaml:"default_view" json:"default_view"`

	// SidebarOpen is the initial sidebar state.
	SidebarOpen bool `yaml:"sidebar_open" json:"sidebar_open"`

	// DefaultCategories seed the store after the sentinel. At most
	// model.MaxCategories entries are used.
	DefaultCategories []model.Category `yaml:"default_categories" json:"default_categories"`

	Resize ResizeConfig `yaml:"resize" json:"resize"`

	// Subscriptions are fetched once at startup and imported.
	Subscriptions []SubscriptionConfig `yaml:"subscriptions" json:"subscriptions"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

func defaultCategories() []model.Category {
	return []model.Category{
		{ID: "holidays", Name: "Holidays", Color: "#4CAF50"},
		{ID: "family", Name: "Family", Color: "#2196F3"},
		{ID: "work", Name: "Work", Color: "#F44336"},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:            "127.0.0.1:8080",
		LogLevel:          "info",
		DefaultView:       model.ViewWeek,
		SidebarOpen:       true,
		DefaultCategories: defaultCategories(),
		Resize: ResizeConfig{
			PixelsPerStep:  20,
			MinutesPerStep: 15,
		},
		Subscriptions: []SubscriptionConfig{},
		BasicAuth:     nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !c.DefaultView.Valid() {
		c.DefaultView = model.ViewWeek
	}
	if c.DefaultCategories == nil {
		c.DefaultCategories = defaultCategories()
	}
	// The sentinel is implicit; drop it and anything past the cap.
	cats := make([]model.Category, 0, len(c.DefaultCategories))
	for _, cat := range c.DefaultCategories {
		if cat.IsSentinel() || cat.ID == "" {
			continue
		}
		if len(cats) == model.MaxCategories {
			break
		}
		cats = append(cats, cat)
	}
	c.DefaultCategories = cats

	if c.Resize.PixelsPerStep <= 0 {
		c.Resize.PixelsPerStep = 20
	}
	if c.Resize.MinutesPerStep <= 0 {
		c.Resize.MinutesPerStep = 15
	}
	if c.Subscriptions == nil {
		c.Subscriptions = []SubscriptionConfig{}
	}
}

// ApplyEnv overlays CALGRID_* environment variables onto c.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("CALGRID_LISTEN")); v != "" {
		c.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("CALGRID_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

// Load reads the YAML config at path over DefaultConfig. On first run,
// when path does not exist, the defaults are written there and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg := DefaultConfig()
		// The defaults are still usable when the file cannot be written.
		return cfg, Save(path, cfg)
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save normalizes cfg and writes it to path as YAML with 0600
// permissions, replacing any existing file in one rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes data to a temp file beside path, then renames it.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, werr := tmp.Write(data)
	if werr == nil {
		werr = tmp.Sync()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return werr
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save writes c to path.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
