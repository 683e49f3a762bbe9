package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (RESTO_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL string `default:"http://127.0.0.1:8000" usage:"RestoManage API base URL" flag:"api-base-url"`
	TokenPath  string `usage:"Path of the persisted session token" flag:"token-path"`
	HTTP       HTTPConfig
	Cache      CacheConfig
	Session    SessionConfig
	Health     HealthConfig
	Google     GoogleConfig
}

// HTTPConfig controls the outgoing HTTP client.
type HTTPConfig struct {
	Timeout time.Duration `default:"15s" usage:"Per-request timeout"`
}

// CacheConfig controls the on-disk catalog snapshot.
type CacheConfig struct {
	Path   string        `usage:"Path of the catalog snapshot" flag:"cache-path"`
	MaxAge time.Duration `default:"24h" usage:"Snapshot age before it is ignored" flag:"cache-max-age"`
}

// SessionConfig controls the token file watcher.
type SessionConfig struct {
	PollInterval time.Duration `default:"2s" usage:"Token file poll interval" flag:"session-poll"`
}

// HealthConfig controls the API reachability probe behind the
// online/offline indicator.
type HealthConfig struct {
	Interval time.Duration `default:"30s" usage:"Reachability probe interval" flag:"health-interval"`
	Timeout  time.Duration `default:"5s"  usage:"Reachability probe timeout" flag:"health-timeout"`
}

// GoogleConfig controls Google sign-in. An empty client ID disables it.
type GoogleConfig struct {
	ClientID string        `usage:"Google OAuth client ID (empty disables Google sign-in)" flag:"google-client-id"`
	Timeout  time.Duration `default:"3m" usage:"How long to wait for the browser sign-in" flag:"google-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and fills in per-user default paths.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "RESTO",
		Files:     []string{"config.yaml", userConfigFile()},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyUserDefaults()

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API base URL is required: set RESTO_API_BASE_URL")
	}
	return &cfg, nil
}

// applyUserDefaults resolves the file paths that depend on the invoking
// user's home directory.
func (c *Config) applyUserDefaults() {
	if c.TokenPath == "" {
		c.TokenPath = filepath.Join(userConfigDir(), "token")
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(userCacheDir(), "catalog.json.gz")
	}
}

func userConfigFile() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "restomanage")
	}
	return ".restomanage"
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "restomanage")
	}
	return ".restomanage"
}
