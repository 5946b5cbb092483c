package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

// StorageConfig selects the host key-value backend every store writes into.
type StorageConfig struct {
	Backend    string `yaml:"backend" validate:"required|in:memory,badger"`
	Path       string `yaml:"path"`
	KeyPrefix  string `yaml:"keyPrefix"`
	QuotaBytes int    `yaml:"quotaBytes" validate:"min:0"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ExpiryConfig struct {
	FavoritesTTL time.Duration `yaml:"favoritesTTL" validate:"required|min:1"`
	SeenTTL      time.Duration `yaml:"seenTTL" validate:"required|min:1"`
	StaleAfter   time.Duration `yaml:"staleAfter" validate:"required|min:1"`
}

type FetchConfig struct {
	BaseURL string        `yaml:"baseURL" validate:"required|fullUrl"`
	AuthKey string        `yaml:"authKey"`
	Timeout time.Duration `yaml:"timeout"`
}

type OfflineConfig struct {
	MaxDetails int `yaml:"maxDetails" validate:"min:0"`
}

type Config struct {
	AppName     string
	AppVersion  string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Storage     StorageConfig `yaml:"storage"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Expiry      ExpiryConfig  `yaml:"expiry"`
	Fetch       FetchConfig   `yaml:"fetch"`
	Offline     OfflineConfig `yaml:"offline"`
}
