package providers

import (
	"testing"
	"time"

	"adoptwatch/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: structures.StorageConfig{
			Backend: "memory",
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/adoptwatch.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Expiry: structures.ExpiryConfig{
			FavoritesTTL: 7 * 24 * time.Hour,
			SeenTTL:      30 * 24 * time.Hour,
			StaleAfter:   15 * time.Minute,
		},
		Fetch: structures.FetchConfig{
			BaseURL: "https://ws.example.org/adoptable",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_UnknownBackend(t *testing.T) {
	c := validConfig()
	c.Storage.Backend = "indexeddb"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_BadgerNeedsPath(t *testing.T) {
	c := validConfig()
	c.Storage.Backend = "badger"
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Storage.Path = "/tmp/adoptwatch-db"
	assert.NoError(t, NewCnfValidator(c).Validate())
}
