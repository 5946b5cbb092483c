package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"adoptwatch/internal/structures"

	"github.com/spf13/viper"
)

const (
	AppName    = "AdoptWatch"
	AppVersion = "1.4.0"
)

func setConfigDefaults() {
	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("storage.keyPrefix", "adoptwatch/")
	viper.SetDefault("expiry.favoritesTTL", 7*24*time.Hour)
	viper.SetDefault("expiry.seenTTL", 30*24*time.Hour)
	viper.SetDefault("expiry.staleAfter", 15*time.Minute)
	viper.SetDefault("fetch.timeout", 10*time.Second)
	viper.SetDefault("offline.maxDetails", 50)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")
	setConfigDefaults()

	viper.BindEnv("logger.level", "ADOPTWATCH_LOG_LEVEL")
	viper.BindEnv("storage.backend", "ADOPTWATCH_STORAGE_BACKEND")
	viper.BindEnv("storage.path", "ADOPTWATCH_STORAGE_PATH")
	viper.BindEnv("persistence.saveInterval", "ADOPTWATCH_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "ADOPTWATCH_CACHE_ENABLED")
	viper.BindEnv("cache.size", "ADOPTWATCH_CACHE_SIZE")
	viper.BindEnv("fetch.baseURL", "ADOPTWATCH_FETCH_URL")
	viper.BindEnv("fetch.authKey", "ADOPTWATCH_FETCH_KEY")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.AppVersion = AppVersion
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
