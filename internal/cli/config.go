package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/session"
)

// Backend names accepted by --cache-backend and --session-backend.
const (
	backendNone   = "none"
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
)

// Settings are the resolved CLI settings: defaults, then the config file,
// then WATERFALL_* environment variables, then flags.
type Settings struct {
	Config         string        `mapstructure:"config"`
	CacheBackend   string        `mapstructure:"cache-backend"`
	CacheDir       string        `mapstructure:"cache-dir"`
	RedisAddr      string        `mapstructure:"redis-addr"`
	RedisPassword  string        `mapstructure:"redis-password"`
	RedisDB        int           `mapstructure:"redis-db"`
	Addr           string        `mapstructure:"addr"`
	SessionBackend string        `mapstructure:"session-backend"`
	SessionDir     string        `mapstructure:"session-dir"`
	SessionTTL     time.Duration `mapstructure:"session-ttl"`
}

// addPersistentFlags registers the settings flags on root and binds them to v.
func addPersistentFlags(root *cobra.Command, v *viper.Viper) error {
	f := root.PersistentFlags()
	f.String("config", "", "path to config file (default .waterfall.toml in . or $HOME)")
	f.String("cache-backend", backendFile, "artifact cache: file, redis or none")
	f.String("cache-dir", "", "file cache directory (default $XDG_CACHE_HOME/waterfall)")
	f.String("redis-addr", "localhost:6379", "redis address for the redis backends")
	f.String("redis-password", "", "redis password")
	f.Int("redis-db", 0, "redis database number")
	return v.BindPFlags(f)
}

// initConfig configures where v looks for settings.
func initConfig(v *viper.Viper) {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".waterfall")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("WATERFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("cache-backend", backendFile)
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("addr", ":8080")
	v.SetDefault("session-backend", backendMemory)
	v.SetDefault("session-ttl", session.DefaultTTL)
}

// loadSettings reads the config file, if any, and resolves all settings.
func loadSettings(v *viper.Viper) (Settings, error) {
	initConfig(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	switch s.CacheBackend {
	case backendNone, backendFile, backendRedis:
	default:
		return fmt.Errorf("invalid cache-backend %q (must be file, redis or none)", s.CacheBackend)
	}
	switch s.SessionBackend {
	case "", backendMemory, backendFile, backendRedis:
	default:
		return fmt.Errorf("invalid session-backend %q (must be memory, file or redis)", s.SessionBackend)
	}
	return nil
}

// openCache creates the artifact cache selected by the settings.
// noCache forces the null cache.
func (s Settings) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch s.CacheBackend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Prefix:   appName + ":",
		})
	}
	dir, err := s.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openSessions creates the session store selected by the settings.
func (s Settings) openSessions(ctx context.Context) (session.Store, error) {
	switch s.SessionBackend {
	case backendFile:
		return session.NewFileStore(s.SessionDir)
	case backendRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Keyer:    cache.NewScopedKeyer(nil, appName+":"),
		})
	}
	return session.NewMemoryStore(), nil
}

// cacheDir returns the configured cache directory or the XDG default.
func (s Settings) cacheDir() (string, error) {
	if s.CacheDir != "" {
		return s.CacheDir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/waterfall/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
