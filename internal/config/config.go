// Package config loads gitmaster settings from gitmaster.yaml, a .env file,
// the environment and command-line flags.
//
// Precedence follows viper: flags, then GITMASTER_* environment variables,
// then the config file, then defaults. A .env file in the working directory
// is loaded into the environment first and never overrides variables that
// are already set.
//
// Example gitmaster.yaml:
//
//	github:
//	  token: ghp_xxx
//	cache:
//	  backend: redis
//	  ttl: 12h
//	redis:
//	  url: redis://localhost:6379/0
//	mongo:
//	  uri: mongodb://localhost:27017
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/arch"
	"github.com/matzehuels/gitmaster/pkg/errors"
)

const (
	appName   = "gitmaster"
	envPrefix = "GITMASTER"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Config is the resolved configuration.
type Config struct {
	GitHub   GitHubConfig
	Server   ServerConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Analysis AnalysisConfig
	Fetch    FetchConfig
}

type GitHubConfig struct {
	Token string
}

type ServerConfig struct {
	Addr string
}

// CacheConfig selects where analysis results are cached.
type CacheConfig struct {
	Backend string
	// Dir is used by the file backend. Empty selects cache.DefaultDir.
	Dir string
	TTL time.Duration
	// Size is the entry count of the memory backend.
	Size int
}

type RedisConfig struct {
	URL string
}

// MongoConfig enables the persistent result store when URI is set.
type MongoConfig struct {
	URI      string
	Database string
}

type AnalysisConfig struct {
	HotspotFactor  float64
	TopLanguages   int
	MaxConfigNodes int
}

type FetchConfig struct {
	Concurrency int
}

// New returns a viper instance with defaults, search paths and environment
// binding set up. Callers bind flags on it before calling [Load].
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", appName))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, appName))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.size", 256)
	v.SetDefault("mongo.database", appName)
	v.SetDefault("analysis.hotspot_factor", arch.DefaultHotspotFactor)
	v.SetDefault("analysis.top_languages", arch.DefaultTopLanguages)
	v.SetDefault("analysis.max_config_nodes", arch.DefaultMaxConfigNodes)
	v.SetDefault("fetch.concurrency", 8)
}

// Load reads .env and the config file into v and returns the validated
// configuration. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	cfg := &Config{
		GitHub: GitHubConfig{Token: v.GetString("github.token")},
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		Cache: CacheConfig{
			Backend: strings.ToLower(v.GetString("cache.backend")),
			Dir:     v.GetString("cache.dir"),
			TTL:     v.GetDuration("cache.ttl"),
			Size:    v.GetInt("cache.size"),
		},
		Redis: RedisConfig{URL: v.GetString("redis.url")},
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		Analysis: AnalysisConfig{
			HotspotFactor:  v.GetFloat64("analysis.hotspot_factor"),
			TopLanguages:   v.GetInt("analysis.top_languages"),
			MaxConfigNodes: v.GetInt("analysis.max_config_nodes"),
		},
		Fetch: FetchConfig{Concurrency: v.GetInt("fetch.concurrency")},
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BindFlags binds each config key to the named flag of fs. Flags that are
// not registered on fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "bind flag --%s", name)
		}
	}
	return nil
}

// Validate checks backend names and numeric ranges.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheMemory, CacheNone:
	case CacheRedis:
		if err := errors.ValidateRequired("redis.url", c.Redis.URL); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"cache.backend must be one of file, redis, memory, none, got %q", c.Cache.Backend)
	}
	if err := errors.ValidateRange("cache.size", c.Cache.Size, 1, 1_000_000); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Mongo.URI != "" {
		if err := errors.ValidateRequired("mongo.database", c.Mongo.Database); err != nil {
			return err
		}
	}
	if err := errors.ValidateRange("fetch.concurrency", c.Fetch.Concurrency, 1, 64); err != nil {
		return err
	}
	return c.AnalysisOptions().Validate()
}

// AnalysisOptions converts the analysis section into pipeline options.
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Arch: arch.Options{
			HotspotFactor:  c.Analysis.HotspotFactor,
			TopLanguages:   c.Analysis.TopLanguages,
			MaxConfigNodes: c.Analysis.MaxConfigNodes,
		},
	}
}
