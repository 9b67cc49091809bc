package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	TCPAddr         string        `mapstructure:"tcp_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Environment string `mapstructure:"environment"`
}

type IngestConfig struct {
	MetadataURL string        `mapstructure:"metadata_url"`
	WebfontsURL string        `mapstructure:"webfonts_url"`
	APIKey      string        `mapstructure:"api_key"`
	Sort        string        `mapstructure:"sort"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RequestRate float64       `mapstructure:"request_rate"`
	BatchSize   int           `mapstructure:"batch_size"`
	Refresh     bool          `mapstructure:"refresh"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type AdminConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const envPrefix = "FONTPAIR"

func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":9090",
			TCPAddr:         ":7070",
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Path: filepath.Join(home, ".fontpair", "data.db"),
		},
		Log: LogConfig{
			Level:       "info",
			Environment: "development",
		},
		Ingest: IngestConfig{
			MetadataURL: "https://fonts.google.com/metadata/fonts",
			WebfontsURL: "https://www.googleapis.com/webfonts/v1/webfonts",
			Sort:        "popularity",
			Timeout:     60 * time.Second,
			RequestRate: 2,
			BatchSize:   100,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
	}
}

// LoadConfig applies defaults < config file < FONTPAIR_* environment.
// An empty path looks for fontpair.yaml in the working directory and in
// ~/.fontpair; a missing file is not an error unless path was given.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fontpair")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fontpair"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return errors.New("config: db.path is required")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("config: ratelimit values must be >= 0")
	}
	if c.Ingest.BatchSize <= 0 {
		return errors.New("config: ingest.batch_size must be > 0")
	}
	return nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("server.http_addr", def.Server.HTTPAddr)
	v.SetDefault("server.grpc_addr", def.Server.GRPCAddr)
	v.SetDefault("server.tcp_addr", def.Server.TCPAddr)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	v.SetDefault("db.path", def.DB.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.environment", def.Log.Environment)
	v.SetDefault("ingest.metadata_url", def.Ingest.MetadataURL)
	v.SetDefault("ingest.webfonts_url", def.Ingest.WebfontsURL)
	v.SetDefault("ingest.api_key", def.Ingest.APIKey)
	v.SetDefault("ingest.sort", def.Ingest.Sort)
	v.SetDefault("ingest.timeout", def.Ingest.Timeout)
	v.SetDefault("ingest.request_rate", def.Ingest.RequestRate)
	v.SetDefault("ingest.batch_size", def.Ingest.BatchSize)
	v.SetDefault("ingest.refresh", def.Ingest.Refresh)
	v.SetDefault("ratelimit.rps", def.RateLimit.RPS)
	v.SetDefault("ratelimit.burst", def.RateLimit.Burst)
	v.SetDefault("admin.enabled", def.Admin.Enabled)
}

// short aliases kept for docker-compose files
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("db.path", envPrefix+"_DB_PATH")
	_ = v.BindEnv("server.http_addr", envPrefix+"_HTTP_ADDR")
	_ = v.BindEnv("server.grpc_addr", envPrefix+"_GRPC_ADDR")
	_ = v.BindEnv("ingest.api_key", envPrefix+"_GOOGLE_API_KEY", envPrefix+"_INGEST_API_KEY")
	_ = v.BindEnv("log.level", envPrefix+"_LOG_LEVEL")
}
