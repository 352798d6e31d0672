package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	HTTP struct {
		Port int
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Redis struct {
		Addr     string
		Password string
		DB       int
	} `mapstructure:"redis"`

	Jobs struct {
		ReorderScanInterval time.Duration `mapstructure:"reorder_scan_interval"`
	} `mapstructure:"jobs"`
}

// Load reads configuration from an optional file plus MATFLOW_* environment
// overrides (MATFLOW_POSTGRES_DSN, MATFLOW_REDIS_ADDR, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MATFLOW")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can resolve it during
	// Unmarshal.
	v.SetDefault("http.port", 8080)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jobs.reorder_scan_interval", time.Hour)

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
