package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. JQDATA_GATEWAY_ADDR.
const EnvPrefix = "JQDATA"

type Config struct {
	BaseURL    string        `mapstructure:"base_url"`
	Mobile     string        `mapstructure:"mobile"`
	Password   string        `mapstructure:"password"`
	Token      string        `mapstructure:"token"`
	FreshToken bool          `mapstructure:"fresh_token"`
	Timeout    time.Duration `mapstructure:"timeout"`
	DBPath     string        `mapstructure:"db_path"`
	Log        LogConfig     `mapstructure:"log"`
	Gateway    GatewayConfig `mapstructure:"gateway"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

type GatewayConfig struct {
	Addr        string `mapstructure:"addr"`
	AuthToken   string `mapstructure:"auth_token"` // empty disables auth
	RetryOnAuth bool   `mapstructure:"retry_on_auth"`
}

// HasCredential reports whether a mobile/password pair is configured.
func (c *Config) HasCredential() bool {
	return c.Mobile != "" && c.Password != ""
}

// New returns a viper instance with defaults and environment overrides
// registered. Flags may be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "https://dataapi.joinquant.com/apis")
	v.SetDefault("mobile", "")
	v.SetDefault("password", "")
	v.SetDefault("token", "")
	v.SetDefault("fresh_token", false)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("db_path", "jqdata.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("gateway.addr", ":8088")
	v.SetDefault("gateway.auth_token", "")
	v.SetDefault("gateway.retry_on_auth", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, if given, and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %v", cfg.Timeout)
	}
	return cfg, nil
}
