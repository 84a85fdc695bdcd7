package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Client   ClientConfig   `mapstructure:"client"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// ClientConfig is the identity this service presents to Open Payments
// servers: the wallet address it acts as and the key it signs with.
type ClientConfig struct {
	WalletAddressURL string `mapstructure:"wallet_address_url"`
	KeyID            string `mapstructure:"key_id"`
	// PrivateKey is an inline PEM block; PrivateKeyPath points at a PEM file.
	// Inline wins when both are set.
	PrivateKey     string `mapstructure:"private_key"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	// BootstrapURL, when set, names an endpoint serving client credentials as
	// JSON; fetched values fill in whatever the fields above leave empty.
	BootstrapURL string `mapstructure:"bootstrap_url"`
}

// PrivateKeyMaterial returns the configured key source, preferring inline PEM.
func (c ClientConfig) PrivateKeyMaterial() string {
	if c.PrivateKey != "" {
		return c.PrivateKey
	}
	return c.PrivateKeyPath
}

// PaymentConfig tunes the payment saga.
type PaymentConfig struct {
	// FinishURI is the callback the authorization server redirects the end
	// user to after consent.
	FinishURI string `mapstructure:"finish_uri"`
	// SenderWalletURL is the default debtor wallet for requests that name none.
	SenderWalletURL     string `mapstructure:"sender_wallet_url"`
	DefaultAssetCode    string `mapstructure:"default_asset_code"`
	DefaultAssetScale   int    `mapstructure:"default_asset_scale"`
	MaxContinueAttempts int    `mapstructure:"max_continue_attempts"`
}

// StoreConfig selects and tunes the pending-payment store backend.
type StoreConfig struct {
	Backend       string        `mapstructure:"backend"` // memory, redis, postgres
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: OPB_ (Open Payments
// Bridge). Nested keys use underscore: OPB_CLIENT_KEY_ID, OPB_STORE_BACKEND.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("client.wallet_address_url", "")
	v.SetDefault("client.key_id", "")
	v.SetDefault("client.private_key", "")
	v.SetDefault("client.private_key_path", "private.key")
	v.SetDefault("client.bootstrap_url", "")
	v.SetDefault("payment.finish_uri", "http://localhost:8080/confirm-payment")
	v.SetDefault("payment.sender_wallet_url", "")
	v.SetDefault("payment.default_asset_code", "USD")
	v.SetDefault("payment.default_asset_scale", 2)
	v.SetDefault("payment.max_continue_attempts", 20)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.ttl", "30m")
	v.SetDefault("store.sweep_interval", "5m")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "open_payments_bridge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: OPB_CLIENT_KEY_ID -> client.key_id
	v.SetEnvPrefix("OPB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
