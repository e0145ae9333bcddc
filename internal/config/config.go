package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Feeder   FeederConfig
	Vitals   VitalsConfig
	Push     PushConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MQTTConfig describes the feeder device link. The broker requires mutual
// TLS: a root CA plus a per-device certificate and private key.
type MQTTConfig struct {
	BrokerURL      string        `mapstructure:"broker_url"`
	ClientID       string        `mapstructure:"client_id"`
	CAFile         string        `mapstructure:"ca_file"`
	CertFile       string        `mapstructure:"cert_file"`
	KeyFile        string        `mapstructure:"key_file"`
	KeepAlive      time.Duration `mapstructure:"keep_alive"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
	ControlTopic   string        `mapstructure:"control_topic"`
	WeightTopic    string        `mapstructure:"weight_topic"`
}

type FeederConfig struct {
	SettleWindow      time.Duration `mapstructure:"settle_window"`
	DispenseThreshold float64       `mapstructure:"dispense_threshold"`
	WeightFreshness   time.Duration `mapstructure:"weight_freshness"`
}

type VitalsConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Staleness    time.Duration `mapstructure:"staleness"`
}

type PushConfig struct {
	RelayEndpoint string        `mapstructure:"relay_endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("PETHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// MQTT defaults
	viper.SetDefault("mqtt.client_id", "petprotect-hub")
	viper.SetDefault("mqtt.keep_alive", "60s")
	viper.SetDefault("mqtt.connect_timeout", "10s")
	viper.SetDefault("mqtt.publish_timeout", "5s")
	viper.SetDefault("mqtt.control_topic", "feeder/control")
	viper.SetDefault("mqtt.weight_topic", "feeder/weight")

	// Feeder defaults
	viper.SetDefault("feeder.settle_window", "7s")
	viper.SetDefault("feeder.dispense_threshold", 5.0)
	viper.SetDefault("feeder.weight_freshness", "15s")

	// Vitals defaults
	viper.SetDefault("vitals.poll_interval", "5s")
	viper.SetDefault("vitals.staleness", "20s")

	// Push defaults
	viper.SetDefault("push.relay_endpoint", "https://exp.host/--/api/v2/push/send")
	viper.SetDefault("push.timeout", "10s")
}

func validateConfig(config *Config) error {
	if config.Database.Postgres.Host == "" {
		return fmt.Errorf("postgres host is required")
	}
	if config.MQTT.BrokerURL == "" {
		return fmt.Errorf("mqtt broker URL is required")
	}
	if config.Feeder.DispenseThreshold <= 0 {
		return fmt.Errorf("feeder dispense threshold must be positive")
	}
	return nil
}
