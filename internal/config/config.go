// Package config loads the service configuration from configs/config.yml,
// an optional .env file and AMC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "AMC"

// DefaultMaxRecords caps a single generation request unless configured.
const DefaultMaxRecords = 500_000

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Retention RetentionConfig `mapstructure:"retention"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig points at the SQLite store. The default is a private in-memory
// database so runs never outlive the process.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// GeneratorConfig bounds what a single request may ask for.
type GeneratorConfig struct {
	MaxRecords     int           `mapstructure:"max_records"`
	ReplayInterval time.Duration `mapstructure:"replay_interval"`
	PageSize       int           `mapstructure:"page_size"`
}

type RetentionConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Tick time.Duration `mapstructure:"tick"`
}

// RedisConfig enables the summary cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MQTTConfig enables record publishing when Broker is set.
type MQTTConfig struct {
	Broker         string        `mapstructure:"broker"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Topic          string        `mapstructure:"topic"`
	QoS            byte          `mapstructure:"qos"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// StorageConfig enables export archiving when Endpoint is set.
type StorageConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Bucket    string        `mapstructure:"bucket"`
	UseSSL    bool          `mapstructure:"use_ssl"`
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.path", ":memory:")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("generator.max_records", DefaultMaxRecords)
	v.SetDefault("generator.replay_interval", time.Second)
	v.SetDefault("generator.page_size", 100)

	v.SetDefault("retention.ttl", 24*time.Hour)
	v.SetDefault("retention.tick", 10*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 15*time.Minute)

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "amc_simulator")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic", "amc/filtration/records")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.connect_timeout", 10*time.Second)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "amc-exports")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.url_expiry", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
}

// Load reads configName from the given search paths. A missing config file
// or .env is not an error; defaults and environment variables still apply.
func Load(configName string, paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configName)
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ErrInvalid marks a configuration that cannot start the service.
var ErrInvalid = errors.New("invalid config")

func (c *Config) Validate() error {
	switch {
	case c.Server.Port == "":
		return fmt.Errorf("%w: server.port is empty", ErrInvalid)
	case c.Generator.MaxRecords <= 0:
		return fmt.Errorf("%w: generator.max_records must be positive", ErrInvalid)
	case c.Generator.PageSize <= 0:
		return fmt.Errorf("%w: generator.page_size must be positive", ErrInvalid)
	case c.Retention.Tick <= 0:
		return fmt.Errorf("%w: retention.tick must be positive", ErrInvalid)
	case c.MQTT.QoS > 2:
		return fmt.Errorf("%w: mqtt.qos must be 0, 1 or 2", ErrInvalid)
	}
	return nil
}
