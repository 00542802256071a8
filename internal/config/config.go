package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string    `yaml:"env" env-default:"local" env:"ENV"`
	Discovery Discovery `yaml:"discovery"`
	Server    Server    `yaml:"server"`
	Storage   Storage   `yaml:"storage"`
}

// Discovery описывает параметры multicast-рандеву, общие для клиента и сервера
type Discovery struct {
	Group    string        `yaml:"group" env:"DISCOVERY_GROUP" env-default:"239.0.0.123"`
	Port     int           `yaml:"port" env:"DISCOVERY_PORT" env-default:"6772"`
	TTL      int           `yaml:"ttl" env:"DISCOVERY_TTL" env-default:"32"`
	Interval time.Duration `yaml:"interval" env:"DISCOVERY_INTERVAL" env-default:"5s"`
	// Interfaces ограничивает список интерфейсов по имени, пусто - все
	Interfaces  []string `yaml:"interfaces" env:"DISCOVERY_INTERFACES" env-separator:","`
	FallbackAny bool     `yaml:"fallback_any" env:"DISCOVERY_FALLBACK_ANY" env-default:"true"`
}

// Server описывает сервис, адрес которого анонсируется
type Server struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
	Port int    `yaml:"port" env:"SERVER_PORT" env-default:"1234"`
}

type Storage struct {
	// Path к файлу bbolt с журналом анонсов, пусто - журнал выключен
	Path string `yaml:"path" env:"STORAGE_PATH"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Load reads configPath if it is not empty, otherwise only env and defaults.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// Validate checks ranges that cleanenv cannot express with tags.
func (c *Config) Validate() error {
	if c.Discovery.Port <= 0 || c.Discovery.Port > 65535 {
		return fmt.Errorf("%w: discovery port %d out of range", ErrInvalidConfig, c.Discovery.Port)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Discovery.TTL < 1 || c.Discovery.TTL > 255 {
		return fmt.Errorf("%w: ttl %d out of range", ErrInvalidConfig, c.Discovery.TTL)
	}
	if c.Discovery.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// FetchConfigPath returns the path from CONFIG_PATH when the flag is empty.
// Priority: flag > env > default.
func FetchConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}
