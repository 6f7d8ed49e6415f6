package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	NATS        NATSConfig        `yaml:"nats"`
	MinIO       MinIOConfig       `yaml:"minio"`
	Signage     SignageConfig     `yaml:"signage"`
	Housekeeper HousekeeperConfig `yaml:"housekeeper"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SignageConfig struct {
	// TriggerTTL bounds both a trigger's lifetime and the per-face
	// cooldown written alongside it.
	TriggerTTL time.Duration `yaml:"trigger_ttl"`
	APIVersion string        `yaml:"api_version"`
}

type HousekeeperConfig struct {
	Interval         time.Duration `yaml:"interval"`
	TriggerRetention time.Duration `yaml:"trigger_retention"`
	ProfileRetention time.Duration `yaml:"profile_retention"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Signage.TriggerTTL == 0 {
		cfg.Signage.TriggerTTL = 30 * time.Second
	}
	if cfg.Signage.APIVersion == "" {
		cfg.Signage.APIVersion = "1"
	}
	if cfg.Housekeeper.Interval == 0 {
		cfg.Housekeeper.Interval = 5 * time.Minute
	}
	if cfg.Housekeeper.TriggerRetention == 0 {
		cfg.Housekeeper.TriggerRetention = 24 * time.Hour
	}
	if cfg.Housekeeper.ProfileRetention == 0 {
		cfg.Housekeeper.ProfileRetention = 30 * 24 * time.Hour
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VIGIL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("VIGIL_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("VIGIL_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("VIGIL_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("VIGIL_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("VIGIL_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("VIGIL_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("VIGIL_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("VIGIL_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("VIGIL_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("VIGIL_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("VIGIL_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("VIGIL_TRIGGER_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Signage.TriggerTTL = d
		}
	}
}
