package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Plant    PlantConfig    `yaml:"plant"`
	Polling  PollingConfig  `yaml:"polling"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

// PlantConfig points at the production backend that records machine events.
type PlantConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PollingConfig controls the live status (default 1s) and live stats
// (default 5s) poll cadence.
type PollingConfig struct {
	StatusIntervalMS int `yaml:"status_interval_ms"`
	StatsIntervalMS  int `yaml:"stats_interval_ms"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.applyDefaults()
	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8090",
			Mode: "debug",
		},
		Plant: PlantConfig{
			BaseURL:        "http://127.0.0.1:8000",
			TimeoutSeconds: 10,
		},
		Polling: PollingConfig{
			StatusIntervalMS: 1000,
			StatsIntervalMS:  5000,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "wrapdash.db",
		},
		JWT: JWTConfig{
			Secret:     "wrapdash-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = def.Server.Mode
	}
	if c.Plant.BaseURL == "" {
		c.Plant.BaseURL = def.Plant.BaseURL
	}
	if c.Plant.TimeoutSeconds <= 0 {
		c.Plant.TimeoutSeconds = def.Plant.TimeoutSeconds
	}
	if c.Polling.StatusIntervalMS <= 0 {
		c.Polling.StatusIntervalMS = def.Polling.StatusIntervalMS
	}
	if c.Polling.StatsIntervalMS <= 0 {
		c.Polling.StatsIntervalMS = def.Polling.StatsIntervalMS
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = def.Database.DSN
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = def.JWT.Secret
	}
	if c.JWT.ExpireHour <= 0 {
		c.JWT.ExpireHour = def.JWT.ExpireHour
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if baseURL := os.Getenv("PLANT_BASE_URL"); baseURL != "" {
		c.Plant.BaseURL = baseURL
	}
	if timeout := os.Getenv("PLANT_TIMEOUT_SECONDS"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil && v > 0 {
			c.Plant.TimeoutSeconds = v
		}
	}
	if interval := os.Getenv("STATUS_INTERVAL_MS"); interval != "" {
		if v, err := strconv.Atoi(interval); err == nil && v > 0 {
			c.Polling.StatusIntervalMS = v
		}
	}
	if interval := os.Getenv("STATS_INTERVAL_MS"); interval != "" {
		if v, err := strconv.Atoi(interval); err == nil && v > 0 {
			c.Polling.StatsIntervalMS = v
		}
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
