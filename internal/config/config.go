package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port          int    `yaml:"port"`
		AllowedOrigin string `yaml:"allowedOrigin"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // postgres | mysql
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Auth struct {
		Mode        string `yaml:"mode"` // static | verify
		ProviderURL string `yaml:"providerUrl"`
		AnonKey     string `yaml:"anonKey"`
	} `yaml:"auth"`

	Groq struct {
		APIKey  string `yaml:"apiKey"`
		BaseURL string `yaml:"baseUrl"`
		Model   string `yaml:"model"`
	} `yaml:"groq"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Reminders struct {
		File string `yaml:"file"`
	} `yaml:"reminders"`
}

// Load reads the yaml config file, then applies environment overrides. A
// missing file is not an error; an env-only deployment is supported.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setEnvInt(&c.Server.Port, "PORT")
	setEnv(&c.Server.AllowedOrigin, "ALLOWED_ORIGIN")
	setEnv(&c.Database.Driver, "DATABASE_DRIVER")
	setEnv(&c.Database.Host, "DATABASE_HOST")
	setEnvInt(&c.Database.Port, "DATABASE_PORT")
	setEnv(&c.Database.User, "DATABASE_USER")
	setEnv(&c.Database.Password, "DATABASE_PASSWORD")
	setEnv(&c.Database.Name, "DATABASE_NAME")
	setEnv(&c.Database.SSLMode, "DATABASE_SSLMODE")
	setEnv(&c.Auth.Mode, "AUTH_MODE")
	setEnv(&c.Auth.ProviderURL, "AUTH_PROVIDER_URL")
	setEnv(&c.Auth.AnonKey, "AUTH_ANON_KEY")
	setEnv(&c.Groq.APIKey, "GROQ_API_KEY")
	setEnv(&c.Groq.BaseURL, "GROQ_BASE_URL")
	setEnv(&c.Groq.Model, "GROQ_MODEL")
	setEnv(&c.Reminders.File, "REMINDERS_FILE")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = "http://localhost:5173"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "mysql" {
			c.Database.Port = 3306
		} else {
			c.Database.Port = 5432
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Auth.Mode == "" {
		// Token verification must be an explicit choice; without a provider
		// URL the only workable posture is the fixed development identity.
		if c.Auth.ProviderURL == "" {
			c.Auth.Mode = "static"
		} else {
			c.Auth.Mode = "verify"
		}
	}
	if c.Reminders.File == "" {
		c.Reminders.File = "data/reminders.json"
	}
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setEnvInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MySQLDSN builds a go-sql-driver DSN
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}
