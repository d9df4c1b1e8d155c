package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		RateLimit      struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Database struct {
		// Driver is mysql, postgres or memory.
		Driver      string `yaml:"driver"`
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslMode"`
		AutoMigrate bool   `yaml:"autoMigrate"`
		MaxOpen     int    `yaml:"maxOpenConns"`
		MaxIdle     int    `yaml:"maxIdleConns"`
	} `yaml:"database"`

	Units struct {
		// DeletePolicy is cascade or orphan.
		DeletePolicy string `yaml:"deletePolicy"`
	} `yaml:"units"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
		PublicURL  string `yaml:"publicURL"`
	} `yaml:"minio"`

	OpenAI struct {
		Enabled bool   `yaml:"enabled"`
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"openai"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used for every key the file leaves out.
func Default() *Config {
	var c Config
	c.Server.Port = 8000
	c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	c.Server.RateLimit.Capacity = 100
	c.Server.RateLimit.RefillRate = 20
	c.Database.Driver = "mysql"
	c.Database.Host = "localhost"
	c.Database.Port = 3306
	c.Database.SSLMode = "disable"
	c.Database.AutoMigrate = true
	c.Units.DeletePolicy = "cascade"
	c.Minio.BucketName = "relatorios"
	c.OpenAI.Model = "gpt-4o-mini"
	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Load baca file config.yaml di atas default, lalu validasi
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets secrets stay out of the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RateLimit.Capacity <= 0 || c.Server.RateLimit.RefillRate <= 0 {
		errs = append(errs, errors.New("server.rateLimit capacity and refillRate must be positive"))
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.host and database.name are required for %s", c.Database.Driver))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q: want mysql, postgres or memory", c.Database.Driver))
	}
	switch c.Units.DeletePolicy {
	case "cascade", "orphan":
	default:
		errs = append(errs, fmt.Errorf("units.deletePolicy %q: want cascade or orphan", c.Units.DeletePolicy))
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		errs = append(errs, errors.New("minio.endpoint and minio.bucketName are required when minio is enabled"))
	}
	if c.OpenAI.Enabled && c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("openai.apiKey is required when openai is enabled"))
	}
	return errors.Join(errs...)
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq URL.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:   "/" + c.Database.Name,
	}
	q := url.Values{}
	q.Set("sslmode", strings.TrimSpace(c.Database.SSLMode))
	u.RawQuery = q.Encode()
	return u.String()
}
