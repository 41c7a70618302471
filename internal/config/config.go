package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`

	Auth struct {
		// RevealUnknownEmail controls whether forgot-password reports
		// unknown emails explicitly or answers with a generic success.
		// Leaks account existence when true. A pointer so an omitted
		// key defaults to true instead of the zero value.
		RevealUnknownEmail *bool  `yaml:"reveal_unknown_email"`
		FrontendURL        string `yaml:"frontend_url"`
	} `yaml:"auth"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		SupportEmail string `yaml:"support_email"`
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type"`       // local or s3
		BasePath  string `yaml:"base_path"`  // for local storage
		BaseURL   string `yaml:"base_url"`   // public URL base
		Bucket    string `yaml:"bucket"`     // for s3
		Region    string `yaml:"region"`     // for s3
		AccessKey string `yaml:"access_key"` // for s3
		SecretKey string `yaml:"secret_key"` // for s3
		Endpoint  string `yaml:"endpoint"`   // for custom s3 endpoints
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // allowed MIME types
	} `yaml:"upload"`
}

// ErrMissingJWTSecret aborts startup: issuing unsigned sessions is
// never acceptable, so there is no fallback secret.
var ErrMissingJWTSecret = errors.New("jwt secret is not configured")

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables
// when DATABASE_URL is set (test and container deployments).
func LoadConfig() {
	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		if err := Validate(&cfg); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.Auth.FrontendURL = os.Getenv("FRONTEND_URL")

	cfg.Email.SMTPHost = os.Getenv("EMAIL_HOST")
	cfg.Email.SMTPPort = 587
	cfg.Email.SMTPUser = os.Getenv("EMAIL_USER")
	cfg.Email.SMTPPassword = os.Getenv("EMAIL_PASS")
	cfg.Email.FromEmail = os.Getenv("EMAIL_USER")
	cfg.Email.SupportEmail = os.Getenv("EMAIL_USER")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Auth.RevealUnknownEmail == nil {
		reveal := true
		cfg.Auth.RevealUnknownEmail = &reveal
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
}

// Validate rejects configurations the server must not start with.
func Validate(cfg *Config) error {
	if cfg.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if cfg.Database.DSN == "" {
		return errors.New("database url is not configured")
	}
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
