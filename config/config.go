package config

import (
	"errors"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"587"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"BookShelf <no-reply@bookshelf.example.com>"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"AWSACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"AWSSECRETACCESSKEY"`
		Region          string `yaml:"region" env:"AWSS3REGION"`
		Bucket          string `yaml:"bucket" env:"AWSS3BUCKET"`
	} `yaml:"s3"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"LIMITERRPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"LIMITERBURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LIMITERENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"CORSTRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICSENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"BASICAUTHUSERNAME"`
		Password string `yaml:"password" env:"BASICAUTHPASSWORD"`
	} `yaml:"basic_auth"`
}

// Load reads configuration from an optional YAML file and the environment.
// A .env file is loaded first if present so local development values reach
// the environment before cleanenv reads it. Environment variables always
// override file values.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, err
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
