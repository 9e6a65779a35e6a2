package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type MatchingConfig struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	MatchingDB `yaml:"matching_db"`
	LogConfig  `yaml:"log_config"`
	Kafka      `yaml:"kafka"`
	Migrations `yaml:"migrations"`
	Scheduler  `yaml:"scheduler"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type MatchingDB struct {
	Dsn string `yaml:"dsn" env:"MATCHING_DB_DSN"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type Kafka struct {
	Host              string `yaml:"host" env:"KAFKA_HOST"`
	Port              string `yaml:"port" env:"KAFKA_PORT"`
	NotificationTopic string `yaml:"notification_topic" env-default:"notification-events"`
}

type Migrations struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Path    string `yaml:"path" env-default:"migrations"`
}

type Scheduler struct {
	Enabled         bool `yaml:"enabled" env-default:"false"`
	IntervalMinutes int  `yaml:"interval_minutes" env-default:"60"`
}

func MustLoad() *MatchingConfig {
	configPath := os.Getenv("MATCHING_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("MATCHING_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg MatchingConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
