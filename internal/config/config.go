package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
		AdminUsername string `yaml:"admin_username"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"auth"`
	Model struct {
		Dir               string  `yaml:"dir"`
		BaseCorpusPath    string  `yaml:"base_corpus_path"`
		DecisionThreshold float64 `yaml:"decision_threshold"`
		MaxFeatures       int     `yaml:"max_features"`
	} `yaml:"model"`
	Retrain struct {
		MinFeedbackCount   int     `yaml:"min_feedback_count"`
		MinTrainingSamples int     `yaml:"min_training_samples"`
		AllowedRegression  float64 `yaml:"allowed_regression"`
		TestFraction       float64 `yaml:"test_fraction"`
		AutoRetrain        bool    `yaml:"auto_retrain"`
		PollIntervalSec    int64   `yaml:"poll_interval_seconds"`
	} `yaml:"retrain"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifier"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Model.Dir == "" {
		c.Model.Dir = "ml_models"
	}
	if c.Model.DecisionThreshold <= 0 {
		c.Model.DecisionThreshold = 0.5
	}
	if c.Model.MaxFeatures <= 0 {
		c.Model.MaxFeatures = 3000
	}
	if c.Retrain.MinFeedbackCount <= 0 {
		c.Retrain.MinFeedbackCount = 50
	}
	if c.Retrain.MinTrainingSamples <= 0 {
		c.Retrain.MinTrainingSamples = 10
	}
	if c.Retrain.TestFraction <= 0 || c.Retrain.TestFraction >= 1 {
		c.Retrain.TestFraction = 0.2
	}
	if c.Retrain.PollIntervalSec <= 0 {
		c.Retrain.PollIntervalSec = 300
	}
}

// TokenTTL returns the configured JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}
