package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	RabbitMQ      RabbitMQConfig      `yaml:"rabbitmq"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Images        ImagesConfig        `yaml:"images"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type NotificationsConfig struct {
	// Retained defaults to 10 when unset.
	Retained int `yaml:"retained"`
	// OrderDetailURL is the navigation target template for bell entries;
	// the order id is appended as the "order" query parameter.
	OrderDetailURL string `yaml:"order_detail_url"`
}

type ImagesConfig struct {
	// TargetBytes defaults to 150 KB, HardCapBytes to 1 MB when unset.
	TargetBytes  int `yaml:"target_bytes"`
	HardCapBytes int `yaml:"hard_cap_bytes"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Notifications.Retained <= 0 {
		c.Notifications.Retained = 10
	}
	if c.Notifications.OrderDetailURL == "" {
		c.Notifications.OrderDetailURL = "/dashboard/orders"
	}
	if c.Images.TargetBytes <= 0 {
		c.Images.TargetBytes = 150 * 1024
	}
	if c.Images.HardCapBytes <= 0 {
		c.Images.HardCapBytes = 1024 * 1024
	}
}
