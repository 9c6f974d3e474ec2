// Package config loads the per-service YAML configuration with environment
// overrides. Durations are expressed as millisecond integers in the files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Alertd is the alert service configuration.
type Alertd struct {
	ServiceName string `yaml:"service_name"`
	Port        string `yaml:"port"`

	Alerts struct {
		StrictTransitions  bool `yaml:"strict_transitions"`
		DispatchDelayMinMs int  `yaml:"dispatch_delay_min_ms"`
		DispatchDelayMaxMs int  `yaml:"dispatch_delay_max_ms"`
	} `yaml:"alerts"`

	NATS struct {
		Enabled         bool   `yaml:"enabled"`
		URL             string `yaml:"url"`
		SubjectPrefix   string `yaml:"subject_prefix"`
		PublishRetryMax int    `yaml:"publish_retry_max"`
	} `yaml:"nats"`
}

// Gateway is the camera gateway configuration.
type Gateway struct {
	ServiceName     string `yaml:"service_name"`
	Port            string `yaml:"port"`
	RegistryPath    string `yaml:"registry_path"`
	AlertServiceURL string `yaml:"alert_service_url"`

	Dispatch struct {
		TimeoutMs int `yaml:"timeout_ms"`
	} `yaml:"dispatch"`

	Dedup struct {
		Enabled    bool `yaml:"enabled"`
		MaxKeys    int  `yaml:"max_keys"`
		TTLSeconds int  `yaml:"ttl_seconds"`
	} `yaml:"dedup"`

	RateLimit struct {
		Enabled   bool   `yaml:"enabled"`
		RedisAddr string `yaml:"redis_addr"`
		Rate      int    `yaml:"rate"`
		WindowMs  int    `yaml:"window_ms"`
	} `yaml:"rate_limit"`
}

// LoadAlertd reads the alert service config, applying env overrides.
func LoadAlertd(path string) (*Alertd, error) {
	cfg := &Alertd{}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "sentinel-alertd"
	}
	if cfg.Port == "" {
		cfg.Port = "8081"
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "alerts.created"
	}
	applyEnv(&cfg.ServiceName, "SERVICE_NAME")
	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.NATS.URL, "NATS_URL")
	return cfg, nil
}

// LoadGateway reads the gateway config, applying env overrides.
func LoadGateway(path string) (*Gateway, error) {
	cfg := &Gateway{}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "sentinel-gateway"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = "config/cameras.yaml"
	}
	if cfg.AlertServiceURL == "" {
		cfg.AlertServiceURL = "http://localhost:8081"
	}
	applyEnv(&cfg.ServiceName, "SERVICE_NAME")
	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.RegistryPath, "REGISTRY_PATH")
	applyEnv(&cfg.AlertServiceURL, "ALERT_SERVICE_URL")
	applyEnv(&cfg.RateLimit.RedisAddr, "REDIS_ADDR")
	return cfg, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file means defaults + env only.
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
