// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotificationConfig holds settings for the status notification pipeline.
type NotificationConfig struct {
	Email    EmailConfig    `mapstructure:"email"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Alerts   AlertConfig    `mapstructure:"alerts"`
}

// EmailConfig selects the outbound email provider. Provider is "ses" or "smtp".
type EmailConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Provider  string `mapstructure:"provider"`
	FromEmail string `mapstructure:"from_email"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`
}

type WebhookConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

// DispatchConfig bounds the outbound side of the pipeline.
type DispatchConfig struct {
	WindowSeconds       int           `mapstructure:"window_seconds"`
	MaxPerWindow        int           `mapstructure:"max_per_window"`
	DedupRetention      time.Duration `mapstructure:"dedup_retention"`
	Timeout             time.Duration `mapstructure:"timeout"`
	GCIdle              time.Duration `mapstructure:"gc_idle"`
	DrainTimeout        time.Duration `mapstructure:"drain_timeout"`
	SharedDedupKeySpace string        `mapstructure:"shared_dedup_keyspace"`
}

// AlertConfig configures operator alerting for dropped dispatches.
type AlertConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fireline-notifier"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8087
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9091
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Notifications.Email.Provider == "" {
		cfg.Notifications.Email.Provider = "smtp"
	}
	if cfg.Notifications.Email.SMTP.Port == 0 {
		cfg.Notifications.Email.SMTP.Port = 587
	}
	if cfg.Notifications.Dispatch.WindowSeconds == 0 {
		cfg.Notifications.Dispatch.WindowSeconds = 60
	}
	if cfg.Notifications.Dispatch.MaxPerWindow == 0 {
		cfg.Notifications.Dispatch.MaxPerWindow = 10
	}
	if cfg.Notifications.Dispatch.DedupRetention == 0 {
		cfg.Notifications.Dispatch.DedupRetention = time.Minute
	}
	if cfg.Notifications.Dispatch.Timeout == 0 {
		cfg.Notifications.Dispatch.Timeout = 10 * time.Second
	}
	if cfg.Notifications.Dispatch.GCIdle == 0 {
		cfg.Notifications.Dispatch.GCIdle = 5 * time.Minute
	}
	if cfg.Notifications.Dispatch.DrainTimeout == 0 {
		cfg.Notifications.Dispatch.DrainTimeout = 15 * time.Second
	}
	if cfg.Notifications.Dispatch.SharedDedupKeySpace == "" {
		cfg.Notifications.Dispatch.SharedDedupKeySpace = "notify:fp"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if cfg.Notifications.Dispatch.WindowSeconds <= 0 {
		return fmt.Errorf("notifications.dispatch.window_seconds must be positive")
	}
	if cfg.Notifications.Dispatch.MaxPerWindow <= 0 {
		return fmt.Errorf("notifications.dispatch.max_per_window must be positive")
	}
	if cfg.Notifications.Dispatch.Timeout <= 0 {
		return fmt.Errorf("notifications.dispatch.timeout must be positive")
	}
	if cfg.Notifications.Email.Enabled {
		switch cfg.Notifications.Email.Provider {
		case "ses":
			if cfg.Notifications.Email.AWS.Region == "" {
				return fmt.Errorf("notifications.email.aws.region is required for the ses provider")
			}
		case "smtp":
			if cfg.Notifications.Email.SMTP.Host == "" {
				return fmt.Errorf("notifications.email.smtp.host is required for the smtp provider")
			}
		default:
			return fmt.Errorf("notifications.email.provider must be ses or smtp, got %q", cfg.Notifications.Email.Provider)
		}
		if cfg.Notifications.Email.FromEmail == "" {
			return fmt.Errorf("notifications.email.from_email is required when email is enabled")
		}
	}
	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
		return fmt.Errorf("notifications.webhook.url is required when the webhook channel is enabled")
	}
	if cfg.Notifications.Alerts.Enabled && cfg.Notifications.Alerts.TopicARN == "" {
		return fmt.Errorf("notifications.alerts.topic_arn is required when alerts are enabled")
	}
	return nil
}
