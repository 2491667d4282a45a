package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "fireline-notifier", cfg.App.Name)
	assert.Equal(t, 8087, cfg.Server.Port)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, "smtp", cfg.Notifications.Email.Provider)
	assert.Equal(t, 60, cfg.Notifications.Dispatch.WindowSeconds)
	assert.Equal(t, 10, cfg.Notifications.Dispatch.MaxPerWindow)
	assert.Equal(t, 10*time.Second, cfg.Notifications.Dispatch.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Notifications.Dispatch.GCIdle)
	assert.Equal(t, "notify:fp", cfg.Notifications.Dispatch.SharedDedupKeySpace)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Notifications.Dispatch.MaxPerWindow = 3

	applyDefaults(cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Notifications.Dispatch.MaxPerWindow)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "bad port",
			mutate:  func(cfg *Config) { cfg.Server.Port = -1 },
			wantErr: "server.port",
		},
		{
			name:    "non-positive window",
			mutate:  func(cfg *Config) { cfg.Notifications.Dispatch.WindowSeconds = 0 },
			wantErr: "window_seconds",
		},
		{
			name:    "non-positive cap",
			mutate:  func(cfg *Config) { cfg.Notifications.Dispatch.MaxPerWindow = -5 },
			wantErr: "max_per_window",
		},
		{
			name: "ses requires region",
			mutate: func(cfg *Config) {
				cfg.Notifications.Email.Enabled = true
				cfg.Notifications.Email.Provider = "ses"
				cfg.Notifications.Email.FromEmail = "noreply@fireline.example"
			},
			wantErr: "aws.region",
		},
		{
			name: "smtp requires host",
			mutate: func(cfg *Config) {
				cfg.Notifications.Email.Enabled = true
				cfg.Notifications.Email.FromEmail = "noreply@fireline.example"
			},
			wantErr: "smtp.host",
		},
		{
			name: "unknown email provider",
			mutate: func(cfg *Config) {
				cfg.Notifications.Email.Enabled = true
				cfg.Notifications.Email.Provider = "carrier-pigeon"
			},
			wantErr: "provider",
		},
		{
			name: "email requires sender",
			mutate: func(cfg *Config) {
				cfg.Notifications.Email.Enabled = true
				cfg.Notifications.Email.SMTP.Host = "mail.fireline.example"
			},
			wantErr: "from_email",
		},
		{
			name: "webhook requires url",
			mutate: func(cfg *Config) {
				cfg.Notifications.Webhook.Enabled = true
			},
			wantErr: "webhook.url",
		},
		{
			name: "alerts require topic",
			mutate: func(cfg *Config) {
				cfg.Notifications.Alerts.Enabled = true
			},
			wantErr: "topic_arn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "notifier",
		Password: "secret",
		Database: "fireline",
		SSLMode:  "require",
	}

	dsn := p.GetDSN()
	assert.Equal(t, "host=db.internal port=5432 user=notifier password=secret dbname=fireline sslmode=require", dsn)
}
