package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide configuration, loaded once at startup. Runtime-
// mutable state (the notification webhook URL) lives in notify.Settings, not
// here.
type Config struct {
	App struct {
		Port    int    `envconfig:"PORT" default:"8080"`
		BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`
		// APIKey guards create/list/delete and webhook-config. Empty means
		// open access.
		APIKey string `envconfig:"API_KEY" default:""`
	}

	Storage struct {
		DataDir string `envconfig:"DATA_DIR" default:"./data"`
		// WebhookConfigFile persists the runtime-settable notification URL.
		WebhookConfigFile string `envconfig:"WEBHOOK_CONFIG_FILE" default:"./data/.webhook.json"`
		StaticDir         string `envconfig:"STATIC_DIR" default:"./public"`
	}

	MercadoPago struct {
		AccessToken string `envconfig:"MERCADOPAGO_ACCESS_TOKEN" default:""`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")
	return &cfg, nil
}

// ProposalURL builds the externally visible address of a proposal page.
func (c *Config) ProposalURL(slug string) string {
	return c.App.BaseURL + "/" + slug
}
