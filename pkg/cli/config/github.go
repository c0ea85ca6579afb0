package config

import (
	"os"
	"time"

	"github.com/m-mizutani/ffbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub App configuration
type GitHub struct {
	WebhookSecret  string `masq:"secret"`
	AppClientID    string
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	APIURL         string
	APITimeout     time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("FFBOT_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-app-client-id",
			Usage:       "GitHub App client ID, used as JWT issuer",
			Required:    true,
			Destination: &c.AppClientID,
			Sources:     cli.EnvVars("FFBOT_GITHUB_APP_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key in PEM format",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("FFBOT_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key PEM file",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("FFBOT_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL",
			Value:       "https://api.github.com",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("FFBOT_GITHUB_API_URL"),
		},
		&cli.DurationFlag{
			Name:        "github-api-timeout",
			Usage:       "Timeout of a single GitHub API request",
			Value:       30 * time.Second,
			Destination: &c.APITimeout,
			Sources:     cli.EnvVars("FFBOT_GITHUB_API_TIMEOUT"),
		},
	}
}

// Secret returns the webhook secret
func (c *GitHub) Secret() types.WebhookSecret {
	return types.NewWebhookSecret(c.WebhookSecret)
}

// PrivateKeyPEM returns the App private key from the inline value or the key file.
// Exactly one of them must be set.
func (c *GitHub) PrivateKeyPEM() (types.PrivateKey, error) {
	switch {
	case c.PrivateKey != "" && c.PrivateKeyFile != "":
		return nil, goerr.New("github-private-key and github-private-key-file are mutually exclusive")

	case c.PrivateKey != "":
		return types.PrivateKey(c.PrivateKey), nil

	case c.PrivateKeyFile != "":
		data, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read private key file", goerr.V("path", c.PrivateKeyFile))
		}
		return types.PrivateKey(data), nil
	}

	return nil, goerr.New("either github-private-key or github-private-key-file is required")
}
