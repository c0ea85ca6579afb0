package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/interfaces"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	"github.com/m-mizutani/ffbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultBaseURL is the public GitHub REST API endpoint
const DefaultBaseURL = "https://api.github.com"

// JWTBuilder creates App JWTs. *TokenCreator implements it.
type JWTBuilder interface {
	BuildToken() (string, error)
}

// Provider exchanges App JWTs for installation access tokens. Every call to GetAPI
// performs a new exchange; tokens are never cached or shared between callers.
type Provider struct {
	jwt        JWTBuilder
	httpClient *http.Client
	baseURL    string
}

var _ interfaces.GitHubAPIProvider = (*Provider)(nil)

// ProviderOption is a functional option for Provider
type ProviderOption func(*Provider)

// WithBaseURL sets the GitHub API base URL
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client shared by the provider and all clients it returns
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// NewProvider creates a new Provider
func NewProvider(jwt JWTBuilder, opts ...ProviderOption) *Provider {
	p := &Provider{
		jwt:        jwt,
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetAPI authenticates as the installation and returns a client bound to its access token
func (p *Provider) GetAPI(ctx context.Context, auth model.AppInstallation) (interfaces.GitHubAPI, error) {
	logger := ctxlog.From(ctx)

	baseURL, err := parseBaseURL(p.baseURL)
	if err != nil {
		return nil, unspecific(err)
	}

	appJWT, err := p.jwt.BuildToken()
	if err != nil {
		logger.Error("Building App JWT failed", "error", err)
		return nil, model.NewAPIError(model.APIErrorAuthentication, "Failed to build App JWT", err)
	}

	appClient := newGitHubClient(p.httpClient, baseURL, appJWT)
	token, resp, err := appClient.Apps.CreateInstallationToken(ctx, auth.InstallationID, nil)
	if err != nil {
		status := failureStatus(resp, err)
		if status != 0 && (status < 200 || status >= 300) {
			msg, ok := upstreamMessage(err, "Failed to authenticate as App installation")
			if !ok {
				msg = "Failed to authenticate as App installation"
			}
			logger.Warn("Installation token exchange rejected",
				"status", status,
				"installation_id", auth.InstallationID,
				"message", msg,
			)
			return nil, model.NewAPIError(model.APIErrorAuthentication, msg,
				goerr.Wrap(err, "installation token exchange rejected", goerr.V("status", status)))
		}

		logger.Error("Installation token exchange failed",
			"installation_id", auth.InstallationID,
			"error", err,
		)
		return nil, unspecific(goerr.Wrap(err, "failed to exchange installation token",
			goerr.V("installation_id", auth.InstallationID)))
	}

	if token.GetToken() == "" {
		return nil, unspecific(goerr.New("installation token is empty",
			goerr.V("installation_id", auth.InstallationID)))
	}

	logger.Debug("Obtained installation token",
		"installation_id", auth.InstallationID,
		"expires_at", token.GetExpiresAt().Time,
		"token", types.InstallationToken(token.GetToken()),
	)

	return &client{
		gh: newGitHubClient(p.httpClient, baseURL, token.GetToken()),
	}, nil
}
