// Package provider wraps the third-party OAuth providers behind the
// coordinator's ProviderClient interface. All protocol details (oauth2
// configs, code exchange, profile endpoints) stay here; the coordinator sees
// only redirects and normalized profiles.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	dErrors "relay/pkg/domain-errors"
	"relay/pkg/requestcontext"

	"relay/internal/handoff/models"
	"relay/internal/platform/config"
)

// Provider names accepted on the wire.
const (
	Google = "google"
	Github = "github"
)

// Client implements the coordinator's ProviderClient over golang.org/x/oauth2.
type Client struct {
	configs map[string]oauth2.Config
	logger  *slog.Logger
}

// New registers every provider with configured credentials.
func New(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	configs := make(map[string]oauth2.Config)
	if cfg.GoogleClientID != "" {
		configs[Google] = oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}
	if cfg.GithubClientID != "" {
		configs[Github] = oauth2.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"read:user", "user:email"},
		}
	}
	return &Client{configs: configs, logger: logger}
}

// Redirect builds the provider authorization redirect. state is the signed
// server token on the stateless path and empty on the stateful one.
func (c *Client) Redirect(ctx context.Context, provider, state string) (models.RedirectResponse, error) {
	conf, ok := c.configs[provider]
	if !ok {
		return models.RedirectResponse{}, dErrors.New(dErrors.CodeBadRequest, "unknown provider")
	}
	return models.RedirectResponse{
		URL:   conf.AuthCodeURL(state),
		State: state,
	}, nil
}

// FetchProfile exchanges the callback's authorization code (carried in the
// request context) and fetches the normalized profile. stateless only
// records which flow brought us here; the exchange itself is identical.
func (c *Client) FetchProfile(ctx context.Context, provider string, stateless bool) (models.ProviderProfile, error) {
	conf, ok := c.configs[provider]
	if !ok {
		return models.ProviderProfile{}, dErrors.New(dErrors.CodeBadRequest, "unknown provider")
	}
	code := requestcontext.OAuthCode(ctx)
	if code == "" {
		return models.ProviderProfile{}, dErrors.New(dErrors.CodeBadRequest, "missing authorization code")
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return models.ProviderProfile{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	c.logger.Debug("authorization code exchanged", "provider", provider, "stateless", stateless)

	httpClient := conf.Client(ctx, tok)
	switch provider {
	case Google:
		return fetchGoogleProfile(ctx, httpClient)
	case Github:
		return fetchGithubProfile(ctx, httpClient)
	default:
		return models.ProviderProfile{}, dErrors.New(dErrors.CodeBadRequest, "unknown provider")
	}
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (models.ProviderProfile, error) {
	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &payload); err != nil {
		return models.ProviderProfile{}, err
	}
	return models.ProviderProfile{
		ID:     payload.ID,
		Email:  payload.Email,
		Name:   payload.Name,
		Avatar: payload.Picture,
	}, nil
}

func fetchGithubProfile(ctx context.Context, client *http.Client) (models.ProviderProfile, error) {
	var payload struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := fetchJSON(ctx, client, "https://api.github.com/user", &payload); err != nil {
		return models.ProviderProfile{}, err
	}
	name := payload.Name
	if name == "" {
		name = payload.Login
	}
	profile := models.ProviderProfile{
		ID:     strconv.FormatInt(payload.ID, 10),
		Email:  payload.Email,
		Name:   name,
		Avatar: payload.AvatarURL,
	}
	if profile.Email == "" {
		// Github hides the address when the user marks it private; the
		// emails endpoint still exposes the primary one to this scope.
		email, err := fetchGithubPrimaryEmail(ctx, client)
		if err != nil {
			return models.ProviderProfile{}, err
		}
		profile.Email = email
	}
	return profile, nil
}

func fetchGithubPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := fetchJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	return "", nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build profile request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
