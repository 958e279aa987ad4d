package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/timeouts"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var Scopes = []string{"repo", "user:email"}

var httpClient = &http.Client{Timeout: timeouts.UpstreamCall}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	APIURL       string
	// Endpoint overrides the GitHub OAuth endpoint. Zero means github.Endpoint.
	Endpoint oauth2.Endpoint
}

// GitHub runs the authorization-code flow against GitHub and resolves the
// resulting token into an Identity.
type GitHub struct {
	oauth  *oauth2.Config
	apiURL string
	states *StateStore
	logger *slog.Logger
}

func NewGitHub(config Config, states *StateStore, logger *slog.Logger) *GitHub {
	endpoint := config.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = github.Endpoint
	}
	apiURL := strings.TrimSuffix(config.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       Scopes,
		},
		apiURL: apiURL,
		states: states,
		logger: logger,
	}
}

// AuthCodeURL starts a login attempt and returns the provider URL to
// redirect the browser to.
func (g *GitHub) AuthCodeURL() (string, error) {
	state, err := g.states.Create()
	if err != nil {
		return "", err
	}
	return g.oauth.AuthCodeURL(state), nil
}

// Complete handles the provider callback. The state is consumed whether or not
// the exchange succeeds.
func (g *GitHub) Complete(ctx context.Context, state string, code string, providerErr string) (schemas.Identity, error) {
	if state == "" {
		return schemas.Identity{}, ErrUnknownState
	}
	if err := g.states.Claim(state); err != nil {
		return schemas.Identity{}, err
	}

	identity, err := g.complete(ctx, code, providerErr)
	if err != nil {
		g.states.Mark(state, StatusFailed, err.Error())
		return schemas.Identity{}, err
	}
	g.states.Mark(state, StatusComplete, "")
	return identity, nil
}

func (g *GitHub) complete(ctx context.Context, code string, providerErr string) (schemas.Identity, error) {
	if providerErr != "" {
		return schemas.Identity{}, apperr.Upstream("github authorize", errors.New(providerErr))
	}
	if code == "" {
		return schemas.Identity{}, apperr.Upstream("github authorize", errors.New("missing code"))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return schemas.Identity{}, apperr.Upstream("github token exchange", err)
	}
	if token.AccessToken == "" {
		return schemas.Identity{}, apperr.Upstream("github token exchange", errors.New("empty access token"))
	}

	identity, err := g.FetchUser(ctx, token.AccessToken)
	if err != nil {
		return schemas.Identity{}, err
	}
	g.logger.Info("GitHub login complete", "user_id", identity.ID, "username", identity.Username)
	return identity, nil
}

// FetchUser resolves accessToken to the GitHub user it belongs to.
func (g *GitHub) FetchUser(ctx context.Context, accessToken string) (schemas.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"/user", nil)
	if err != nil {
		return schemas.Identity{}, apperr.Upstream("github user", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return schemas.Identity{}, apperr.Upstream("github user", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return schemas.Identity{}, apperr.Upstream("github user", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return schemas.Identity{}, apperr.Upstream("github user", fmt.Errorf("status %d", resp.StatusCode))
	}
	if !gjson.ValidBytes(body) {
		return schemas.Identity{}, apperr.Upstream("github user", errors.New("malformed response"))
	}

	user := gjson.ParseBytes(body)
	identity := schemas.Identity{
		ID:          user.Get("id").String(),
		Username:    user.Get("login").String(),
		DisplayName: user.Get("name").String(),
		AvatarURL:   user.Get("avatar_url").String(),
		AccessToken: accessToken,
	}
	if identity.ID == "" || identity.Username == "" {
		return schemas.Identity{}, apperr.Upstream("github user", errors.New("missing id or login"))
	}
	if identity.DisplayName == "" {
		identity.DisplayName = identity.Username
	}
	return identity, nil
}
