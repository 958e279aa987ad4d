// Package remote reads commit history from the GitHub REST API on behalf of a
// signed-in user.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/timeouts"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

var httpClient = &http.Client{}

type Config struct {
	APIURL      string
	Concurrency int
	// Timeout bounds each upstream request, not the whole lookup.
	Timeout time.Duration
}

type GitHub struct {
	apiURL      string
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

func NewGitHub(config Config, logger *slog.Logger) *GitHub {
	apiURL := strings.TrimSuffix(config.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = timeouts.UpstreamCall
	}
	return &GitHub{apiURL: apiURL, concurrency: concurrency, timeout: timeout, logger: logger}
}

type repository struct {
	fullName string
	name     string
}

// Commits lists the recent commits of every repository visible to the token
// holder, grouped by repository in the order GitHub lists them. Any failure
// discards the partial result.
func (g *GitHub) Commits(ctx context.Context, accessToken string) ([]schemas.Commit, error) {
	repos, err := g.repositories(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	perRepo := make([][]schemas.Commit, len(repos))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)
	for i, repo := range repos {
		group.Go(func() error {
			commits, err := g.repositoryCommits(groupCtx, accessToken, repo)
			if err != nil {
				return err
			}
			perRepo[i] = commits
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		g.logger.Warn("Commit lookup failed", "error", err, "repos", len(repos))
		return nil, err
	}

	commits := []schemas.Commit{}
	for _, batch := range perRepo {
		commits = append(commits, batch...)
	}
	return commits, nil
}

func (g *GitHub) repositories(ctx context.Context, accessToken string) ([]repository, error) {
	body, err := g.get(ctx, accessToken, "/user/repos")
	if err != nil {
		return nil, apperr.Upstream("list repositories", err)
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, apperr.Upstream("list repositories", errors.New("expected array"))
	}

	repos := []repository{}
	for _, item := range parsed.Array() {
		fullName := item.Get("full_name").String()
		if fullName == "" {
			return nil, apperr.Upstream("list repositories", errors.New("repository without full_name"))
		}
		name := item.Get("name").String()
		if name == "" {
			name = fullName[strings.LastIndex(fullName, "/")+1:]
		}
		repos = append(repos, repository{fullName: fullName, name: name})
	}
	return repos, nil
}

func (g *GitHub) repositoryCommits(ctx context.Context, accessToken string, repo repository) ([]schemas.Commit, error) {
	body, err := g.get(ctx, accessToken, "/repos/"+escapeFullName(repo.fullName)+"/commits")
	if err != nil {
		return nil, apperr.Upstream("list commits "+repo.fullName, err)
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, apperr.Upstream("list commits "+repo.fullName, errors.New("expected array"))
	}

	commits := make([]schemas.Commit, 0, len(parsed.Array()))
	for _, item := range parsed.Array() {
		commits = append(commits, schemas.Commit{
			SHA:     item.Get("sha").String(),
			Message: item.Get("commit.message").String(),
			Repo:    repo.name,
			Date:    item.Get("commit.author.date").String(),
		})
	}
	return commits, nil
}

func (g *GitHub) get(ctx context.Context, accessToken string, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("GET %s: malformed response", path)
	}
	return body, nil
}

func escapeFullName(fullName string) string {
	parts := strings.Split(fullName, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
