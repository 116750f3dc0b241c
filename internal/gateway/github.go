// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
// The adapter surfaces every transport/auth/rate-limit error unchanged;
// callers decide which failures to tolerate.
type Fetcher interface {
	ListRepositories(ctx context.Context, org string) ([]*github.Repository, error)
	ListContributors(ctx context.Context, owner, repo string) ([]*github.Contributor, error)
	ListBranches(ctx context.Context, owner, repo string) ([]*github.Branch, error)
	ListTopics(ctx context.Context, owner, repo string) ([]string, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client     *github.Client
	httpClient *http.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The underlying HTTP client carries the static token and a secondary-rate-limit
// waiter; it deliberately configures no request timeout.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		client:     github.NewClient(httpClient),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Close releases the pooled connections held by the gateway's HTTP client.
// Safe to call on every exit path.
func (g *GitHubGateway) Close() {
	g.httpClient.CloseIdleConnections()
}

// ListRepositories returns every repository of the organization visible to the
// token, in whatever order the API yields the pages.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]*github.Repository, error) {
	g.logger.Printf("Fetching repositories for organization %s using REST API...", org)
	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var all []*github.Repository
	for {
		repos, resp, err := g.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Completed fetching %d repositories.", len(all))
	return all, nil
}

// ListContributors returns the repository's contributors (anonymous ones excluded).
func (g *GitHubGateway) ListContributors(ctx context.Context, owner, repo string) ([]*github.Contributor, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var all []*github.Contributor
	for {
		contributors, resp, err := g.client.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributors for %s/%s: %w", owner, repo, err)
		}
		all = append(all, contributors...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of contributors for %s...", repo)
	}
	return all, nil
}

// ListBranches returns every branch of the repository.
func (g *GitHubGateway) ListBranches(ctx context.Context, owner, repo string) ([]*github.Branch, error) {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var all []*github.Branch
	for {
		branches, resp, err := g.client.Repositories.ListBranches(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches for %s/%s: %w", owner, repo, err)
		}
		all = append(all, branches...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of branches for %s...", repo)
	}
	return all, nil
}

// ListTopics returns the repository's topic labels.
func (g *GitHubGateway) ListTopics(ctx context.Context, owner, repo string) ([]string, error) {
	topics, _, err := g.client.Repositories.ListAllTopics(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics for %s/%s: %w", owner, repo, err)
	}
	return topics, nil
}
