// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/go-github/v62/github"

	"orginsights/internal/domain"
	"orginsights/internal/gateway"
)

// ProgressReporter receives progress updates while repositories are analyzed.
// It is purely observational; passing nil disables reporting.
type ProgressReporter interface {
	Describe(label string)
	Increment()
}

// Analyzer is the use case for turning raw GitHub repositories into
// analysis records.
type Analyzer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, logger *log.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Analyze builds the analysis record for a single repository.
//
// Contributor listing is best-effort: repositories with disabled or oversized
// contributor stats yield a count of 0 instead of an error. Topic and branch
// listing failures are returned to the caller and abort the analysis of this
// repository.
func (a *Analyzer) Analyze(ctx context.Context, repo *github.Repository, reporter ProgressReporter) (*domain.RepositoryAnalysis, error) {
	name := repo.GetName()
	owner := repo.GetOwner().GetLogin()

	if reporter != nil {
		reporter.Describe(fmt.Sprintf("Analyzing %s", name))
	}

	contributorCount := 0
	if contributors, err := a.fetcher.ListContributors(ctx, owner, name); err != nil {
		a.logger.Printf("Contributor listing failed for %s, counting 0: %v", name, err)
	} else {
		contributorCount = len(contributors)
	}

	topics, err := a.fetcher.ListTopics(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", name, err)
	}

	branches, err := a.fetcher.ListBranches(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", name, err)
	}

	var license string
	if l := repo.GetLicense(); l != nil {
		license = l.GetName()
	}

	analysis := &domain.RepositoryAnalysis{
		Name:          name,
		Description:   repo.GetDescription(),
		Language:      repo.GetLanguage(),
		CreatedAt:     repo.GetCreatedAt().Time,
		UpdatedAt:     repo.GetUpdatedAt().Time,
		SizeKB:        repo.GetSize(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		HasWiki:       repo.GetHasWiki(),
		Visibility:    domain.Visibility(repo.GetVisibility()),
		Archived:      repo.GetArchived(),
		Topics:        topics,
		DefaultBranch: repo.GetDefaultBranch(),
		License:       license,
		BranchCount:   len(branches),
		Contributors:  contributorCount,
		URL:           repo.GetHTMLURL(),
	}

	if reporter != nil {
		reporter.Increment()
	}
	return analysis, nil
}
