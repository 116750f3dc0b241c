package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orginsights/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListRepositories(ctx context.Context, org string) ([]*github.Repository, error) {
	args := m.Called(ctx, org)
	// We need to handle the case where the returned slice is nil (e.g., when an error occurs).
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Repository), args.Error(1)
}

func (m *mockFetcher) ListContributors(ctx context.Context, owner, repo string) ([]*github.Contributor, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Contributor), args.Error(1)
}

func (m *mockFetcher) ListBranches(ctx context.Context, owner, repo string) ([]*github.Branch, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Branch), args.Error(1)
}

func (m *mockFetcher) ListTopics(ctx context.Context, owner, repo string) ([]string, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// recordingReporter captures progress callbacks for assertions.
type recordingReporter struct {
	labels     []string
	increments int
}

func (r *recordingReporter) Describe(label string) { r.labels = append(r.labels, label) }
func (r *recordingReporter) Increment()            { r.increments++ }

func testRepository() *github.Repository {
	return &github.Repository{
		Name:            github.String("widgets"),
		Owner:           &github.User{Login: github.String("test-org")},
		Description:     github.String("Widget factory"),
		Language:        github.String("Go"),
		CreatedAt:       &github.Timestamp{Time: time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC)},
		UpdatedAt:       &github.Timestamp{Time: time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)},
		Size:            github.Int(2048),
		StargazersCount: github.Int(42),
		ForksCount:      github.Int(7),
		OpenIssuesCount: github.Int(3),
		HasWiki:         github.Bool(true),
		Visibility:      github.String("public"),
		Archived:        github.Bool(false),
		DefaultBranch:   github.String("main"),
		License:         &github.License{Name: github.String("MIT License")},
		HTMLURL:         github.String("https://github.com/test-org/widgets"),
	}
}

// TestAnalyzer_Analyze covers the error asymmetry: contributor failures are
// tolerated and counted as zero, topic and branch failures abort the repository.
func TestAnalyzer_Analyze(t *testing.T) {
	testCases := []struct {
		name                 string
		contributors         []*github.Contributor
		contributorErr       error
		topics               []string
		topicErr             error
		branches             []*github.Branch
		branchErr            error
		expectedContributors int
		expectError          bool
	}{
		{
			name: "happy path - collects contributors, topics and branches",
			contributors: []*github.Contributor{
				{Login: github.String("alice")},
				{Login: github.String("bob")},
			},
			topics:               []string{"cli", "golang"},
			branches:             []*github.Branch{{Name: github.String("main")}},
			expectedContributors: 2,
		},
		{
			name:                 "contributor failure is tolerated and counted as zero",
			contributorErr:       errors.New("403 contributor list is too large"),
			topics:               []string{"cli"},
			branches:             []*github.Branch{{Name: github.String("main")}},
			expectedContributors: 0,
		},
		{
			name:         "topic failure aborts the repository",
			contributors: []*github.Contributor{{Login: github.String("alice")}},
			topicErr:     errors.New("github api error"),
			expectError:  true,
		},
		{
			name:         "branch failure aborts the repository",
			contributors: []*github.Contributor{{Login: github.String("alice")}},
			topics:       []string{"cli"},
			branchErr:    errors.New("github api error"),
			expectError:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange: Set up the mock for this specific case ---
			ctx := context.Background()
			logger := log.New(io.Discard, "", 0)
			fetcher := new(mockFetcher)

			fetcher.On("ListContributors", mock.Anything, "test-org", "widgets").Return(tc.contributors, tc.contributorErr)
			fetcher.On("ListTopics", mock.Anything, "test-org", "widgets").Return(tc.topics, tc.topicErr)
			if tc.topicErr == nil {
				// Branches are only requested once topics succeeded.
				fetcher.On("ListBranches", mock.Anything, "test-org", "widgets").Return(tc.branches, tc.branchErr)
			}

			analyzer := NewAnalyzer(fetcher, logger)

			// --- Act ---
			analysis, err := analyzer.Analyze(ctx, testRepository(), nil)

			// --- Assert ---
			if tc.expectError {
				assert.Error(t, err)
				assert.ErrorContains(t, err, "failed to analyze widgets")
				assert.Nil(t, analysis)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedContributors, analysis.Contributors)
			}

			fetcher.AssertExpectations(t)
		})
	}
}

// TestAnalyzer_Analyze_Projection checks the full mapping from the API
// repository object onto the analysis record.
func TestAnalyzer_Analyze_Projection(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockFetcher)

	fetcher.On("ListContributors", mock.Anything, "test-org", "widgets").
		Return([]*github.Contributor{{Login: github.String("alice")}}, nil)
	fetcher.On("ListTopics", mock.Anything, "test-org", "widgets").
		Return([]string{"cli", "golang"}, nil)
	fetcher.On("ListBranches", mock.Anything, "test-org", "widgets").
		Return([]*github.Branch{{Name: github.String("main")}, {Name: github.String("develop")}}, nil)

	analyzer := NewAnalyzer(fetcher, logger)
	analysis, err := analyzer.Analyze(ctx, testRepository(), nil)

	assert.NoError(t, err)
	assert.Equal(t, &domain.RepositoryAnalysis{
		Name:          "widgets",
		Description:   "Widget factory",
		Language:      "Go",
		CreatedAt:     time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
		SizeKB:        2048,
		Stars:         42,
		Forks:         7,
		OpenIssues:    3,
		HasWiki:       true,
		Visibility:    domain.VisibilityPublic,
		Archived:      false,
		Topics:        []string{"cli", "golang"},
		DefaultBranch: "main",
		License:       "MIT License",
		BranchCount:   2,
		Contributors:  1,
		URL:           "https://github.com/test-org/widgets",
	}, analysis)
	fetcher.AssertExpectations(t)
}

// TestAnalyzer_Analyze_MissingMetadata checks that absent optional fields map
// to empty values rather than panicking on nil pointers.
func TestAnalyzer_Analyze_MissingMetadata(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockFetcher)

	repo := &github.Repository{
		Name:  github.String("bare-repo"),
		Owner: &github.User{Login: github.String("test-org")},
	}
	fetcher.On("ListContributors", mock.Anything, "test-org", "bare-repo").Return(nil, nil)
	fetcher.On("ListTopics", mock.Anything, "test-org", "bare-repo").Return(nil, nil)
	fetcher.On("ListBranches", mock.Anything, "test-org", "bare-repo").Return(nil, nil)

	analyzer := NewAnalyzer(fetcher, logger)
	analysis, err := analyzer.Analyze(ctx, repo, nil)

	assert.NoError(t, err)
	assert.Empty(t, analysis.Description)
	assert.Empty(t, analysis.Language)
	assert.Empty(t, analysis.License)
	assert.Empty(t, analysis.Topics)
	assert.Zero(t, analysis.BranchCount)
	assert.Zero(t, analysis.Contributors)
	assert.True(t, analysis.CreatedAt.IsZero())
}

// TestAnalyzer_Analyze_FailureIsolation checks that a contributor failure on
// one repository leaves the analysis of the next repository untouched.
func TestAnalyzer_Analyze_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockFetcher)

	fetcher.On("ListContributors", mock.Anything, "test-org", "flaky").
		Return(nil, errors.New("github api error"))
	fetcher.On("ListTopics", mock.Anything, "test-org", "flaky").Return(nil, nil)
	fetcher.On("ListBranches", mock.Anything, "test-org", "flaky").Return(nil, nil)

	fetcher.On("ListContributors", mock.Anything, "test-org", "healthy").
		Return([]*github.Contributor{{Login: github.String("alice")}, {Login: github.String("bob")}}, nil)
	fetcher.On("ListTopics", mock.Anything, "test-org", "healthy").Return(nil, nil)
	fetcher.On("ListBranches", mock.Anything, "test-org", "healthy").Return(nil, nil)

	analyzer := NewAnalyzer(fetcher, logger)

	flaky := &github.Repository{Name: github.String("flaky"), Owner: &github.User{Login: github.String("test-org")}}
	healthy := &github.Repository{Name: github.String("healthy"), Owner: &github.User{Login: github.String("test-org")}}

	first, err := analyzer.Analyze(ctx, flaky, nil)
	require.NoError(t, err)
	second, err := analyzer.Analyze(ctx, healthy, nil)
	require.NoError(t, err)

	assert.Zero(t, first.Contributors)
	assert.Equal(t, 2, second.Contributors)
	fetcher.AssertExpectations(t)
}

// TestAnalyzer_Analyze_ReportsProgress checks that the reporter sees the
// description before the work and exactly one increment after it.
func TestAnalyzer_Analyze_ReportsProgress(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	t.Run("successful analysis increments once", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListContributors", mock.Anything, "test-org", "widgets").Return(nil, nil)
		fetcher.On("ListTopics", mock.Anything, "test-org", "widgets").Return([]string{}, nil)
		fetcher.On("ListBranches", mock.Anything, "test-org", "widgets").Return(nil, nil)

		reporter := &recordingReporter{}
		_, err := NewAnalyzer(fetcher, logger).Analyze(ctx, testRepository(), reporter)

		assert.NoError(t, err)
		assert.Equal(t, []string{"Analyzing widgets"}, reporter.labels)
		assert.Equal(t, 1, reporter.increments)
	})

	t.Run("aborted analysis never increments", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListContributors", mock.Anything, "test-org", "widgets").Return(nil, nil)
		fetcher.On("ListTopics", mock.Anything, "test-org", "widgets").Return(nil, errors.New("github api error"))

		reporter := &recordingReporter{}
		_, err := NewAnalyzer(fetcher, logger).Analyze(ctx, testRepository(), reporter)

		assert.Error(t, err)
		assert.Equal(t, []string{"Analyzing widgets"}, reporter.labels)
		assert.Zero(t, reporter.increments)
	})
}
