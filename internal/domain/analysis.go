// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Visibility is the access level GitHub reports for a repository.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

// RepositoryAnalysis holds everything the report needs to know about a single
// repository. It is built once per repository and never mutated afterwards.
// Description, Language and License use the empty string for "not set".
type RepositoryAnalysis struct {
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Language      string     `json:"language,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	SizeKB        int        `json:"size_kb"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	OpenIssues    int        `json:"open_issues"`
	HasWiki       bool       `json:"has_wiki"`
	Visibility    Visibility `json:"visibility"`
	Archived      bool       `json:"archived"`
	Topics        []string   `json:"topics,omitempty"`
	DefaultBranch string     `json:"default_branch"`
	License       string     `json:"license,omitempty"`
	BranchCount   int        `json:"branch_count"`
	Contributors  int        `json:"contributors_count"`
	URL           string     `json:"url"`
}

// OrganizationStats summarizes a batch of repository analyses. It is derived
// in a single pass and holds no reference back to the individual records.
type OrganizationStats struct {
	TotalRepos    int      `json:"total_repos"`
	ActiveRepos   int      `json:"active_repos"`
	ArchivedRepos int      `json:"archived_repos"`
	TotalSizeKB   int      `json:"total_size_kb"`
	Languages     *Counter `json:"languages"`
	Topics        *Counter `json:"topics"`
	Licenses      *Counter `json:"licenses"`
	Contributors  int      `json:"contributors"`
	Forks         int      `json:"forks"`
	Stars         int      `json:"stars"`
	MeanSizeKB    float64  `json:"mean_size_kb"`
	MedianStars   float64  `json:"median_stars"`
}
