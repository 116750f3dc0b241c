// Package report renders the organization analysis as a markdown document.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"orginsights/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
	fileNameLayout  = "20060102_150405"

	// topTopics limits the Popular Topics section.
	topTopics = 10
)

// SortPolicy selects the ordering of the Active Repositories section.
type SortPolicy string

const (
	// SortByName orders active repositories by name, ascending. Default.
	SortByName SortPolicy = "name"
	// SortByUpdated orders active repositories by last update, newest first.
	SortByUpdated SortPolicy = "updated"
)

// ParseSortPolicy validates a sort policy given on the command line.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch SortPolicy(s) {
	case SortByName, SortByUpdated:
		return SortPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid sort policy %q (valid: %s, %s)", s, SortByName, SortByUpdated)
	}
}

// FileName returns the report file name for an organization and a timestamp:
// <org>_<YYYYMMDD_HHMMSS>.md
func FileName(org string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.md", org, ts.Format(fileNameLayout))
}

// Renderer serializes analyses and statistics into the insights report.
type Renderer struct {
	orgName string
	sortBy  SortPolicy
	now     func() time.Time
}

// NewRenderer creates a Renderer for the given organization. sortBy controls
// the Active Repositories section order.
func NewRenderer(orgName string, sortBy SortPolicy) *Renderer {
	return &Renderer{
		orgName: orgName,
		sortBy:  sortBy,
		now:     time.Now,
	}
}

// Render produces the markdown document. Section order is fixed: title,
// Organization Overview, Language Distribution, Popular Topics (when any),
// License Distribution (when any), Active Repositories, Archived
// Repositories (when any), generation timestamp.
func (r *Renderer) Render(analyses []*domain.RepositoryAnalysis, s *domain.OrganizationStats) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s / GitHub Repositories Insights Report\n\n", r.orgName))

	b.WriteString("## Organization Overview\n")
	b.WriteString(fmt.Sprintf("- Total Repositories: %d\n", s.TotalRepos))
	b.WriteString(fmt.Sprintf("- Active Repositories: %d\n", s.ActiveRepos))
	b.WriteString(fmt.Sprintf("- Archived Repositories: %d\n", s.ArchivedRepos))
	b.WriteString(fmt.Sprintf("- Total Size: %.2f MB\n", kbToMB(s.TotalSizeKB)))
	b.WriteString(fmt.Sprintf("- Total Contributors: %d\n", s.Contributors))
	b.WriteString(fmt.Sprintf("- Total Stars: %d\n", s.Stars))
	b.WriteString(fmt.Sprintf("- Total Forks: %d\n", s.Forks))
	b.WriteString(fmt.Sprintf("- Average Repository Size: %.2f MB\n", s.MeanSizeKB/1024))
	b.WriteString(fmt.Sprintf("- Median Stars per Repository: %.1f\n\n", s.MedianStars))

	b.WriteString("## Language Distribution\n")
	if s.TotalRepos > 0 {
		for _, e := range s.Languages.MostCommon(0) {
			percentage := float64(e.Count) / float64(s.TotalRepos) * 100
			b.WriteString(fmt.Sprintf("- %s: %d repos (%.1f%%)\n", e.Key, e.Count, percentage))
		}
	}

	if s.Topics.Len() > 0 {
		b.WriteString("\n## Popular Topics\n")
		for _, e := range s.Topics.MostCommon(topTopics) {
			b.WriteString(fmt.Sprintf("- %s: %d repos\n", e.Key, e.Count))
		}
	}

	if s.Licenses.Len() > 0 {
		b.WriteString("\n## License Distribution\n")
		for _, e := range s.Licenses.MostCommon(0) {
			b.WriteString(fmt.Sprintf("- %s: %d repos\n", e.Key, e.Count))
		}
	}

	b.WriteString("\n## Active Repositories\n")
	for _, a := range sortActive(analyses, r.sortBy) {
		b.WriteString(fmt.Sprintf("\n### [%s](%s)\n", a.Name, a.URL))
		b.WriteString(fmt.Sprintf("**Description:** %s\n", orNA(a.Description)))
		b.WriteString(fmt.Sprintf("**Language:** %s\n", orNA(a.Language)))
		if len(a.Topics) > 0 {
			b.WriteString(fmt.Sprintf("**Topics:** %s\n", strings.Join(a.Topics, ", ")))
		}
		b.WriteString("**Statistics:**\n")
		b.WriteString(fmt.Sprintf("- Stars: %d\n", a.Stars))
		b.WriteString(fmt.Sprintf("- Forks: %d\n", a.Forks))
		b.WriteString(fmt.Sprintf("- Contributors: %d\n", a.Contributors))
		b.WriteString(fmt.Sprintf("- Open Issues: %d\n", a.OpenIssues))
		b.WriteString(fmt.Sprintf("- Size: %.2f MB\n", kbToMB(a.SizeKB)))
		b.WriteString(fmt.Sprintf("- Branches: %d\n", a.BranchCount))
		b.WriteString(fmt.Sprintf("- License: %s\n", orNA(a.License)))
		b.WriteString(fmt.Sprintf("**Created:** %s\n", a.CreatedAt.Format(dateLayout)))
		b.WriteString(fmt.Sprintf("**Last Updated:** %s\n", a.UpdatedAt.Format(dateLayout)))
	}

	if s.ArchivedRepos > 0 {
		b.WriteString("\n## Archived Repositories\n")
		for _, a := range sortArchived(analyses) {
			b.WriteString(fmt.Sprintf("\n### [%s](%s)\n", a.Name, a.URL))
			b.WriteString(fmt.Sprintf("- Language: %s\n", orNA(a.Language)))
			b.WriteString(fmt.Sprintf("- Last Updated: %s\n", a.UpdatedAt.Format(dateLayout)))
			if a.Description != "" {
				b.WriteString(fmt.Sprintf("- Description: %s\n", a.Description))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\n---\n*Report generated on: %s*", r.now().Format(timestampLayout)))
	return b.String()
}

// sortActive returns the non-archived analyses ordered by the given policy.
// The input slice is never reordered.
func sortActive(analyses []*domain.RepositoryAnalysis, policy SortPolicy) []*domain.RepositoryAnalysis {
	active := make([]*domain.RepositoryAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if !a.Archived {
			active = append(active, a)
		}
	}
	switch policy {
	case SortByUpdated:
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].UpdatedAt.After(active[j].UpdatedAt)
		})
	default:
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].Name < active[j].Name
		})
	}
	return active
}

// sortArchived returns the archived analyses, most recently updated first.
func sortArchived(analyses []*domain.RepositoryAnalysis) []*domain.RepositoryAnalysis {
	archived := make([]*domain.RepositoryAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if a.Archived {
			archived = append(archived, a)
		}
	}
	sort.SliceStable(archived, func(i, j int) bool {
		return archived[i].UpdatedAt.After(archived[j].UpdatedAt)
	})
	return archived
}

func kbToMB(kb int) float64 {
	return float64(kb) / 1024
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
