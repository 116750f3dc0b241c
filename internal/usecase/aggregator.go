package usecase

import (
	"github.com/montanaflynn/stats"

	"orginsights/internal/domain"
)

// Aggregate folds a batch of repository analyses into organization-wide
// statistics in a single pass. It performs no I/O and accepts any input,
// including an empty one.
func Aggregate(analyses []*domain.RepositoryAnalysis) *domain.OrganizationStats {
	s := &domain.OrganizationStats{
		TotalRepos: len(analyses),
		Languages:  domain.NewCounter(),
		Topics:     domain.NewCounter(),
		Licenses:   domain.NewCounter(),
	}

	sizes := make([]float64, 0, len(analyses))
	starCounts := make([]float64, 0, len(analyses))
	for _, a := range analyses {
		if a.Language != "" {
			s.Languages.Add(a.Language)
		}
		for _, topic := range a.Topics {
			s.Topics.Add(topic)
		}
		if a.License != "" {
			s.Licenses.Add(a.License)
		}

		s.Contributors += a.Contributors
		s.Forks += a.Forks
		s.Stars += a.Stars
		s.TotalSizeKB += a.SizeKB

		if a.Archived {
			s.ArchivedRepos++
		} else {
			s.ActiveRepos++
		}

		sizes = append(sizes, float64(a.SizeKB))
		starCounts = append(starCounts, float64(a.Stars))
	}

	// stats.Mean and stats.Median only fail on empty input.
	if s.TotalRepos > 0 {
		s.MeanSizeKB, _ = stats.Mean(sizes)
		s.MedianStars, _ = stats.Median(starCounts)
	}

	return s
}
