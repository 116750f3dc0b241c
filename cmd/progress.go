package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"orginsights/internal/usecase"
)

// barReporter adapts a progressbar to the usecase.ProgressReporter interface.
type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r *barReporter) Describe(label string) {
	r.bar.Describe(label)
}

func (r *barReporter) Increment() {
	_ = r.bar.Add(1)
}

var _ usecase.ProgressReporter = (*barReporter)(nil)

// newAnalysisBar builds the per-repository progress bar. It returns nil when
// there is nothing to analyze, since a zero-length bar cannot render.
func newAnalysisBar(total int) *progressbar.ProgressBar {
	if total <= 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Analyzing repositories"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
