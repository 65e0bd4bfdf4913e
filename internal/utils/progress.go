package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescPacking    = "Packing"
	DescExtracting = "Extracting"
	DescVerifying  = "Verifying"
)

// NewProgressBar creates a consistently styled progress bar.
//
// A negative total selects spinner mode. Known totals show the count and
// iterations per second.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return NewProgressBarTo(nil, total, description)
}

// NewProgressBarTo is NewProgressBar writing to w instead of stdout
func NewProgressBarTo(w io.Writer, total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}
	if w != nil {
		opts = append(opts, progressbar.OptionSetWriter(w))
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
