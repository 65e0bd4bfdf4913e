package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		description string
	}{
		{"known total", 10, DescPacking},
		{"unknown total", -1, DescExtracting},
		{"zero total", 0, DescVerifying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			bar := NewProgressBarTo(&buf, tt.total, tt.description)
			require.NotNil(t, bar)
			if tt.total > 0 {
				require.NoError(t, bar.Add(tt.total))
				require.NoError(t, bar.Finish())
				assert.Contains(t, buf.String(), tt.description)
			}
		})
	}

	assert.NotNil(t, NewProgressBar(5, DescPacking))
}
