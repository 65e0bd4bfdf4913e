package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_string", input: "hello", wantErr: false},
		{name: "empty_string", input: "", wantErr: true},
		{name: "whitespace_only", input: "   ", wantErr: true},
		{name: "string_with_spaces", input: "  hello  ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_seconds", input: "30s", wantErr: false},
		{name: "valid_minutes", input: "5m", wantErr: false},
		{name: "valid_hours", input: "1h", wantErr: false},
		{name: "valid_complex", input: "1h30m45s", wantErr: false},
		{name: "empty_string", input: "", wantErr: false},
		{name: "invalid_format", input: "30", wantErr: true},
		{name: "invalid_unit", input: "30x", wantErr: true},
		{name: "whitespace_only", input: "   ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_positive", input: "5", wantErr: false},
		{name: "valid_one", input: "1", wantErr: false},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "empty_string", input: "", wantErr: false},
		{name: "not_a_number", input: "abc", wantErr: true},
		{name: "float", input: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositiveInt(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	validator := ValidateIntRange(1, 10)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "in_range_min", input: "1", wantErr: false},
		{name: "in_range_max", input: "10", wantErr: false},
		{name: "in_range_middle", input: "5", wantErr: false},
		{name: "below_min", input: "0", wantErr: true},
		{name: "above_max", input: "11", wantErr: true},
		{name: "empty_string", input: "", wantErr: false},
		{name: "not_a_number", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "example", wantErr: false},
		{name: "dash_and_underscore", input: "my-package_2", wantErr: false},
		{name: "leading_digit", input: "3d", wantErr: false},
		{name: "uppercase", input: "Example", wantErr: true},
		{name: "leading_dash", input: "-pkg", wantErr: true},
		{name: "dot", input: "my.package", wantErr: true},
		{name: "empty_string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateComponentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "camel_case", input: "MyGreeter", wantErr: false},
		{name: "leading_underscore", input: "_Hidden", wantErr: false},
		{name: "dash", input: "Demo-Format", wantErr: false},
		{name: "dot", input: "My.Greeter", wantErr: true},
		{name: "space", input: "My Greeter", wantErr: true},
		{name: "empty_string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSemver(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "release", input: "0.1.0", wantErr: false},
		{name: "prerelease", input: "1.2.3-beta.1", wantErr: false},
		{name: "words", input: "one", wantErr: true},
		{name: "empty_string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSemver(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error", "INFO"}
	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			assert.NoError(t, ValidateLogLevel(level))
		})
	}

	for _, level := range []string{"trace", "invalid", ""} {
		t.Run("invalid_"+level, func(t *testing.T) {
			assert.Error(t, ValidateLogLevel(level))
		})
	}
}

func TestValidateLogFormat(t *testing.T) {
	validFormats := []string{"json", "pretty"}
	for _, format := range validFormats {
		t.Run("valid_"+format, func(t *testing.T) {
			assert.NoError(t, ValidateLogFormat(format))
		})
	}

	t.Run("invalid_format", func(t *testing.T) {
		assert.Error(t, ValidateLogFormat("text"))
	})
}

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"text", "json", "JSON"} {
		t.Run("valid_"+format, func(t *testing.T) {
			assert.NoError(t, ValidateOutputFormat(format))
		})
	}

	t.Run("invalid_format", func(t *testing.T) {
		assert.Error(t, ValidateOutputFormat("yaml"))
	})
}
