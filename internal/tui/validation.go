package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/quantmind-br/fmepackager/internal/scaffold"
)

// Validation error messages
var (
	ErrRequired      = errors.New("this field is required")
	ErrInvalidNumber = errors.New("must be a valid number")
	ErrPositiveInt   = errors.New("must be a positive integer")
	ErrInvalidRange  = errors.New("value out of valid range")
)

// ValidateRequired ensures a string value is not empty
func ValidateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrRequired
	}
	return nil
}

// ValidateUID validates a publisher or package UID
func ValidateUID(s string) error {
	if !scaffold.UIDPattern.MatchString(s) {
		return errors.New("use lowercase letters, digits, '-' and '_', starting with a letter or digit")
	}
	return nil
}

// ValidateComponentName validates a transformer or format name
func ValidateComponentName(s string) error {
	if !scaffold.ComponentNamePattern.MatchString(s) {
		return errors.New("use letters, digits, '-' and '_', starting with a letter, digit or '_'")
	}
	return nil
}

// ValidateSemver validates a package version such as 1.2.3
func ValidateSemver(s string) error {
	if _, err := version.NewSemver(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid version (use: 1.2.3): %w", err)
	}
	return nil
}

// ValidateDuration validates that a string can be parsed as a time.Duration
func ValidateDuration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil // Empty is valid (will use default)
	}
	_, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration format (use: 30m, 24h, 168h): %w", err)
	}
	return nil
}

// ValidatePositiveInt validates that a string represents a positive integer
func ValidatePositiveInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil // Empty is valid (will use default)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ErrInvalidNumber
	}
	if n < 1 {
		return ErrPositiveInt
	}
	return nil
}

// ValidateIntRange validates that a string represents an integer within a range
func ValidateIntRange(lo, hi int) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return ErrInvalidNumber
		}
		if n < lo || n > hi {
			return fmt.Errorf("%w: must be between %d and %d", ErrInvalidRange, lo, hi)
		}
		return nil
	}
}

// ValidateLogLevel validates log level values
func ValidateLogLevel(s string) error {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: must be one of debug, info, warn, error")
}

// ValidateLogFormat validates log format values
func ValidateLogFormat(s string) error {
	switch strings.ToLower(s) {
	case "json", "pretty":
		return nil
	}
	return fmt.Errorf("invalid log format: must be json or pretty")
}

// ValidateOutputFormat validates command output formats
func ValidateOutputFormat(s string) error {
	switch strings.ToLower(s) {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("invalid output format: must be text or json")
}
