// Package output renders command results for terminals, agents and scripts.
//
// Output adapts to the environment: a terminal gets styled text, anything
// else gets markdown. Structured modes (json, yaml) and csv are available
// for scripting.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are rendered.
type OutputMode string //nolint:revive // intentional: stutters as output.OutputMode

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
	ModeCSV      OutputMode = "csv"
)

// Modes returns every accepted mode, for flag completion and help.
func Modes() []string {
	return []string{
		string(ModeAuto),
		string(ModeText),
		string(ModeMarkdown),
		string(ModeJSON),
		string(ModeYAML),
		string(ModeCSV),
	}
}

// ParseMode converts a configured value into a mode. Empty means auto and
// "md" is accepted for markdown.
func ParseMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "text":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	case "yaml", "yml":
		return ModeYAML, nil
	case "csv":
		return ModeCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(Modes(), ", "))
	}
}

// Mode converts a configured value into a mode, falling back to auto for
// unknown values.
func Mode(s string) OutputMode {
	m, err := ParseMode(s)
	if err != nil {
		return ModeAuto
	}
	return m
}

// Structured reports whether the mode emits machine-readable documents.
func (m OutputMode) Structured() bool {
	return m == ModeJSON || m == ModeYAML
}
