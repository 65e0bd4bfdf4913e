package records

import (
	"regexp"
	"strings"
)

// Sentinels recognized by the FMX property decoder
const (
	ParameterPrefix = "PARAMETER_"
	ChangeLogStart  = "CHANGE_LOG_START"
	ChangeLogEnd    = "CHANGE_LOG_END"
	TemplateStart   = "TEMPLATE_START"
)

var propertyLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.*)$`)

// Properties holds the key/value pairs of one FMX definition block
type Properties struct {
	Values  map[string]string
	Changes string
}

// Get returns the trimmed value for key. Empty values count as absent.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p.Values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// DecodeProperties decodes "KEY: value" lines. Parameter keys and comment
// lines are skipped, the change log block is collected verbatim and
// nothing after TEMPLATE_START is read.
func DecodeProperties(lines []string) Properties {
	props := Properties{Values: map[string]string{}}
	var changes strings.Builder
	inChangeLog := false

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimSpace(line)

		if inChangeLog {
			if strings.HasPrefix(trimmed, ChangeLogEnd) {
				inChangeLog = false
				continue
			}
			changes.WriteString(line)
			changes.WriteString("\n")
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, TemplateStart):
			props.Changes = changes.String()
			return props
		case strings.HasPrefix(trimmed, ChangeLogStart):
			inChangeLog = true
			continue
		case strings.HasPrefix(trimmed, "#"):
			continue
		}

		m := propertyLine.FindStringSubmatch(trimmed)
		if m == nil || strings.HasPrefix(m[1], ParameterPrefix) {
			continue
		}
		props.Values[m[1]] = strings.TrimSpace(m[2])
	}

	props.Changes = changes.String()
	return props
}

// SplitList splits a delimited value, dropping empty items. A space
// separator splits on any run of whitespace.
func SplitList(value, sep string) []string {
	var parts []string
	if sep == " " {
		parts = strings.Fields(value)
	} else {
		parts = strings.Split(value, sep)
	}

	out := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
