package records

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

// CustomHeaderPrefix marks a version block in a compiled transformer file
const CustomHeaderPrefix = "# TRANSFORMER_BEGIN"

// LinkedAlways is the only insert mode accepted for packaged transformers
const LinkedAlways = "Linked Always"

// customHeaderFields is the number of fields before the optional
// data processing type
const customHeaderFields = 13

// CustomHeader is the decoded header line of one compiled transformer version
type CustomHeader struct {
	Name                 string
	Version              int
	Category             string
	GUID                 string
	InsertMode           string
	BlockedLooping       string
	ProcessCount         string
	ProcessGroupBy       string
	ProcessGroupsOrdered string
	BuildNum             int
	PreservesAttrs       string
	Deprecated           string
	PyVer                string
	DataProcessingType   string

	Categories          []string
	DataProcessingTypes []string
}

// DecodeCustomHeader decodes a "# TRANSFORMER_BEGIN" line. Fields are split
// CSV style so a quoted category may contain commas.
func DecodeCustomHeader(line string) (*CustomHeader, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), CustomHeaderPrefix))

	fields, err := splitCSV(rest)
	if err != nil {
		return nil, domain.NewDecodeError("", "invalid transformer header", err)
	}
	for len(fields) < customHeaderFields+1 {
		fields = append(fields, "")
	}

	h := &CustomHeader{
		Name:                 fields[0],
		Category:             fields[2],
		GUID:                 fields[3],
		InsertMode:           fields[4],
		BlockedLooping:       fields[5],
		ProcessCount:         fields[6],
		ProcessGroupBy:       fields[7],
		ProcessGroupsOrdered: fields[8],
		PreservesAttrs:       fields[10],
		Deprecated:           fields[11],
		PyVer:                fields[12],
		DataProcessingType:   fields[13],
	}

	if h.Version, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return nil, domain.NewDecodeError(h.Name, fmt.Sprintf("invalid version %q", fields[1]), nil)
	}
	if h.BuildNum, err = strconv.Atoi(strings.TrimSpace(fields[9])); err != nil {
		return nil, domain.NewDecodeError(h.Name, fmt.Sprintf("invalid build number %q", fields[9]), nil)
	}

	h.Categories, err = splitCategories(h.Category)
	if err != nil {
		return nil, domain.NewDecodeError(h.Name, "invalid category", err)
	}
	h.DataProcessingTypes = ResolveProcessingTypes(h.DataProcessingType)
	return h, nil
}

// Visible reports whether the version is not flagged deprecated
func (h *CustomHeader) Visible() bool {
	switch strings.ToLower(strings.TrimSpace(h.Deprecated)) {
	case "yes", "true", "1":
		return false
	}
	return true
}

// splitCategories splits a category cell, which is itself a CSV line
func splitCategories(cell string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(cell) == "" {
		return out, nil
	}
	parts, err := splitCSV(cell)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func splitCSV(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}
