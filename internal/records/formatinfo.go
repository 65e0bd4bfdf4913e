package records

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

// FormatInfoFields are the required fields of a format info record, in order
var FormatInfoFields = []string{
	"FORMAT_NAME",
	"FORMAT_LONG_NAME",
	"DATASET_TYPE",
	"DIRECTION",
	"AUTOMATED_TRANSLATION_FLAG",
	"COORDSYS_AWARE",
	"FILTER",
	"FORMAT_TYPE",
	"USE_NATIVE_SPATIAL_INDEX",
	"SOURCE_SETTINGS",
	"DESTINATION_SETTINGS",
	"VISIBLE",
	"MIN_VERSION",
	"MAX_VERSION",
	"FORMAT_FAMILY",
	"HAS_SIDECARS",
	"MARKETING_FAMILY",
}

// FormatCategoriesField is the optional trailing field
const FormatCategoriesField = "FORMAT_CATEGORIES"

// FormatInfoHeader is the pipe-joined list of required fields
var FormatInfoHeader = strings.Join(FormatInfoFields, "|")

// FormatInfo is one decoded format info record from a .db file
type FormatInfo struct {
	FormatName               string
	FormatLongName           string
	DatasetType              string
	Direction                string
	AutomatedTranslationFlag string
	CoordsysAware            string
	Filter                   string
	FormatType               string
	UseNativeSpatialIndex    string
	SourceSettings           string
	DestinationSettings      string
	Visible                  string
	MinVersion               string
	MaxVersion               string
	FormatFamily             string
	HasSidecars              string
	MarketingFamily          string

	// FormatCategories is only meaningful when HasCategories is set
	FormatCategories string
	HasCategories    bool
}

func (f *FormatInfo) required() []*string {
	return []*string{
		&f.FormatName,
		&f.FormatLongName,
		&f.DatasetType,
		&f.Direction,
		&f.AutomatedTranslationFlag,
		&f.CoordsysAware,
		&f.Filter,
		&f.FormatType,
		&f.UseNativeSpatialIndex,
		&f.SourceSettings,
		&f.DestinationSettings,
		&f.Visible,
		&f.MinVersion,
		&f.MaxVersion,
		&f.FormatFamily,
		&f.HasSidecars,
		&f.MarketingFamily,
	}
}

// DecodeFormatInfo decodes a pipe-delimited format info line.
// The line must have exactly the required field count, or one more when
// the optional categories field is present. Only the line terminator is
// removed; field bytes are kept as is.
func DecodeFormatInfo(line string) (*FormatInfo, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, "|")

	n := len(FormatInfoFields)
	if len(fields) != n && len(fields) != n+1 {
		return nil, domain.NewDecodeError("",
			fmt.Sprintf("format info has %d fields, expected %d or %d", len(fields), n, n+1), nil)
	}

	info := &FormatInfo{}
	for i, p := range info.required() {
		*p = fields[i]
	}
	if len(fields) == n+1 {
		info.FormatCategories = fields[n]
		info.HasCategories = true
	}
	return info, nil
}

// Fields returns the record's values in header order
func (f *FormatInfo) Fields() []string {
	ptrs := f.required()
	out := make([]string, 0, len(ptrs)+1)
	for _, p := range ptrs {
		out = append(out, *p)
	}
	if f.HasCategories {
		out = append(out, f.FormatCategories)
	}
	return out
}

// Encode joins the record back into its pipe-delimited form
func (f *FormatInfo) Encode() string {
	return strings.Join(f.Fields(), "|")
}

// Get returns a field by its header name
func (f *FormatInfo) Get(field string) (string, bool) {
	if field == FormatCategoriesField {
		return f.FormatCategories, f.HasCategories
	}
	for i, name := range FormatInfoFields {
		if name == field {
			return *f.required()[i], true
		}
	}
	return "", false
}

// Categories splits the optional categories field on commas
func (f *FormatInfo) Categories() []string {
	out := []string{}
	if !f.HasCategories {
		return out
	}
	for _, c := range strings.Split(f.FormatCategories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// LoadFormatLine returns the first substantive line of a .db file.
// Blank lines and lines starting with ';' are skipped.
func LoadFormatLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", domain.NewDecodeError("", "no format info line found", nil)
}
