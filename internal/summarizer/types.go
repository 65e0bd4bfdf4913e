package summarizer

import (
	"encoding/json"
)

// DescriptionFormatMarkdown marks a description read from a markdown file
const DescriptionFormatMarkdown = "md"

// TransformerVersion is one version of a transformer as summarized
type TransformerVersion struct {
	Name                string   `json:"name"`
	Version             int      `json:"version"`
	Categories          []string `json:"categories"`
	Aliases             []string `json:"aliases"`
	Visible             bool     `json:"visible"`
	DataProcessingTypes []string `json:"data_processing_types"`
}

// Transformer is a summarized transformer entry
type Transformer struct {
	Name              string               `json:"name"`
	LatestVersion     int                  `json:"latest_version"`
	Versions          []TransformerVersion `json:"versions"`
	Description       *string              `json:"description"`
	DescriptionFormat *string              `json:"description_format"`
}

// newest returns the highest version, or nil without versions
func (t *Transformer) newest() *TransformerVersion {
	var out *TransformerVersion
	for i := range t.Versions {
		if out == nil || t.Versions[i].Version > out.Version {
			out = &t.Versions[i]
		}
	}
	return out
}

// Format is a summarized format entry. FdsInfo, Visible and Categories are
// nil when the format has no info record, which fails the summary schema.
type Format struct {
	ShortName         string   `json:"short_name"`
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	DescriptionFormat *string  `json:"description_format"`
	FdsInfo           *string  `json:"fds_info"`
	Visible           *bool    `json:"visible"`
	Categories        []string `json:"categories"`
}

// WebService is a summarized web service entry
type WebService struct {
	Name                          string `json:"name"`
	HelpURL                       string `json:"help_url"`
	Description                   string `json:"description"`
	MarkdownDescription           string `json:"markdown_description"`
	ConnectionDescription         string `json:"connection_description"`
	MarkdownConnectionDescription string `json:"markdown_connection_description"`
}

// Failure is the result of a summary that did not conform to its schema
type Failure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Output is either a summary document or a Failure
type Output struct {
	// Document is the manifest tree with enhanced component lists
	Document map[string]any
	Failure  *Failure
}

// OK reports whether Output holds a summary
func (o *Output) OK() bool {
	return o.Failure == nil
}

// MarshalJSON encodes the document, or the failure when there is one
func (o *Output) MarshalJSON() ([]byte, error) {
	if o.Failure != nil {
		return json.Marshal(o.Failure)
	}
	return json.Marshal(o.Document)
}
