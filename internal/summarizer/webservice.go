package summarizer

import (
	"bytes"
	"encoding/xml"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

// WebServiceFields are the connection properties surfaced for each web
// service, read from its authentication element
var WebServiceFields = []string{
	"help_url",
	"description",
	"markdown_description",
	"connection_description",
	"markdown_connection_description",
}

// xmlNode is a generic element tree
type xmlNode struct {
	XMLName xml.Name
	Text    string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

func (n *xmlNode) child(name string) *xmlNode {
	if n == nil {
		return nil
	}
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// ParseWebService reads the authentication properties of an exported web
// service. Missing properties are empty strings. A document that is not
// well-formed yields only empty properties and a non-nil parse error, so
// callers can warn and carry on.
func ParseWebService(path string) (map[string]string, error) {
	props := make(map[string]string, len(WebServiceFields))
	for _, f := range WebServiceFields {
		props[f] = ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	auth, err := authentication(data)
	if err != nil {
		return props, domain.NewDecodeError(path, "malformed web service", err)
	}
	if auth == nil {
		return props, nil
	}
	for _, f := range WebServiceFields {
		if n := auth.child(f); n != nil {
			props[f] = strings.TrimSpace(n.Text)
		}
	}
	return props, nil
}

func authentication(data []byte) (*xmlNode, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, err
	}
	if root.XMLName.Local != "ImportExportData" {
		return nil, nil
	}
	services := root.child("webservices")

	service := services.child("webservice")
	if service == nil {
		// FME 2024.1 and earlier nest the definition as an escaped document
		nested := services.child("webservicexml")
		if nested == nil || strings.TrimSpace(nested.Text) == "" {
			return nil, nil
		}
		inner, err := parseXML([]byte(nested.Text))
		if err != nil {
			return nil, err
		}
		if inner.XMLName.Local != "webservice" {
			return nil, nil
		}
		service = inner
	}
	return service.child("authentication"), nil
}
