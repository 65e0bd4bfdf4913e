// Package summarizer produces the JSON summary of a package that catalogs
// use to list its contents.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quantmind-br/fmepackager/internal/archive"
	"github.com/quantmind-br/fmepackager/internal/cache"
	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/manifest"
	"github.com/quantmind-br/fmepackager/internal/records"
	"github.com/quantmind-br/fmepackager/internal/schema"
	"github.com/quantmind-br/fmepackager/internal/transformer"
	"github.com/quantmind-br/fmepackager/internal/utils"
	"github.com/quantmind-br/fmepackager/pkg/version"
)

// StatusError is the Failure status
const StatusError = "error"

// Options configures a Summarizer
type Options struct {
	Logger *utils.Logger
	// Cache stores summaries of archives, keyed by content hash
	Cache    domain.Cache
	CacheTTL time.Duration
	// TempDir is the parent of extraction directories, os.TempDir when empty
	TempDir string
}

// Summarizer builds package summaries
type Summarizer struct {
	opts   Options
	logger *utils.Logger
}

// New creates a Summarizer
func New(opts Options) *Summarizer {
	return &Summarizer{
		opts:   opts,
		logger: utils.OrNop(opts.Logger).WithComponent("summarizer"),
	}
}

// Summarize summarizes a package directory or an .fpkg archive. Only
// extraction failures are returned as errors; a summary that does not
// conform to the schema is an Output with a Failure.
func (s *Summarizer) Summarize(ctx context.Context, path string) (*Output, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return s.summarizeDir(ctx, path)
	}

	key, cached := s.lookup(ctx, path)
	if cached != nil {
		return cached, nil
	}

	dir, err := os.MkdirTemp(s.opts.TempDir, "fpkg-summary-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := archive.Unpack(path, dir); err != nil {
		return nil, err
	}
	out, err := s.summarizeDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, out)
	return out, nil
}

// lookup returns the cache key of an archive and its cached summary, if any
func (s *Summarizer) lookup(ctx context.Context, path string) (string, *Output) {
	if s.opts.Cache == nil {
		return "", nil
	}
	hash, err := archive.Hash(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("fpkg", path).Msg("Cannot hash archive, cache disabled")
		return "", nil
	}
	key := cache.SummaryKey(hash, version.CacheTag())

	data, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("Cache read failed")
		}
		return key, nil
	}

	doc, err := decodeDocument(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Discarding unreadable cache entry")
		return key, nil
	}
	s.logger.Debug().Str("fpkg", path).Msg("Summary served from cache")
	return key, &Output{Document: doc}
}

// store caches successful summaries. Failures are not cached.
func (s *Summarizer) store(ctx context.Context, key string, out *Output) {
	if s.opts.Cache == nil || key == "" || !out.OK() {
		return
	}
	data, err := json.Marshal(out.Document)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Cannot encode summary for cache")
		return
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Cache write failed")
	}
}

func decodeDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Summarizer) summarizeDir(ctx context.Context, dir string) (*Output, error) {
	m, err := manifest.NewLoader().LoadDir(dir)
	if err != nil {
		return nil, err
	}
	log := s.logger.WithPackage(m.Identifier())

	transformers, err := s.transformers(ctx, dir, m)
	if err != nil {
		return nil, err
	}
	formats, err := s.formats(dir, m)
	if err != nil {
		return nil, err
	}
	services, err := s.webServices(dir, m, log)
	if err != nil {
		return nil, err
	}

	doc, err := buildDocument(m, transformers, formats, services)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateSummary(doc); err != nil {
		var se *domain.SchemaError
		if !errors.As(err, &se) {
			return nil, err
		}
		log.Warn().Err(err).Msg("Summary does not conform to schema")
		return &Output{Failure: &Failure{
			Status:  StatusError,
			Message: "The generated output did not conform to the schema: " + se.Message,
		}}, nil
	}

	log.Debug().
		Int("transformers", len(transformers)).
		Int("formats", len(formats)).
		Int("web_services", len(services)).
		Msg("Package summarized")
	return &Output{Document: doc}, nil
}

// buildDocument folds the summaries back into a copy of the manifest tree
func buildDocument(m *manifest.Manifest, transformers []Transformer, formats []Format, services []WebService) (map[string]any, error) {
	raw, err := schema.Normalize(m.Raw())
	if err != nil {
		return nil, err
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("manifest is not an object")
	}

	content, _ := doc["package_content"].(map[string]any)
	if content == nil {
		content = make(map[string]any)
	}
	content[manifest.KeyTransformers] = transformers
	content[manifest.KeyFormats] = formats
	content[manifest.KeyWebServices] = services
	doc["package_content"] = content
	doc["categories"] = Categories(transformers, formats)
	doc["deprecated"] = Deprecated(transformers, formats)

	normalized, err := schema.Normalize(doc)
	if err != nil {
		return nil, err
	}
	return normalized.(map[string]any), nil
}

func (s *Summarizer) transformers(ctx context.Context, dir string, m *manifest.Manifest) ([]Transformer, error) {
	out := make([]Transformer, 0, len(m.Transformers()))
	for _, entry := range m.Transformers() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		base := filepath.Join(dir, "transformers", entry.Name)
		path := base + ".fmxj"
		if !utils.FileExists(path) {
			path = base + ".fmx"
		}
		f, err := transformer.Open(path)
		if err != nil {
			return nil, err
		}
		parsed, err := f.Versions()
		if err != nil {
			return nil, err
		}

		versions := make([]TransformerVersion, 0, len(parsed))
		for _, t := range parsed {
			versions = append(versions, TransformerVersion{
				Name:                t.Name,
				Version:             t.Version,
				Categories:          orEmpty(t.Categories),
				Aliases:             orEmpty(t.Aliases),
				Visible:             t.Visible,
				DataProcessingTypes: orEmpty(t.DataProcessingTypes),
			})
		}

		desc, format := description(base + ".md")
		out = append(out, Transformer{
			Name:              entry.Name,
			LatestVersion:     entry.Version,
			Versions:          versions,
			Description:       desc,
			DescriptionFormat: format,
		})
	}
	return out, nil
}

func (s *Summarizer) formats(dir string, m *manifest.Manifest) ([]Format, error) {
	out := make([]Format, 0, len(m.Formats()))
	for _, entry := range m.Formats() {
		base := filepath.Join(dir, "formats", entry.Name)
		desc, format := description(base + ".md")
		f := Format{
			ShortName:         entry.Name,
			Name:              m.FQName(entry.Name),
			Description:       desc,
			DescriptionFormat: format,
		}

		line, err := formatLine(base + ".db")
		if err != nil {
			return nil, err
		}
		if line != "" {
			info, err := records.DecodeFormatInfo(line)
			if err != nil {
				return nil, err
			}
			visible := !strings.EqualFold(info.Visible, "NO")
			f.FdsInfo = &line
			f.Visible = &visible
			f.Categories = splitCategories(info)
		}
		out = append(out, f)
	}
	return out, nil
}

// formatLine returns the info record of a .db file, or "" when the file is
// missing or has none
func formatLine(path string) (string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := records.LoadFormatLine(f)
	if errors.Is(err, domain.ErrDecode) {
		return "", nil
	}
	return line, err
}

// splitCategories keeps the raw comma-separated items of the categories field
func splitCategories(info *records.FormatInfo) []string {
	if !info.HasCategories || info.FormatCategories == "" {
		return []string{}
	}
	return strings.Split(info.FormatCategories, ",")
}

func (s *Summarizer) webServices(dir string, m *manifest.Manifest, log *utils.Logger) ([]WebService, error) {
	out := make([]WebService, 0, len(m.WebServices()))
	for _, entry := range m.WebServices() {
		props, err := ParseWebService(filepath.Join(dir, "web_services", entry.Name))
		if err != nil {
			if !errors.Is(err, domain.ErrDecode) {
				return nil, err
			}
			log.Warn().Err(err).Str("web_service", entry.Name).Msg("Ignoring malformed web service")
		}
		out = append(out, WebService{
			Name:                          strings.TrimSuffix(entry.Name, ".xml"),
			HelpURL:                       props["help_url"],
			Description:                   props["description"],
			MarkdownDescription:           props["markdown_description"],
			ConnectionDescription:         props["connection_description"],
			MarkdownConnectionDescription: props["markdown_connection_description"],
		})
	}
	return out, nil
}

// description reads a markdown description; both results are nil when the
// file cannot be read
func description(path string) (*string, *string) {
	text, err := utils.ReadText(path)
	if err != nil {
		return nil, nil
	}
	format := DescriptionFormatMarkdown
	return &text, &format
}

// Categories returns the sorted union of the newest version categories of
// every transformer and the categories of every format
func Categories(transformers []Transformer, formats []Format) []string {
	seen := make(map[string]struct{})
	for i := range transformers {
		if v := transformers[i].newest(); v != nil {
			for _, c := range v.Categories {
				seen[c] = struct{}{}
			}
		}
	}
	for _, f := range formats {
		for _, c := range f.Categories {
			seen[c] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Deprecated reports whether a package with transformers or formats hides
// every one of them: the newest version of each transformer and each format
// is invisible
func Deprecated(transformers []Transformer, formats []Format) bool {
	if len(transformers) == 0 && len(formats) == 0 {
		return false
	}
	for i := range transformers {
		if v := transformers[i].newest(); v != nil && v.Visible {
			return false
		}
	}
	for _, f := range formats {
		if f.Visible != nil && *f.Visible {
			return false
		}
	}
	return true
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
