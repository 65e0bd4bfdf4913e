package help

import (
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// cssPath is the stylesheet location relative to the help root
const cssPath = "../../css/style.css"

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<title>%s</title>
<link rel="stylesheet" href="%s" />
</head>
<body>
%s
</body>
</html>
`

// Builder copies a package's help directory into its build, converting
// markdown pages when the help has no hand-written index
type Builder struct {
	index    *Index
	renderer domain.MarkdownRenderer
	logger   *utils.Logger
}

// NewBuilder creates a Builder. A nil renderer uses NewMarkdown.
func NewBuilder(ix *Index, renderer domain.MarkdownRenderer, logger *utils.Logger) *Builder {
	if renderer == nil {
		renderer = NewMarkdown()
	}
	return &Builder{
		index:    ix,
		renderer: renderer,
		logger:   utils.OrNop(logger).WithComponent("help"),
	}
}

// Build copies src into dst. When src has its own index it is validated
// and the tree is copied as is; otherwise markdown pages are converted and
// an index is generated. The index at dst is validated either way.
func (b *Builder) Build(src, dst string) error {
	srcIndex := filepath.Join(src, IndexFileName)
	manual := utils.FileExists(srcIndex)

	if manual {
		if err := b.index.Validate(srcIndex, src); err != nil {
			return err
		}
		if err := utils.CopyTree(src, dst, utils.CopyIgnoreGlobs); err != nil {
			return err
		}
	} else if err := b.convertTree(src, dst); err != nil {
		return err
	}

	dstIndex := filepath.Join(dst, IndexFileName)
	if !utils.FileExists(dstIndex) {
		rows, err := b.index.Generate(dst, dstIndex)
		if err != nil {
			return err
		}
		b.logger.Info().Int("rows", rows).Msg("Generated help index")
	}
	return b.index.Validate(dstIndex, dst)
}

func (b *Builder) convertTree(src, dst string) error {
	transformers := make(map[string]struct{})
	for _, t := range b.index.manifest.Transformers() {
		transformers[t.Name] = struct{}{}
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && utils.MatchesAny(path, utils.CopyIgnoreGlobs) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return utils.CopyFile(path, target)
		}

		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		_, isTransformer := transformers[stem]
		page, err := b.renderPage(path, rel, stem, isTransformer)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		htm := filepath.Join(filepath.Dir(target), stem+".htm")
		if err := utils.EnsureDir(htm); err != nil {
			return err
		}
		b.logger.Debug().Str("src", rel).Msg("Converted help page")
		return os.WriteFile(htm, []byte(page), 0644)
	})
}

func (b *Builder) renderPage(path, rel, title string, transformer bool) (string, error) {
	source, err := utils.ReadText(path)
	if err != nil {
		return "", err
	}
	body, err := b.renderer.Render([]byte(source))
	if err != nil {
		return "", err
	}
	if transformer {
		if body, err = MarkTransformerSummary(body); err != nil {
			return "", err
		}
	}

	depth := len(strings.Split(filepath.ToSlash(rel), "/")) - 1
	css := strings.Repeat("../", depth) + cssPath
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), css, body), nil
}

// MarkTransformerSummary tags the first heading and paragraph of a
// transformer page so Workbench can show them in its Quick Add pane
func MarkTransformerSummary(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	doc.Find("h1").First().SetAttr("class", "fmx")
	if p := doc.Find("p").First(); p.Length() > 0 {
		inner, err := p.Html()
		if err != nil {
			return "", err
		}
		p.SetHtml(`<span class="TransformerSummary">` + inner + `</span>`)
	}
	return doc.Find("body").Html()
}
