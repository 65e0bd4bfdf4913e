package packager

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/net/html/charset"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/help"
	"github.com/quantmind-br/fmepackager/internal/utils"
	"github.com/quantmind-br/fmepackager/internal/validator"
)

// RequiredFiles must exist at the root of every package
var RequiredFiles = []string{"package.yml", "README.md", "CHANGES.md"}

// localizationGlobs match localization files that are always copied;
// component docs are matched by name
var localizationGlobs = []string{"guiprompts_??.txt", "transformer-localized.??"}

func (p *Packager) copyRequiredFiles(context.Context) error {
	for _, name := range RequiredFiles {
		path := p.src(name)
		if !utils.FileExists(path) {
			return domain.Structuralf("%s is required but does not exist", path)
		}
		if err := utils.CopyFile(path, p.dst(name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packager) copyIcon(context.Context) error {
	path := p.src("icon.png")
	if !utils.FileExists(path) {
		p.logger.Info().Msg("FME package has no icon")
		return nil
	}
	if err := enforcePNG(path, IconMinSize, IconMinSize, true); err != nil {
		return err
	}
	return utils.CopyFile(path, p.dst("icon.png"))
}

func (p *Packager) copyTransformers(context.Context) error {
	src, dst := p.src("transformers"), p.dst("transformers")
	if utils.DirExists(src) {
		if err := utils.CopyTree(src, dst, utils.CopyIgnoreGlobs); err != nil {
			return err
		}
	}

	for _, entry := range p.manifest.Transformers() {
		log := p.logger.With().Str("transformer", entry.Name).Logger()
		log.Info().Msg("Working on transformer")

		if entry.Version < 1 {
			return domain.Structuralf("%s version must be >= 1", entry.Name)
		}
		if !utils.FileExists(filepath.Join(dst, entry.Name+".md")) {
			return domain.Structuralf("%s is missing doc", entry.Name)
		}
		if err := copyIfExists(filepath.Join(src, entry.Name+".fms"), dst); err != nil {
			return err
		}

		path := filepath.Join(src, entry.Name+".fmxj")
		if !utils.FileExists(path) {
			path = filepath.Join(src, entry.Name+".fmx")
		}
		if !utils.FileExists(path) {
			return domain.Structuralf("%s is in metadata, but was not found", path)
		}

		f, _, err := p.validator.ValidateTransformer(path, entry)
		if err != nil {
			return err
		}
		log.Debug().Str("dialect", string(f.Dialect())).Msg("Transformer is valid")
		if err := utils.CopyFile(path, filepath.Join(dst, filepath.Base(path))); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packager) copyWebServices(context.Context) error {
	dst := p.dst("web_services")
	for _, entry := range p.manifest.WebServices() {
		// Entries are full file names; the extension is not assumed
		path := p.src("web_services", entry.Name)
		if !utils.FileExists(path) {
			return domain.Structuralf("Web Service '%s' is in metadata, but was not found", entry.Name)
		}
		if err := checkXML(path); err != nil {
			p.logger.Warn().Err(err).Str("web_service", entry.Name).Msg("Web service is not well-formed XML")
		}
		if err := utils.CopyFile(path, filepath.Join(dst, entry.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packager) copyWebFilesystems(context.Context) error {
	src, dst := p.src("web_filesystems"), p.dst("web_filesystems")
	for _, entry := range p.manifest.WebFilesystems() {
		path := filepath.Join(src, entry.Name+".fme")
		if !utils.FileExists(path) {
			return domain.Structuralf("Web Filesystem '%s' is in metadata, but was not found", entry.Name)
		}
		if err := utils.CopyFile(path, filepath.Join(dst, filepath.Base(path))); err != nil {
			return err
		}

		icon := filepath.Join(src, entry.Name+".png")
		if !utils.FileExists(icon) {
			continue
		}
		if err := enforcePNG(icon, 0, 0, false); err != nil {
			return err
		}
		if err := utils.CopyFile(icon, filepath.Join(dst, filepath.Base(icon))); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packager) copyFormats(context.Context) error {
	src, dst := p.src("formats"), p.dst("formats")
	if utils.DirExists(src) {
		if err := utils.CopyTree(src, dst, utils.CopyIgnoreGlobs); err != nil {
			return err
		}
	}

	for _, entry := range p.manifest.Formats() {
		p.logger.Info().Str("format", entry.Name).Msg("Working on format")

		if !utils.FileExists(filepath.Join(dst, entry.Name+".md")) {
			return domain.Structuralf("%s is missing doc", entry.Name)
		}
		if err := copyIfExists(filepath.Join(src, entry.Name+".fms"), dst); err != nil {
			return err
		}

		fmf := filepath.Join(src, entry.Name+".fmf")
		db := filepath.Join(src, entry.Name+".db")
		info, err := p.validator.ValidateFormat(fmf, db, entry)
		if err != nil {
			return err
		}
		visibility, err := validator.FormatVisibility(info)
		if err != nil {
			return err
		}
		p.directions[entry.Name] = visibility

		for _, path := range []string{fmf, db} {
			if err := utils.CopyFile(path, filepath.Join(dst, filepath.Base(path))); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyLocalization copies files matching a name whitelist. Contents are not
// validated.
func (p *Packager) copyLocalization(context.Context) error {
	src := p.src("localization")
	if !utils.DirExists(src) {
		return nil
	}

	globs := append([]string{}, localizationGlobs...)
	for _, e := range p.manifest.Formats() {
		globs = append(globs, e.Name+"_??.md")
	}
	for _, e := range p.manifest.Transformers() {
		globs = append(globs, e.Name+"_??.md")
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(src, e.Name())
		if !utils.MatchesAny(path, globs) {
			p.logger.Warn().Str("file", e.Name()).Msg("Skipping unrecognized localization file")
			continue
		}
		p.logger.Debug().Str("file", e.Name()).Msg("Copying localization")
		if err := utils.CopyFile(path, p.dst("localization", e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packager) copyHelp(context.Context) error {
	ix := help.NewIndex(p.manifest, help.IndexOptions{
		Directions:  p.directions,
		URLMinBuild: p.opts.URLMinBuild,
		Logger:      p.opts.Logger,
	})

	src := p.src("help")
	if !utils.DirExists(src) {
		return ix.ValidateEmpty()
	}
	p.logger.Info().Msg("Copying help")
	return help.NewBuilder(ix, nil, p.opts.Logger).Build(src, p.dst("help"))
}

func copyIfExists(path, dstDir string) error {
	if !utils.FileExists(path) {
		return nil
	}
	return utils.CopyFile(path, filepath.Join(dstDir, filepath.Base(path)))
}

// checkXML reports whether the file at path is well-formed XML
func checkXML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	dec.CharsetReader = charset.NewReaderLabel
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
