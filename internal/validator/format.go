package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/manifest"
	"github.com/quantmind-br/fmepackager/internal/records"
	"github.com/quantmind-br/fmepackager/internal/utils"
)

// ValidateFormat checks a format's .fmf and .db files against entry and
// returns the decoded format info record
func (v *Validator) ValidateFormat(fmfPath, dbPath string, entry manifest.FormatEntry) (*records.FormatInfo, error) {
	fqname := v.manifest.FormatFQName(entry.Name)

	text, err := utils.ReadText(fmfPath)
	if err != nil {
		return nil, notFound(fmfPath, err)
	}
	// Format names compare case-insensitively, so the script is searched
	// in upper case.
	upper := strings.ToUpper(text)
	if !strings.Contains(upper, "SOURCE_READER "+fqname) || !strings.Contains(upper, "FORMAT_NAME "+fqname) {
		return nil, domain.Structuralf("%s: SOURCE_READER and FORMAT_NAME must be '%s'", fmfPath, fqname)
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return nil, notFound(dbPath, err)
	}
	defer f.Close()

	line, err := records.LoadFormatLine(f)
	if err != nil {
		var de *domain.DecodeError
		if errors.As(err, &de) {
			return nil, domain.Structuralf("%s empty", dbPath)
		}
		return nil, err
	}
	info, err := records.DecodeFormatInfo(line)
	if err != nil {
		var de *domain.DecodeError
		if errors.As(err, &de) {
			de.Source = dbPath
		}
		return nil, err
	}
	if !manifest.SameFormatName(info.FormatName, fqname) {
		return nil, domain.NewNameMismatchError(dbPath, fqname, info.FormatName)
	}

	v.logger.Debug().Str("format", fqname).Msg("Format validated")
	return info, nil
}

// FormatVisibility derives the reader/writer visibility string of a format:
// "r", "w", "rw", or "" when the format is hidden
func FormatVisibility(info *records.FormatInfo) (string, error) {
	direction := strings.ToUpper(info.Direction)
	visible := strings.ToUpper(info.Visible)

	if visible == "NO" {
		return "", nil
	}

	switch direction {
	case "BOTH":
		switch visible {
		case "YES":
			return "rw", nil
		case "INPUT":
			return "r", nil
		case "OUTPUT":
			return "w", nil
		}
	case "INPUT":
		if visible == "YES" || visible == "INPUT" {
			return "r", nil
		}
	case "OUTPUT":
		if visible == "YES" || visible == "OUTPUT" {
			return "w", nil
		}
	}
	return "", domain.NewDecodeError(info.FormatName,
		fmt.Sprintf("DIRECTION %s contradicts VISIBLE %s", info.Direction, info.Visible), nil)
}

func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Structuralf("%s is in metadata, but was not found", path)
	}
	return err
}
