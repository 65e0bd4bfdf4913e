package packager

import (
	"image/png"
	"os"

	"github.com/quantmind-br/fmepackager/internal/domain"
)

// IconMinSize is the minimum width and height of the package icon
const IconMinSize = 200

// enforcePNG fails unless path is a PNG of at least minWidth by minHeight,
// and square when square is set
func enforcePNG(path string, minWidth, minHeight int, square bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return domain.Structuralf("%s must be PNG", path)
	}
	if cfg.Width < minWidth || cfg.Height < minHeight {
		return domain.Structuralf("Min dimensions are %dx%d. %s is %dx%d", minWidth, minHeight, path, cfg.Width, cfg.Height)
	}
	if square && cfg.Width != cfg.Height {
		return domain.Structuralf("%s must be square", path)
	}
	return nil
}
