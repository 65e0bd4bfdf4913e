package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantmind-br/fmepackager/internal/domain"
	"github.com/quantmind-br/fmepackager/internal/testutil"
)

func TestEnforcePNG(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	square := write("square.png", testutil.PNG(t, 256, 256))
	wide := write("wide.png", testutil.PNG(t, 64, 32))
	text := write("text.png", []byte("not an image"))

	assert.NoError(t, enforcePNG(square, IconMinSize, IconMinSize, true))
	assert.NoError(t, enforcePNG(wide, 0, 0, false))

	err := enforcePNG(wide, 0, 0, true)
	assert.ErrorIs(t, err, domain.ErrStructural)
	assert.Contains(t, err.Error(), "must be square")

	err = enforcePNG(wide, IconMinSize, IconMinSize, false)
	assert.Contains(t, err.Error(), "Min dimensions are 200x200")
	assert.Contains(t, err.Error(), "is 64x32")

	err = enforcePNG(text, 0, 0, false)
	assert.Contains(t, err.Error(), "must be PNG")

	assert.Error(t, enforcePNG(filepath.Join(dir, "missing.png"), 0, 0, false))
}
