// Package fonts provides the embedded text face used by chart rendering.
//
// The Go Regular font ships inside the binary, so raster output never
// depends on system fonts. Vector output references [Family] instead and
// leaves font resolution to the viewer.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/waffleviz/waffle/pkg/errors"
)

// Family is the CSS font stack for vector output.
const Family = "Helvetica, Arial, sans-serif"

// The parsed font is cached after first use; faces are cheap to derive
// per size but parsing the TTF is not.
var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Face returns a text face at the given point size, backed by the
// embedded Go Regular font.
func Face(size float64) (font.Face, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, regularErr, "parse bundled font")
	}

	face, err := opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build font face")
	}
	return face, nil
}
