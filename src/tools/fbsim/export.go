package fbsim

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/juju/errors"
	"golang.org/x/image/bmp"

	"glimmer/src/raster"
)

// Export writes the visible part of the frame buffer to path, as BMP when the
// name ends in .bmp and PNG otherwise.
func Export(s *raster.Surface, path string) error {
	img := s.Snapshot()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		fp, err := os.Create(path)
		if err != nil {
			return errors.Trace(err)
		}
		if err := bmp.Encode(fp, img); err != nil {
			fp.Close()
			return errors.Annotatef(err, "encoding %s", path)
		}
		return errors.Trace(fp.Close())
	case ".png", "":
		return errors.Annotatef(gg.SavePNG(path, img), "saving %s", path)
	}
	return errors.NotSupportedf("image format %q", filepath.Ext(path))
}
