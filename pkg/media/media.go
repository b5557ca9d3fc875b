// Package media holds small image helpers used before assets are pushed to
// object storage.
package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

// IsImage reports whether the filename looks like a supported image.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// Bound resizes the image in place so neither dimension exceeds maxDim.
// Smaller images are left untouched.
func Bound(path string, maxDim int) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return nil
	}
	if b.Dx() >= b.Dy() {
		img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}
