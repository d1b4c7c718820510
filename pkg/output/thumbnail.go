package output

import (
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
)

// Thumbnail scales img to the given width, keeping the aspect ratio.
// A width of zero or one not smaller than the image returns img unchanged.
func Thumbnail(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || width >= bounds.Dx() {
		return img
	}
	height := int(math.Max(1, math.Round(float64(bounds.Dy())*float64(width)/float64(bounds.Dx()))))
	return transform.Resize(img, width, height, transform.Linear)
}

// ThumbnailPath returns the sibling path a thumbnail of path is saved to
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}
