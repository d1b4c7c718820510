package output

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"
)

// Format is an image encoding
type Format int

// The supported encodings
const (
	None Format = iota
	PPM
	PNG
	JPEG
	GIF
	TIFF
	BMP
)

var formatNames = map[Format]string{
	None: "none",
	PPM:  "ppm",
	PNG:  "png",
	JPEG: "jpeg",
	GIF:  "gif",
	TIFF: "tiff",
	BMP:  "bmp",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case PPM:
		return "image/x-portable-pixmap"
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case TIFF:
		return "image/tiff"
	case BMP:
		return "image/bmp"
	}
	return "application/octet-stream"
}

// ParseFormat returns the format for an extension or name, with or without
// the leading dot
func ParseFormat(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "ppm":
		return PPM, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "":
		return None, fmt.Errorf("image format is empty")
	}
	return None, fmt.Errorf("image format %q not recognized", ext)
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return None, fmt.Errorf("%s: %w", path, err)
	}
	return format, nil
}

// Write encodes img in the given format. Images that are not an *Image are
// converted first when the format is PPM.
func Write(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PPM:
		src, ok := img.(*Image)
		if !ok {
			src = FromImage(img)
		}
		return WritePPM(w, src)
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case GIF:
		return gif.Encode(w, img, nil)
	case TIFF:
		return tiff.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("cannot encode image format %v", format)
}

// Save writes img to path, creating parent directories as needed.
// The format is inferred from the extension.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	bw := bufio.NewWriter(file)
	if err := Write(bw, img, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// Target pairs an image with the path it is saved to
type Target struct {
	Path  string
	Image image.Image
}

// SaveAll writes every target concurrently. The first failure cancels the
// writes that have not started yet.
func SaveAll(ctx context.Context, targets []Target) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return Save(target.Path, target.Image)
		})
	}
	return group.Wait()
}

// FromImage converts any image into an 8-bit *Image
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := &Image{
		width:      bounds.Dx(),
		height:     bounds.Dy(),
		colorRange: 255,
		pixels:     make([]core.Color, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := color.NRGBAModel.Convert(src.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			img.pixels[y*img.width+x] = core.NewColorAlpha(float64(c.R), float64(c.G), float64(c.B), float64(c.A)/255.0)
		}
	}
	return img
}

// Open decodes an image file. PNG, JPEG, GIF, TIFF and BMP are recognized
// from the file header.
func Open(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	src, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(src), nil
}
