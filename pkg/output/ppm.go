package output

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM encodes the image as plain-text PPM (P3): a header with the color
// range as maxval, then one line per row from top to bottom.
func WritePPM(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", img.width, img.height, img.colorRange); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := img.pixels[y*img.width+x]
			sep := " "
			if x == img.width-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d%s",
				Quantize(c.R, img.colorRange),
				Quantize(c.G, img.colorRange),
				Quantize(c.B, img.colorRange),
				sep); err != nil {
				return fmt.Errorf("failed to write PPM row %d: %w", y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}
