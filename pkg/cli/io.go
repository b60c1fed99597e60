package cli

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file into a
// 4-channel buffer and reports the detected format.
func LoadImage(path string) (*raster.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	b := raster.FromImage(img)
	if b == nil {
		return nil, "", fmt.Errorf("decode %s: empty image", path)
	}
	return b, format, nil
}

// SaveImage encodes b using the format implied by the file extension:
// .png, .jpg/.jpeg, .gif, .bmp, .tif/.tiff. Anything else is written as PNG.
func SaveImage(path string, b *raster.Buffer, jpegQuality int) (err error) {
	if err := b.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	img := b.NRGBA()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case ".gif":
		err = gif.Encode(w, img, nil)
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

// ImageInfo returns a short description of b.
func ImageInfo(b *raster.Buffer, format string) string {
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d, Channels: %d", strings.ToUpper(format), b.W, b.H, b.C)
}
