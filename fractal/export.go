package fractal

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is an export encoding.
type Format uint8

const (
	FormatPNG Format = iota
	FormatTIFF
	FormatBMP
	// FormatRaw is the flat pixel dump: row-major RGBA bytes with no header.
	FormatRaw
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	case FormatRaw:
		return "raw"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".raw", ".rgba":
		return FormatRaw, nil
	default:
		return 0, fmt.Errorf("fractal: no export format for extension %q", ext)
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img *image.RGBA, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatRaw:
		return writeRaw(w, img)
	default:
		return fmt.Errorf("fractal: unsupported format %v", f)
	}
}

// writeRaw dumps the pixel rows without stride padding.
func writeRaw(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	rowLen := b.Dx() * channels
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := w.Write(img.Pix[off : off+rowLen]); err != nil {
			return err
		}
	}
	return nil
}

// Save encodes img to path, choosing the format from the extension.
func Save(path string, img *image.RGBA) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Encode(out, img, f); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	Logger().Info("image saved", "path", path, "format", f.String(), "size", img.Bounds().Size())
	return nil
}

// Scale resamples src to width×height. Downscaling filters over the covered
// area, so isolated single-visit pixels fade rather than vanish.
func Scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
