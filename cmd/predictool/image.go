package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register decoder.
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/bep/imagemeta"
	"github.com/vearutop/predictedit"
	_ "golang.org/x/image/tiff" // Register decoder.
	_ "golang.org/x/image/webp" // Register decoder.
)

// loadImage decodes a file into a raster, applying its EXIF orientation.
func loadImage(path string) (*predictedit.RasterBuffer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return orient(predictedit.RasterFromImage(img), exifOrientation(data, format)), nil
}

func saveImage(path string, buf *predictedit.RasterBuffer) error {
	var out bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(&out, buf.Image(), &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		if err := png.Encode(&out, buf.Image()); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return os.WriteFile(filepath.Clean(path), out.Bytes(), 0o644)
}

var metaFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"webp": imagemeta.WebP,
	"tiff": imagemeta.TIFF,
}

// exifOrientation returns the EXIF Orientation tag, 1 when absent or unreadable.
func exifOrientation(data []byte, format string) int {
	f, ok := metaFormats[format]
	if !ok {
		return 1
	}
	orientation := 1
	err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: f,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Tag == "Orientation"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			switch v := ti.Value.(type) {
			case uint16:
				orientation = int(v)
			case uint32:
				orientation = int(v)
			case int:
				orientation = v
			case int64:
				orientation = int(v)
			}
			return nil
		},
	})
	if err != nil {
		predictedit.Logger().Debug("predictool: read EXIF", "error", err)
		return 1
	}
	return orientation
}

func orient(buf *predictedit.RasterBuffer, orientation int) *predictedit.RasterBuffer {
	switch orientation {
	case 2:
		return predictedit.FlipHorizontal(buf)
	case 3:
		return predictedit.Rotate180(buf)
	case 4:
		return predictedit.FlipVertical(buf)
	case 5:
		return predictedit.FlipHorizontal(predictedit.Rotate90(buf))
	case 6:
		return predictedit.Rotate90(buf)
	case 7:
		return predictedit.FlipHorizontal(predictedit.Rotate270(buf))
	case 8:
		return predictedit.Rotate270(buf)
	default:
		return buf
	}
}
