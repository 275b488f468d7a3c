package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrNoLogo is returned by LoadLogo when no logo path is configured.
var ErrNoLogo = errors.New("no logo configured")

// LoadLogo decodes the hub logo at path. PNG, JPEG and WebP are supported.
func LoadLogo(path string) (image.Image, error) {
	if path == "" {
		return nil, ErrNoLogo
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo: %w", err)
	}
	defer file.Close()

	return DecodeLogo(file)
}

// DecodeLogo decodes a logo from r and rejects empty images.
func DecodeLogo(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("logo %s image is empty", format)
	}
	return img, nil
}
