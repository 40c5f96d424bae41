package utils

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// RandomFilename generates a collision-free stored name keeping the
// original extension.
func RandomFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

// VariantFilename derives "name_s.ext" from "name.ext".
func VariantFilename(filename, suffix string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s%s%s", strings.TrimSuffix(filename, ext), suffix, ext)
}

// ResizeToWidth scales an image down to targetWidth preserving aspect
// ratio. Images at or below the target width are returned unchanged;
// variants never upscale.
func ResizeToWidth(img image.Image, targetWidth int) image.Image {
	if img.Bounds().Dx() <= targetWidth {
		return img
	}
	return imaging.Resize(img, targetWidth, 0, imaging.Lanczos)
}
