package utils

import (
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const identiconGrid = 6

// AvatarSizes are the pixel dimensions of the small, medium and large
// avatar variants.
var AvatarSizes = [3]int{30, 100, 200}

// AvatarSuffixes pair with AvatarSizes when deriving filenames.
var AvatarSuffixes = [3]string{"_s", "_m", "_l"}

// GenerateIdenticon renders a deterministic avatar for a username: a
// horizontally mirrored 6x6 block pattern whose bits and color both come
// from a hash of the name. The same username always yields the same image.
func GenerateIdenticon(username string, size int) image.Image {
	sum := sha256.Sum256([]byte(username))

	fg := color.NRGBA{R: sum[0], G: sum[1], B: sum[2], A: 255}
	bg := color.NRGBA{R: 240, G: 240, B: 240, A: 255}

	cells := image.NewNRGBA(image.Rect(0, 0, identiconGrid, identiconGrid))
	for y := 0; y < identiconGrid; y++ {
		for x := 0; x < (identiconGrid+1)/2; x++ {
			bit := sum[3+y]>>uint(x)&1 == 1
			c := bg
			if bit {
				c = fg
			}
			cells.SetNRGBA(x, y, c)
			cells.SetNRGBA(identiconGrid-1-x, y, c)
		}
	}

	// Nearest neighbor keeps the block edges crisp at any output size.
	return imaging.Resize(cells, size, size, imaging.NearestNeighbor)
}

// AvatarFilename derives a deterministic stored name for a username and
// size suffix.
func AvatarFilename(username, suffix string) string {
	sum := sha256.Sum256([]byte(username))
	return fmt.Sprintf("%x%s.png", sum[:8], suffix)
}
