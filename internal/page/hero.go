package page

import "math"

// MaxHeroPhoto caps the hero photo's edge length in pixels.
const MaxHeroPhoto = 520

// HeroPhotoSize returns the square edge for the hero photo given the height
// of the hero copy next to it. ok is false when the copy has no height yet.
func HeroPhotoSize(copyHeight float64) (size float64, ok bool) {
	size = math.Min(copyHeight, MaxHeroPhoto)
	return size, size > 0
}
