package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DuplicateThreshold is the largest Hamming distance at which two
// fingerprints count as the same picture.
const DuplicateThreshold = 6

// Fingerprint computes a 64-bit difference hash of the image in f.
// Re-encoded or slightly rescaled copies of a photo hash to nearby values.
func Fingerprint(f FileHandle) (uint64, error) {
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", f.Name, err)
	}
	return dHash(img), nil
}

// dHash compares horizontally adjacent pixels of a 9x8 grayscale thumbnail.
func dHash(img image.Image) uint64 {
	thumb := image.NewGray(image.Rect(0, 0, 9, 8))
	draw.BiLinear.Scale(thumb, thumb.Bounds(), img, img.Bounds(), draw.Src, nil)

	var hash uint64
	bit := 63
	for y := range 8 {
		for x := range 8 {
			if thumb.GrayAt(x, y).Y > thumb.GrayAt(x+1, y).Y {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// HammingDistance counts the differing bits of two fingerprints.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Dedupe keeps the first of each group of visually identical files.
// Files that cannot be decoded are kept; dropped returns the names of the skipped copies.
func Dedupe(files []FileHandle) (kept []FileHandle, dropped []string) {
	var seen []uint64
	for _, f := range files {
		hash, err := Fingerprint(f)
		if err != nil {
			kept = append(kept, f)
			continue
		}
		duplicate := false
		for _, s := range seen {
			if HammingDistance(hash, s) <= DuplicateThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			dropped = append(dropped, f.Name)
			continue
		}
		seen = append(seen, hash)
		kept = append(kept, f)
	}
	return kept, dropped
}
