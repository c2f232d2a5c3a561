package main

import (
	"bufio"
	"encoding/gob"
	"image"
	"os"

	"golang.org/x/image/bmp"

	"github.com/df07/spectral-path-tracer/pkg/renderer"
)

// saveBMP writes the tone-mapped LDR image (SPEC_FULL.md §7: "BMP for the
// tone-mapped LDR output").
func saveBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := bmp.Encode(w, img); err != nil {
		return err
	}
	return w.Flush()
}

// hdr32Header identifies the raw float accumulator container written in
// place of OpenEXR (SPEC_FULL.md §7: no pack example or pure-Go OpenEXR
// encoder exists, so the HDR dump falls back to a small gob container
// over the Film's own raw-pixel representation).
type hdr32Header struct {
	Width, Height int
}

type hdr32Pixel struct{ X, Y, Z float64 }

// saveHDR32 dumps the film's un-tonemapped per-pixel radiance so a render
// can be resumed, denoised, or re-exposed later without re-rendering.
func saveHDR32(path string, film *renderer.Film) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	raw := film.RawImage()
	enc := gob.NewEncoder(w)
	if err := enc.Encode(hdr32Header{Width: len(raw[0]), Height: len(raw)}); err != nil {
		return err
	}
	for _, row := range raw {
		for _, c := range row {
			if err := enc.Encode(hdr32Pixel{X: c.X, Y: c.Y, Z: c.Z}); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
