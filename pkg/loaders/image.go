package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads a PNG, JPEG, or WebP image and converts it to a Vec3
// color array. PNG/JPEG decode through the standard library's
// format-sniffing image.Decode; WebP is routed separately through
// nativewebp since the standard library carries no WebP decoder and
// image.Decode's registry has nothing to sniff it with.
func LoadImage(filename string) (*ImageData, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	var img image.Image
	if strings.HasSuffix(strings.ToLower(filename), ".webp") {
		img, err = nativewebp.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp image: %w", err)
		}
	} else {
		// Decode image (auto-detects PNG/JPEG from file header)
		img, _, err = image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}

	// Convert to Vec3 array
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}
