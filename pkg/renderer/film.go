package renderer

import (
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// splatStripes is the number of mutexes the splat buffer stripes its
// per-pixel locking across (spec.md §5: "atomic add... or a per-pixel
// fine-grain lock"). A fixed small set of stripes, rather than one mutex
// per pixel, keeps the buffer's memory overhead independent of image size
// while still letting unrelated pixels splat concurrently.
const splatStripes = 256

// PixelStats accumulates one pixel's samples into the two buffers spec.md
// §5 names: Primary sums every sample, Secondary sums every second one.
// Comparing the two once both are normalized to a per-sample mean gives a
// variance estimate for adaptive refinement without separately tracking a
// sum of squares, and works the same whether the source samples started
// as spectral radiance or RGB, since the integrator always converts to
// tristimulus before accumulating (spec.md §6 "accumulate(x, y,
// XYZ_or_RGB)").
type PixelStats struct {
	Primary        core.Vec3
	Secondary      core.Vec3
	SampleCount    int
	SecondaryCount int
}

// AddSample folds one tristimulus sample into both buffers.
func (ps *PixelStats) AddSample(c core.Vec3) {
	ps.Primary = ps.Primary.Add(c)
	if ps.SampleCount%2 == 1 {
		ps.Secondary = ps.Secondary.Add(c)
		ps.SecondaryCount++
	}
	ps.SampleCount++
}

// Mean returns the full-sample average.
func (ps *PixelStats) Mean() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.Primary.Multiply(1.0 / float64(ps.SampleCount))
}

// RelativeError is the splitting-estimator noise measure: the fractional
// disagreement between the full-sample mean and the half-sample
// (Secondary) mean, used by adaptive sampling to decide whether a pixel
// needs more work.
func (ps *PixelStats) RelativeError() float64 {
	if ps.SecondaryCount == 0 {
		return math.Inf(1)
	}
	full := ps.Mean().Luminance()
	if full <= 1e-8 {
		return 0
	}
	half := ps.Secondary.Multiply(1.0 / float64(ps.SecondaryCount)).Luminance()
	return math.Abs(full-half) / full
}

// Film is the shared per-frame image state spec.md §5 describes: a
// pixel-owned accumulation buffer workers write to lock-free (each tile's
// pixels belong to exactly one worker) plus a multi-writer splat buffer
// for light-tracer and BDPT camera-connection contributions that land on
// an arbitrary pixel mid-walk.
type Film struct {
	Width, Height int

	stats [][]PixelStats

	splatMu      [splatStripes]sync.Mutex
	splatAccum   [][]core.Vec3
	lightSamples int64 // total independent light-subpath samples taken this frame, for splat normalization
}

// NewFilm allocates a zeroed film for the given resolution.
func NewFilm(width, height int) *Film {
	f := &Film{Width: width, Height: height}
	f.stats = make([][]PixelStats, height)
	f.splatAccum = make([][]core.Vec3, height)
	for y := 0; y < height; y++ {
		f.stats[y] = make([]PixelStats, width)
		f.splatAccum[y] = make([]core.Vec3, width)
	}
	return f
}

// Accumulate adds a pixel-local sample (spec.md §6's Film.accumulate).
// Only the worker owning this pixel's tile ever calls it, so no locking
// is needed.
func (f *Film) Accumulate(x, y int, c core.Vec3) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.stats[y][x].AddSample(c)
}

// RecordLightSample increments the splat-normalization denominator; called
// once per camera-pixel sample regardless of whether that sample actually
// produced a splat, so the splat buffer's average is comparable across
// pixels with different numbers of incoming splats.
func (f *Film) RecordLightSample() {
	atomic.AddInt64(&f.lightSamples, 1)
}

// Splat deposits a multi-writer contribution at an arbitrary film
// location (spec.md §6's Film.splat), serialized per stripe since many
// worker threads may target the same pixel.
func (f *Film) Splat(filmX, filmY float64, c core.Vec3) {
	x, y := int(filmX), int(filmY)
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	stripe := uint32(x)*2654435761 ^ uint32(y)*40503
	mu := &f.splatMu[stripe%splatStripes]
	mu.Lock()
	f.splatAccum[y][x] = f.splatAccum[y][x].Add(c)
	mu.Unlock()
}

// Stats returns the pixel's accumulation state for the adaptive sampling
// loop to inspect (never mutated outside the owning worker).
func (f *Film) Stats(x, y int) *PixelStats {
	return &f.stats[y][x]
}

// pixelColor combines a pixel's camera-side mean with its normalized
// splat contribution.
func (f *Film) pixelColor(x, y int) core.Vec3 {
	mean := f.stats[y][x].Mean()
	if n := atomic.LoadInt64(&f.lightSamples); n > 0 {
		splatMean := f.splatAccum[y][x].Multiply(1.0 / float64(n))
		mean = mean.Add(splatMean)
	}
	return mean
}

// ToneMappedImage renders the film to an 8-bit sRGB-gamma image, the LDR
// BMP output path spec.md §6 names.
func (f *Film) ToneMappedImage(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.pixelColor(x, y).GammaCorrect(gamma).Clamp(0, 1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255*c.X + 0.5),
				G: uint8(255*c.Y + 0.5),
				B: uint8(255*c.Z + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// RawImage returns the unclamped, un-gamma-corrected linear radiance per
// pixel, the HDR accumulator dump spec.md §6 names.
func (f *Film) RawImage() [][]core.Vec3 {
	out := make([][]core.Vec3, f.Height)
	for y := 0; y < f.Height; y++ {
		out[y] = make([]core.Vec3, f.Width)
		for x := 0; x < f.Width; x++ {
			out[y][x] = f.pixelColor(x, y)
		}
	}
	return out
}
