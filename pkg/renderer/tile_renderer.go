package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/colorspace"
	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/integrator"
)

// sampleDims is the per-sample dimension budget handed to a stratified
// sampler: pixel jitter (2), lens sample (2), and a generous allowance for
// the bounces a path/light/BDPT/VCM walk consumes along the way (spec.md
// §4.B names the sampler as a flat per-sample sequence, not a
// per-integrator one, so this budget has to cover the deepest walk any of
// them performs).
const sampleDims = 64

// RenderStats summarizes one tile pass's adaptive-sampling behavior,
// mirroring the teacher's renderer.RenderStats.
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	MaxSamples     int
	MinSamples     int
	MaxSamplesUsed int
}

// TileRenderer drives one integrator over one tile's pixels, accumulating
// into a shared Film. Grounded on the teacher's TileRenderer, generalized
// from a hardcoded rayColorRecursive call to any integrator.Integrator, and from
// the teacher's LuminanceAccum/LuminanceSqAccum stopping rule to the
// Film's two-buffer splitting estimator (spec.md §5).
type TileRenderer struct {
	scene      core.Scene
	integrator integrator.Integrator
	film       *Film
	sampling   core.SamplingConfig
}

// NewTileRenderer builds a tile renderer for one frame's scene, integrator,
// film, and sampling budget.
func NewTileRenderer(scene core.Scene, integ integrator.Integrator, film *Film, sampling core.SamplingConfig) *TileRenderer {
	return &TileRenderer{scene: scene, integrator: integ, film: film, sampling: sampling}
}

// RenderTile samples every pixel in the tile's bounds up to targetSamples,
// stopping each pixel early once its splitting-estimator relative error
// drops below the configured threshold (spec.md §4.B adaptive sampling).
func (tr *TileRenderer) RenderTile(tile *Tile, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: tile.Bounds.Dx() * tile.Bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			used := tr.samplePixel(x, y, tile.Random, targetSamples)
			stats.TotalSamples += used
			stats.MinSamples = min(stats.MinSamples, used)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, used)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel draws samples for one pixel until convergence or
// targetSamples is reached, returning the number of new samples taken this
// call (pixel state, via the Film, already reflects any samples from
// earlier passes).
func (tr *TileRenderer) samplePixel(x, y int, rng *rand.Rand, targetSamples int) int {
	ps := tr.film.Stats(x, y)
	minSamples := max(1, int(float64(targetSamples)*tr.sampling.AdaptiveMinSamples))
	taken := 0

	for ps.SampleCount < targetSamples {
		if ps.SampleCount >= minSamples && ps.RelativeError() < tr.sampling.AdaptiveThreshold {
			break
		}

		seeds := core.HaltonSeedSequence(ps.SampleCount, sampleDims)
		rngSeed := uint64(rng.Int63())
		sampler := core.NewStratifiedSampler(seeds, rngSeed)
		sampler.ResetPixel(x, y)

		jitter := sampler.Get2D()
		lensSample := sampler.Get2D()
		camera := tr.scene.Camera()
		ray := camera.GenerateRay(float64(x)+jitter.X, float64(y)+jitter.Y, lensSample)

		color, wl, splats := tr.integrator.RayColor(ray, tr.scene, sampler)
		tr.film.Accumulate(x, y, colorspace.ToTristimulus(color, wl))

		tr.film.RecordLightSample()
		for _, s := range splats {
			if !math.IsInf(s.FilmX, 0) {
				tr.film.Splat(s.FilmX, s.FilmY, colorspace.ToTristimulus(s.Contribution, s.WL))
			}
		}

		taken++
	}

	return taken
}
