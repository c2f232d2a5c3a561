package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/integrator"
)

// DefaultLogger writes progress lines to stdout, the teacher's
// core.Logger implementation used when no other sink (e.g. the CLI's
// progress UI) is wired in.
type DefaultLogger struct{}

func (DefaultLogger) Printf(format string, args ...interface{}) { fmt.Printf(format, args...) }

// ProgressiveConfig configures a multi-pass progressive render: an
// increasing per-pixel sample target across a fixed number of passes, so a
// low-noise preview appears quickly and refines over time.
type ProgressiveConfig struct {
	TileSize           int
	InitialSamples     int
	MaxSamplesPerPixel int
	MaxPasses          int
	NumWorkers         int
}

// DefaultProgressiveConfig mirrors the teacher's defaults.
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 256,
		MaxPasses:          7,
		NumWorkers:         0,
	}
}

// PassResult reports one completed pass's film state.
type PassResult struct {
	PassNumber int
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult reports one completed tile within a pass, for a
// live progress UI.
type TileCompletionResult struct {
	Tile        *Tile
	PassNumber  int
	TileNumber  int
	TotalTiles  int
	TotalPasses int
}

// RenderOptions toggles optional progress feedback.
type RenderOptions struct {
	TileUpdates bool
}

// Progressive drives a TileRenderer across a tile grid over several passes
// of increasing sample count, dispatching tiles onto a fixed worker pool
// each pass (spec.md §5: "scheduling splits the image into tiles...
// renders them on a fixed thread pool"). Grounded on the teacher's
// ProgressiveRaytracer, restructured around the already-written
// Film/TileRenderer/WorkerPool instead of the teacher's
// shared-pixel-stats-array-plus-base-Raytracer design.
type Progressive struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	film          *Film
	renderer      *TileRenderer
	pool          *WorkerPool
	logger        core.Logger
}

// NewProgressive builds a progressive scheduler for one frame.
func NewProgressive(scene core.Scene, integ integrator.Integrator, width, height int, sampling core.SamplingConfig, config ProgressiveConfig, logger core.Logger) *Progressive {
	film := NewFilm(width, height)
	tiles := NewTileGrid(width, height, config.TileSize)
	tr := NewTileRenderer(scene, integ, film, sampling)
	maxTiles := defaultMaxTiles(width, height, config.TileSize)
	pool := NewWorkerPool(tr, config.NumWorkers, maxTiles)

	if logger == nil {
		logger = DefaultLogger{}
	}

	return &Progressive{
		width: width, height: height,
		config:   config,
		tiles:    tiles,
		film:     film,
		renderer: tr,
		pool:     pool,
		logger:   logger,
	}
}

// Film exposes the shared accumulation buffer so a caller can read it
// between passes (for a live preview) or after the final pass.
func (p *Progressive) Film() *Film { return p.film }

// samplesForPass computes the target cumulative per-pixel sample count for
// a given 1-based pass number, ramping from InitialSamples to
// MaxSamplesPerPixel across MaxPasses passes.
func (p *Progressive) samplesForPass(pass int) int {
	if p.config.MaxPasses <= 1 {
		return p.config.MaxSamplesPerPixel
	}
	if pass == 1 {
		return p.config.InitialSamples
	}
	if pass >= p.config.MaxPasses {
		return p.config.MaxSamplesPerPixel
	}
	remaining := p.config.MaxSamplesPerPixel - p.config.InitialSamples
	perPass := remaining / (p.config.MaxPasses - 1)
	return p.config.InitialSamples + (pass-1)*perPass
}

// RenderPass renders every tile once, up to targetSamples cumulative
// samples per pixel, dispatching across the worker pool and waiting for
// all tiles to complete before returning (spec.md §5's "parallel tile
// render" barrier).
func (p *Progressive) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (RenderStats, error) {
	targetSamples := p.samplesForPass(passNumber)
	p.logger.Printf("Pass %d: target %d samples/pixel (%d workers)\n", passNumber, targetSamples, p.pool.NumWorkers())

	for _, tile := range p.tiles {
		p.pool.Submit(TileTask{Tile: tile, TargetSamples: targetSamples})
	}

	total := RenderStats{TotalPixels: p.width * p.height, MaxSamples: targetSamples, MinSamples: targetSamples}
	for i := 0; i < len(p.tiles); i++ {
		result, ok := p.pool.Result()
		if !ok {
			return RenderStats{}, fmt.Errorf("renderer: worker pool closed mid-pass")
		}
		if result.Error != nil {
			return RenderStats{}, result.Error
		}
		total.TotalSamples += result.Stats.TotalSamples
		total.MinSamples = min(total.MinSamples, result.Stats.MinSamples)
		total.MaxSamplesUsed = max(total.MaxSamplesUsed, result.Stats.MaxSamplesUsed)

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				Tile: result.Tile, PassNumber: passNumber,
				TileNumber: i + 1, TotalTiles: len(p.tiles), TotalPasses: p.config.MaxPasses,
			})
		}
	}
	if total.TotalPixels > 0 {
		total.AverageSamples = float64(total.TotalSamples) / float64(total.TotalPixels)
	}
	return total, nil
}

// Render runs every progressive pass with channel-based event delivery,
// honoring ctx cancellation at pass boundaries (spec.md §5's "coarse
// cancellation": a pass already in flight completes its tiles before the
// next pass is checked against ctx).
func (p *Progressive) Render(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer p.pool.Stop()

		p.logger.Printf("Starting progressive render: %d passes\n", p.config.MaxPasses)

		for pass := 1; pass <= p.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			start := time.Now()
			var cb func(TileCompletionResult)
			if options.TileUpdates {
				cb = func(r TileCompletionResult) {
					select {
					case tileChan <- r:
					case <-ctx.Done():
					default:
					}
				}
			}

			stats, err := p.RenderPass(pass, cb)
			if err != nil {
				errChan <- err
				return
			}

			p.logger.Printf("Pass %d done in %v (%.1f samples/pixel)\n", pass, time.Since(start), stats.AverageSamples)

			isLast := pass == p.config.MaxPasses || int(stats.AverageSamples) >= p.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
