package renderer

import (
	"runtime"
	"sync"
)

// TileTask is one tile's work for a single progressive pass.
type TileTask struct {
	Tile          *Tile
	TargetSamples int
}

// TileResult is a completed tile's stats, or the error it failed with.
type TileResult struct {
	Tile  *Tile
	Stats RenderStats
	Error error
}

// WorkerPool runs a fixed pool of worker goroutines against a shared task
// queue, one thread per hardware thread by default (spec.md §5: "fixed
// worker pool"). Grounded on the teacher's worker_pool.go, generalized
// from a pool of teacher Raytracer instances to a pool of TileRenderers
// sharing one Film and one Integrator, since the Film (unlike the
// teacher's per-worker Raytracer state) already is the shared,
// concurrency-safe accumulation target.
type WorkerPool struct {
	tasks   chan TileTask
	results chan TileResult
	workers int
	wg      sync.WaitGroup
}

// NewWorkerPool builds a pool of numWorkers workers (0 selects
// runtime.NumCPU()) sharing renderer for tile dispatch.
func NewWorkerPool(renderer *TileRenderer, numWorkers int, maxTiles int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	wp := &WorkerPool{
		tasks:   make(chan TileTask, maxTiles),
		results: make(chan TileResult, maxTiles),
		workers: numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(renderer)
	}
	return wp
}

func (wp *WorkerPool) run(renderer *TileRenderer) {
	defer wp.wg.Done()
	for task := range wp.tasks {
		stats := renderer.RenderTile(task.Tile, task.TargetSamples)
		wp.results <- TileResult{Tile: task.Tile, Stats: stats}
	}
}

// Submit enqueues a tile for rendering. Must not be called after Stop.
func (wp *WorkerPool) Submit(task TileTask) { wp.tasks <- task }

// Result blocks for the next completed tile.
func (wp *WorkerPool) Result() (TileResult, bool) {
	r, ok := <-wp.results
	return r, ok
}

// NumWorkers reports the pool's worker count.
func (wp *WorkerPool) NumWorkers() int { return wp.workers }

// Stop closes the task queue, waits for in-flight tiles to finish (spec.md
// §5's coarse-grained cancellation: "tiles run to completion"), then closes
// the result queue.
func (wp *WorkerPool) Stop() {
	close(wp.tasks)
	wp.wg.Wait()
	close(wp.results)
}

// defaultMaxTiles bounds the task/result channel buffers at the coarsest
// plausible tile size so every tile in a frame can be in flight or queued
// at once without blocking a worker's send.
func defaultMaxTiles(width, height, tileSize int) int {
	if tileSize <= 0 {
		tileSize = 1
	}
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize
	return tilesX * tilesY
}
