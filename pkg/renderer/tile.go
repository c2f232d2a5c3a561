package renderer

import (
	"image"
	"math/rand"
)

// Tile is one independent unit of work in spec.md §5's scheduling model: a
// rectangular, non-overlapping region of the film that a single worker
// claims, samples, and writes to completion without coordinating with any
// other tile.
type Tile struct {
	ID     int
	Bounds image.Rectangle
	Random *rand.Rand
}

// NewTile builds a tile with a deterministic per-tile RNG, so re-rendering
// the same frame with the same tile grid reproduces the same image
// regardless of which worker happens to claim which tile (spec.md §5's
// ordering guarantee, "same image regardless of thread count").
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(int64(id) + 42)),
	}
}

// NewTileGrid partitions a width x height image into a grid of tileSize
// tiles, the edge tiles clipped to the image bounds.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	id := 0
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			x1, y1 := min(x0+tileSize, width), min(y0+tileSize, height)
			tiles = append(tiles, NewTile(id, image.Rect(x0, y0, x1, y1)))
			id++
		}
	}
	return tiles
}
