package core

import (
	"math"
	"math/rand"
)

// StratifiedSampler realizes the sampler contract of spec.md §4.B: a
// precomputed per-dimension seed sequence, blue-noise dithering on the
// first BlueNoiseLayers dimensions, xorshift-salted mixing beyond that,
// and a uniform-RNG fallback once the sequence is exhausted so a caller
// can never block.
//
// Sample-sequence generation itself (Halton, Sobol, ...) is an external
// collaborator per spec.md §1; HaltonSeedSequence below is a minimal,
// self-contained implementation of that collaborator so the sampler has
// something concrete to consume.
type StratifiedSampler struct {
	seeds []float64
	dim   int
	x, y  int
	salt  uint32
	rng   *rand.Rand
}

// NewStratifiedSampler builds a sampler for one pixel sample from a
// precomputed seed sequence (one coordinate per dimension) and an RNG seed
// used only once the sequence is exhausted.
func NewStratifiedSampler(seeds []float64, rngSeed uint64) *StratifiedSampler {
	return &StratifiedSampler{
		seeds: seeds,
		rng:   rand.New(rand.NewSource(int64(rngSeed))),
	}
}

// ResetPixel hashes pixel coordinates into a per-pixel salt and resets the
// dimension counter (spec.md §4.B).
func (s *StratifiedSampler) ResetPixel(x, y int) {
	s.x, s.y = x, y
	s.salt = hash32(uint32(x)*73856093 ^ uint32(y)*19349663)
	s.dim = 0
}

func (s *StratifiedSampler) Get1D() float64 {
	if s.dim >= len(s.seeds) {
		return s.rng.Float64()
	}
	base := s.seeds[s.dim]
	var v float64
	if s.dim < BlueNoiseLayers {
		bx, by := s.x%blueNoiseTileSize, s.y%blueNoiseTileSize
		if bx < 0 {
			bx += blueNoiseTileSize
		}
		if by < 0 {
			by += blueNoiseTileSize
		}
		bn := blueNoiseTexture[bx][by][s.dim]
		v = math.Mod(base+float64(bn)*math.Exp2(-16), 1.0)
	} else {
		salted := xorshift32(s.salt + uint32(s.dim))
		v = math.Mod(base+float64(salted)/4294967296.0, 1.0)
	}
	s.dim++
	if v < 0 {
		v += 1
	}
	return v
}

func (s *StratifiedSampler) Get2D() Vec2 { return Vec2{s.Get1D(), s.Get1D()} }
func (s *StratifiedSampler) Get3D() Vec3 { return Vec3{s.Get1D(), s.Get1D(), s.Get1D()} }

func (s *StratifiedSampler) Clone(seed uint64) Sampler {
	return &StratifiedSampler{
		seeds: s.seeds,
		rng:   rand.New(rand.NewSource(int64(seed))),
	}
}

// HaltonSeedSequence generates a per-dimension seed sequence for sample
// index i using the radical-inverse in successive prime bases, the
// standard low-discrepancy construction spec.md §1 names as an external
// collaborator ("Halton").
func HaltonSeedSequence(sampleIndex, dims int) []float64 {
	out := make([]float64, dims)
	for d := 0; d < dims; d++ {
		out[d] = radicalInverse(sampleIndex, haltonPrime(d))
	}
	return out
}

func radicalInverse(n, base int) float64 {
	inv := 1.0 / float64(base)
	result, f := 0.0, inv
	for n > 0 {
		result += float64(n%base) * f
		n /= base
		f *= inv
	}
	return result
}

var primeTable = [...]int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

func haltonPrime(d int) int {
	if d < len(primeTable) {
		return primeTable[d]
	}
	return primeTable[len(primeTable)-1] + (d-len(primeTable)+1)*2 // coarse fallback, stays odd
}

// UniformSampler is the always-available fallback sampler of spec.md §4.B:
// a bare uniform RNG with no stratification. Used when a caller needs a
// Sampler without per-frame seed-sequence bookkeeping (e.g. unit tests,
// the light-tracer's light-subpath start before a pixel is known).
type UniformSampler struct {
	rng *rand.Rand
}

func NewUniformSampler(seed uint64) *UniformSampler {
	return &UniformSampler{rng: rand.New(rand.NewSource(int64(seed)))}
}

func (u *UniformSampler) Get1D() float64    { return u.rng.Float64() }
func (u *UniformSampler) Get2D() Vec2       { return Vec2{u.rng.Float64(), u.rng.Float64()} }
func (u *UniformSampler) Get3D() Vec3       { return Vec3{u.rng.Float64(), u.rng.Float64(), u.rng.Float64()} }
func (u *UniformSampler) ResetPixel(_, _ int) {}
func (u *UniformSampler) Clone(seed uint64) Sampler { return NewUniformSampler(seed) }
