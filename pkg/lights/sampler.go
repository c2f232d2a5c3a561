package lights

import (
	"sort"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// UniformSampler picks among lights with equal probability, implementing
// core.LightSampler. Grounded on the teacher's pkg/core LightSampler, which
// does the same uniform-1/N selection.
type UniformSampler struct {
	lights []core.Light
}

func NewUniformSampler(lights []core.Light) *UniformSampler {
	return &UniformSampler{lights: lights}
}

func (u *UniformSampler) SampleLight(sample float64) (core.Light, float64) {
	n := len(u.lights)
	if n == 0 {
		return nil, 0
	}
	idx := int(sample * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return u.lights[idx], 1.0 / float64(n)
}

func (u *UniformSampler) LightPDF(light core.Light) float64 {
	if len(u.lights) == 0 {
		return 0
	}
	return 1.0 / float64(len(u.lights))
}

func (u *UniformSampler) Lights() []core.Light { return u.lights }

// PowerSampler picks lights proportional to their estimated emitted power,
// reducing variance in scenes with one dominant emitter alongside many weak
// ones. Built on a cumulative-distribution binary search, the same
// power-weighted selection strategy used by physically based renderers'
// "power light sampler" component (spec.md §4.C: "a LightSampler interface
// abstracts over uniform and power-weighted selection strategies").
type PowerSampler struct {
	lights []core.Light
	cdf    []float64 // cumulative, cdf[len-1] == 1
	pdf    []float64
	index  map[core.Light]int
}

// NewPowerSampler builds a sampler that picks lights by a cumulative
// distribution over their powers; callers pass one power value per light
// in lights order.
func NewPowerSampler(lights []core.Light, power []float64) *PowerSampler {
	n := len(lights)
	s := &PowerSampler{lights: lights, cdf: make([]float64, n), pdf: make([]float64, n), index: make(map[core.Light]int, n)}
	if n == 0 {
		return s
	}
	total := 0.0
	for _, p := range power {
		if p < 0 {
			p = 0
		}
		total += p
	}
	if total <= 0 {
		// Degenerate: fall back to uniform weights.
		for i := range power {
			power[i] = 1
		}
		total = float64(n)
	}
	running := 0.0
	for i, p := range power {
		running += p / total
		s.cdf[i] = running
		s.pdf[i] = p / total
		s.index[lights[i]] = i
	}
	s.cdf[n-1] = 1.0
	return s
}

func (p *PowerSampler) SampleLight(sample float64) (core.Light, float64) {
	n := len(p.lights)
	if n == 0 {
		return nil, 0
	}
	i := sort.SearchFloat64s(p.cdf, sample)
	if i >= n {
		i = n - 1
	}
	return p.lights[i], p.pdf[i]
}

func (p *PowerSampler) LightPDF(light core.Light) float64 {
	if i, ok := p.index[light]; ok {
		return p.pdf[i]
	}
	return 0
}

func (p *PowerSampler) Lights() []core.Light { return p.lights }
