package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"

	"terrastream/internal/config"
)

// The procedural source is a small graph of composable height nodes
// evaluated recursively. The node set is closed, so dispatch is a plain
// switch instead of an interface call per sample.

type nodeKind uint8

const (
	nodeNoise nodeKind = iota
	nodeFBM
	nodeRidge
	nodeScale
	nodeAdd
	nodeWarp
)

// Axis decorrelation offsets for the two warp channels.
const (
	warpOffsetX = 103.7
	warpOffsetZ = 57.31
)

type graphNode struct {
	kind nodeKind
	a, b *graphNode // inputs (ridge/scale/warp use a; add uses a and b)

	frequency  float64 // noise, fbm base, warp
	octaves    int     // fbm
	lacunarity float64 // fbm
	gain       float32 // fbm
	amplitude  float32 // noise, fbm, ridge, warp (warp: coordinate offset scale)
	scale      float32 // scale
}

func (n *graphNode) sample(p *perlin.Perlin, x, z float32) float32 {
	switch n.kind {
	case nodeNoise:
		return float32(p.Noise2D(float64(x)*n.frequency, float64(z)*n.frequency)) * n.amplitude

	case nodeFBM:
		freq := n.frequency
		amp := float32(1.0)
		sum := float32(0.0)
		for i := 0; i < n.octaves; i++ {
			sum += float32(p.Noise2D(float64(x)*freq, float64(z)*freq)) * amp
			freq *= n.lacunarity
			amp *= n.gain
		}
		return sum * n.amplitude

	case nodeRidge:
		v := n.a.sample(p, x, z)
		r := float32(math.Max(0, 1.0-math.Abs(float64(v))))
		return r * r * n.amplitude

	case nodeScale:
		return n.a.sample(p, x, z) * n.scale

	case nodeAdd:
		return n.a.sample(p, x, z) + n.b.sample(p, x, z)

	case nodeWarp:
		wx := float32(p.Noise2D(float64(x)*n.frequency, float64(z+warpOffsetZ)*n.frequency))
		wz := float32(p.Noise2D(float64(x+warpOffsetX)*n.frequency, float64(z)*n.frequency))
		return n.a.sample(p, x+wx*n.amplitude, z+wz*n.amplitude)

	default:
		return 0
	}
}

// buildGraph wires the fixed composition
//
//	warp( base*0.6 + detail_fbm*0.35 + ridge(base)*0.8 )
//
// Only the scalar parameters come from configuration; the shape of the
// graph is fixed at construction.
func buildGraph(nc config.NoiseConfig) *graphNode {
	base := &graphNode{kind: nodeNoise, frequency: nc.BaseFrequency, amplitude: 1.0}
	ridge := &graphNode{kind: nodeRidge, a: base, amplitude: 0.8}
	baseScaled := &graphNode{kind: nodeScale, a: base, scale: 0.6}
	detail := &graphNode{
		kind:       nodeFBM,
		frequency:  nc.DetailFrequency,
		octaves:    nc.DetailOctaves,
		lacunarity: nc.Lacunarity,
		gain:       float32(nc.Gain),
		amplitude:  0.35,
	}
	combined := &graphNode{
		kind: nodeAdd,
		a:    &graphNode{kind: nodeAdd, a: baseScaled, b: detail},
		b:    ridge,
	}
	return &graphNode{
		kind:      nodeWarp,
		a:         combined,
		frequency: nc.WarpFrequency,
		amplitude: nc.WarpAmplitude,
	}
}

// noiseSource evaluates the height graph. Stateless after construction;
// safe for concurrent reads.
type noiseSource struct {
	perlin    *perlin.Perlin
	root      *graphNode
	amplitude float32
}

func newNoiseSource(nc config.NoiseConfig, postScale float32) *noiseSource {
	return &noiseSource{
		perlin:    perlin.NewPerlin(2, 2, 3, nc.Seed),
		root:      buildGraph(nc),
		amplitude: nc.Amplitude * postScale,
	}
}

func (s *noiseSource) Height(x, z float32) float32 {
	return s.root.sample(s.perlin, x, z) * s.amplitude
}
