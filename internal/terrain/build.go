package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds flat vertex buffers ready for an external renderer.
// Positions are chunk-local; the record's origin places them in the world.
type Mesh struct {
	Positions []float32 // 3 per vertex (local_x, height, local_z)
	Normals   []float32 // 3 per vertex
	UVs       []float32 // 2 per vertex
	Indices   []uint32
}

// BuildResult is everything a finished chunk build hands back to the
// control thread. The producing worker owns it until the result channel
// transfers it, exactly once.
type BuildResult struct {
	Coord            ChunkCoord
	Res              int
	Step             float32
	Mesh             Mesh
	Heights          []float32 // (res+1)^2 row-major; nil unless collider-eligible
	MinH, MaxH       float32
	ColliderEligible bool
}

// buildChunk samples a (res+1)x(res+1) grid and assembles mesh buffers.
// Pure arithmetic over the shared read-only sampler; builds for disjoint
// coordinates run fully in parallel.
func buildChunk(s *Sampler, coord ChunkCoord, res int, chunkSize float32, collider bool) BuildResult {
	step := chunkSize / float32(res)
	row := res + 1
	vcount := row * row

	heights := make([]float32, 0, vcount)
	originX := float32(coord.X) * chunkSize
	originZ := float32(coord.Z) * chunkSize

	minH := float32(math.MaxFloat32)
	maxH := float32(-math.MaxFloat32)
	for j := 0; j <= res; j++ {
		for i := 0; i <= res; i++ {
			h := s.Height(originX+float32(i)*step, originZ+float32(j)*step)
			heights = append(heights, h)
			minH = min(minH, h)
			maxH = max(maxH, h)
		}
	}

	positions := make([]float32, 0, vcount*3)
	normals := make([]float32, 0, vcount*3)
	uvs := make([]float32, 0, vcount*2)
	for j := 0; j <= res; j++ {
		for i := 0; i <= res; i++ {
			h := heights[j*row+i]

			// Border-clamped central differences over the grid itself.
			il := max(i-1, 0)
			ir := min(i+1, res)
			jd := max(j-1, 0)
			ju := min(j+1, res)
			hl := heights[j*row+il]
			hr := heights[j*row+ir]
			hd := heights[jd*row+i]
			hu := heights[ju*row+i]
			n := normalizeOrZero(mgl32.Vec3{hl - hr, 2 * step, hd - hu})

			positions = append(positions, float32(i)*step, h, float32(j)*step)
			normals = append(normals, n[0], n[1], n[2])
			uvs = append(uvs, float32(i)/float32(res), float32(j)/float32(res))
		}
	}

	// Two triangles per quad, one consistent winding for the whole mesh
	// (front faces point up).
	indices := make([]uint32, 0, res*res*6)
	for j := 0; j < res; j++ {
		for i := 0; i < res; i++ {
			i0 := uint32(j*row + i)
			i1 := i0 + 1
			i2 := i0 + uint32(row)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}

	result := BuildResult{
		Coord:            coord,
		Res:              res,
		Step:             step,
		Mesh:             Mesh{Positions: positions, Normals: normals, UVs: uvs, Indices: indices},
		MinH:             minH,
		MaxH:             maxH,
		ColliderEligible: collider,
	}
	if collider {
		result.Heights = heights
	}
	return result
}
