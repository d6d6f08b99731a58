package terrain

import "math"

// ChunkCoord is the integer (x,z) index of a terrain tile. It is the
// identity key for every registry in the engine.
type ChunkCoord struct {
	X, Z int
}

// ChunkAt returns the coordinate of the chunk containing world (x,z).
func ChunkAt(x, z, chunkSize float32) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(float64(x / chunkSize))),
		Z: int(math.Floor(float64(z / chunkSize))),
	}
}

// DistSq is the squared chunk-index distance between two coordinates.
func (c ChunkCoord) DistSq(o ChunkCoord) int {
	dx := c.X - o.X
	dz := c.Z - o.Z
	return dx*dx + dz*dz
}

// Chebyshev is the chessboard distance between two coordinates.
func (c ChunkCoord) Chebyshev(o ChunkCoord) int {
	dx := absInt(c.X - o.X)
	dz := absInt(c.Z - o.Z)
	return max(dx, dz)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
