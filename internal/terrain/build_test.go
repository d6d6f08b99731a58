package terrain

import (
	"math"
	"testing"

	"terrastream/internal/config"
)

func testSampler(t *testing.T) *Sampler {
	t.Helper()
	cfg := config.Default().Terrain
	cfg.Mode = config.ModeNoise
	s, err := NewSampler(cfg)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return s
}

func TestBuildChunkBufferSizes(t *testing.T) {
	s := testSampler(t)
	res := 4
	out := buildChunk(s, ChunkCoord{X: 1, Z: -2}, res, 160, true)

	vcount := (res + 1) * (res + 1)
	if len(out.Mesh.Positions) != vcount*3 {
		t.Errorf("positions = %d floats, want %d", len(out.Mesh.Positions), vcount*3)
	}
	if len(out.Mesh.Normals) != vcount*3 {
		t.Errorf("normals = %d floats, want %d", len(out.Mesh.Normals), vcount*3)
	}
	if len(out.Mesh.UVs) != vcount*2 {
		t.Errorf("uvs = %d floats, want %d", len(out.Mesh.UVs), vcount*2)
	}
	if len(out.Mesh.Indices) != res*res*6 {
		t.Errorf("indices = %d, want %d", len(out.Mesh.Indices), res*res*6)
	}
	if len(out.Heights) != vcount {
		t.Errorf("heights = %d, want %d", len(out.Heights), vcount)
	}
	if out.Step != 160.0/float32(res) {
		t.Errorf("step = %v, want %v", out.Step, 160.0/float32(res))
	}
}

func TestBuildChunkDiscardsHeightsWithoutCollider(t *testing.T) {
	s := testSampler(t)
	out := buildChunk(s, ChunkCoord{}, 4, 160, false)
	if out.Heights != nil {
		t.Error("far-tier build retained its height grid")
	}
	if out.ColliderEligible {
		t.Error("collider flag set on far-tier build")
	}
}

func TestBuildChunkMinMax(t *testing.T) {
	s := testSampler(t)
	out := buildChunk(s, ChunkCoord{X: 3, Z: 7}, 8, 160, true)
	for _, h := range out.Heights {
		if h < out.MinH || h > out.MaxH {
			t.Fatalf("height %v outside [%v, %v]", h, out.MinH, out.MaxH)
		}
	}
}

func TestBuildChunkUVCorners(t *testing.T) {
	s := testSampler(t)
	res := 4
	out := buildChunk(s, ChunkCoord{}, res, 160, true)
	row := res + 1
	last := (row*row - 1) * 2
	if out.Mesh.UVs[0] != 0 || out.Mesh.UVs[1] != 0 {
		t.Errorf("uv[0] = (%v,%v), want (0,0)", out.Mesh.UVs[0], out.Mesh.UVs[1])
	}
	if out.Mesh.UVs[last] != 1 || out.Mesh.UVs[last+1] != 1 {
		t.Errorf("uv[last] = (%v,%v), want (1,1)", out.Mesh.UVs[last], out.Mesh.UVs[last+1])
	}
}

func TestBuildChunkHeightsMatchSampler(t *testing.T) {
	s := testSampler(t)
	res := 4
	chunkSize := float32(160)
	coord := ChunkCoord{X: 2, Z: -1}
	out := buildChunk(s, coord, res, chunkSize, true)

	step := chunkSize / float32(res)
	for j := 0; j <= res; j++ {
		for i := 0; i <= res; i++ {
			wx := float32(coord.X)*chunkSize + float32(i)*step
			wz := float32(coord.Z)*chunkSize + float32(j)*step
			want := s.Height(wx, wz)
			got := out.Heights[j*(res+1)+i]
			if got != want {
				t.Fatalf("heights[%d,%d] = %v, want sampler value %v", i, j, got, want)
			}
		}
	}
}

func TestBuildChunkWindingFacesUp(t *testing.T) {
	s := testSampler(t)
	out := buildChunk(s, ChunkCoord{}, 4, 160, true)
	pos := out.Mesh.Positions

	// Every triangle's face normal must have a positive Y component.
	for tri := 0; tri+2 < len(out.Mesh.Indices); tri += 3 {
		a := out.Mesh.Indices[tri] * 3
		b := out.Mesh.Indices[tri+1] * 3
		c := out.Mesh.Indices[tri+2] * 3
		abx := pos[b] - pos[a]
		abz := pos[b+2] - pos[a+2]
		acx := pos[c] - pos[a]
		acz := pos[c+2] - pos[a+2]
		ny := abz*acx - abx*acz
		if ny <= 0 {
			t.Fatalf("triangle %d winding yields non-upward normal (ny=%v)", tri/3, ny)
		}
	}
}

func TestBuildChunkNormalsUnit(t *testing.T) {
	s := testSampler(t)
	out := buildChunk(s, ChunkCoord{X: 5, Z: 5}, 8, 160, true)
	for i := 0; i+2 < len(out.Mesh.Normals); i += 3 {
		n := out.Mesh.Normals[i : i+3]
		l := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		if math.Abs(l-1) > 1e-4 {
			t.Fatalf("normal %d length = %v, want 1", i/3, l)
		}
	}
}
