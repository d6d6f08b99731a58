package graphics

import "testing"

func TestWaterQuadWindingFacesUp(t *testing.T) {
	verts := waterQuadVertices(25, 960)
	if len(verts) != 18 {
		t.Fatalf("water quad has %d floats, want 18 (two triangles)", len(verts))
	}

	// Both triangles must share the terrain mesh's up-facing winding or
	// the back-face cull removes the water from any viewpoint above it.
	for tri := 0; tri < 18; tri += 9 {
		ax, az := verts[tri], verts[tri+2]
		bx, bz := verts[tri+3], verts[tri+5]
		cx, cz := verts[tri+6], verts[tri+8]
		abx, abz := bx-ax, bz-az
		acx, acz := cx-ax, cz-az
		ny := abz*acx - abx*acz
		if ny <= 0 {
			t.Errorf("water triangle %d winding yields non-upward normal (ny=%v)", tri/9, ny)
		}
	}

	for i := 1; i < 18; i += 3 {
		if verts[i] != 25 {
			t.Errorf("vertex %d height = %v, want water level 25", i/3, verts[i])
		}
	}
}
