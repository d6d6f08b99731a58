package terrain

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int, value uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: value, G: 0, B: 0, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "hm.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return path
}

func TestLoadHeightmapMissingFileIsFatal(t *testing.T) {
	_, err := LoadHeightmap("does/not/exist.png")
	if err == nil {
		t.Fatal("expected error for missing heightmap")
	}
}

func TestLoadHeightmapReadsRedChannel(t *testing.T) {
	path := writeTestPNG(t, 4, 4, 200)
	hm, err := LoadHeightmap(path)
	if err != nil {
		t.Fatalf("LoadHeightmap: %v", err)
	}
	w, h := hm.Size()
	if w != 4 || h != 4 {
		t.Errorf("size = %dx%d, want 4x4", w, h)
	}
	if got := hm.SampleLinear(1.5, 2.5); got != 200.0/255.0 {
		t.Errorf("SampleLinear = %v, want %v", got, 200.0/255.0)
	}
}

func TestSampleLinearBilinear(t *testing.T) {
	// 2x2 raster with distinct corners; midpoint must be the average.
	hm := &Heightmap{width: 2, height: 2, data: []byte{0, 100, 200, 255}}

	cases := []struct {
		u, v float32
		want float32
	}{
		{0, 0, 0},
		{1, 0, 100.0 / 255.0},
		{0, 1, 200.0 / 255.0},
		{1, 1, 1.0},
		{0.5, 0, 50.0 / 255.0},
		{0.5, 0.5, (0 + 100 + 200 + 255) / 4.0 / 255.0},
	}
	for _, c := range cases {
		got := hm.SampleLinear(c.u, c.v)
		if diff := got - c.want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("SampleLinear(%v,%v) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestSampleLinearOutsideRasterIsZero(t *testing.T) {
	hm := &Heightmap{width: 2, height: 2, data: []byte{255, 255, 255, 255}}
	for _, uv := range [][2]float32{{-0.1, 0}, {0, -0.1}, {1.1, 0}, {0, 1.1}} {
		if got := hm.SampleLinear(uv[0], uv[1]); got != 0 {
			t.Errorf("SampleLinear(%v,%v) = %v, want 0", uv[0], uv[1], got)
		}
	}
}
