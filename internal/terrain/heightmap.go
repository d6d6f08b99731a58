package terrain

import (
	"fmt"
	"image"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
)

// Heightmap is an immutable single-channel raster. It is built once at
// sampler construction and read concurrently by build workers without
// locking.
type Heightmap struct {
	width  int
	height int
	data   []byte // red channel, row-major
}

// LoadHeightmap reads a PNG or BMP image and keeps its red channel.
// A missing or undecodable file is a construction failure; there is no
// fallback terrain.
func LoadHeightmap(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			data = append(data, byte(r>>8))
		}
	}
	return &Heightmap{width: w, height: h, data: data}, nil
}

// Size returns the raster dimensions in pixels.
func (hm *Heightmap) Size() (w, h int) { return hm.width, hm.height }

// SampleLinear bilinearly interpolates the raster at pixel-space (u,v) and
// returns a value in [0,1]. Coordinates outside the raster yield 0.
func (hm *Heightmap) SampleLinear(u, v float32) float32 {
	if u < 0 || v < 0 || u > float32(hm.width-1) || v > float32(hm.height-1) {
		return 0
	}
	x0 := int(math.Floor(float64(u)))
	z0 := int(math.Floor(float64(v)))
	x1 := min(x0+1, hm.width-1)
	z1 := min(z0+1, hm.height-1)
	tx := u - float32(x0)
	tz := v - float32(z0)

	idx := func(x, z int) int { return z*hm.width + x }
	r00 := float32(hm.data[idx(x0, z0)])
	r10 := float32(hm.data[idx(x1, z0)])
	r01 := float32(hm.data[idx(x0, z1)])
	r11 := float32(hm.data[idx(x1, z1)])

	a := r00 + (r10-r00)*tx
	b := r01 + (r11-r01)*tx
	return (a + (b-a)*tz) / 255.0
}
