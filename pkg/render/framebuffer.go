// Package render implements the software rasterization pipeline: camera and
// projection, frustum clipping, the triangle rasterizer with depth testing,
// wireframe drawing, and the per-frame mesh driver.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer holds a row-major color buffer and a matching depth buffer.
// Depth is the camera-space distance (homogeneous w) of the nearest write.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
	depth  []float64
}

// NewFramebuffer creates a framebuffer with the given dimensions, cleared to
// transparent black and +Inf depth.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates both buffers. Contents are discarded.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]color.RGBA, width*height)
	fb.depth = make([]float64, width*height)
	fb.clearDepth()
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.Width, fb.Height
}

// Clear fills the color buffer with c and resets the depth buffer.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
	fb.clearDepth()
}

// clearDepth uses copy-doubling for faster clearing.
func (fb *Framebuffer) clearDepth() {
	n := len(fb.depth)
	if n == 0 {
		return
	}
	fb.depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.depth[i:], fb.depth[:i])
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel sets a pixel at (x, y) to the given color.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// SetPixelDepth writes c at (x, y) if depth is nearer than the stored value.
func (fb *Framebuffer) SetPixelDepth(x, y int, depth float64, c color.RGBA) {
	if !fb.inBounds(x, y) {
		return
	}
	i := y*fb.Width + x
	if !(depth < fb.depth[i]) {
		return
	}
	fb.depth[i] = depth
	fb.Pixels[i] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.inBounds(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Depth returns the stored depth at (x, y), +Inf if nothing was written or
// the position is out of bounds.
func (fb *Framebuffer) Depth(x, y int) float64 {
	if !fb.inBounds(x, y) {
		return math.Inf(1)
	}
	return fb.depth[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
