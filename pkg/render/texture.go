package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// TextureSampler is the read-only texel source FillTextured samples.
// Row 0 is the top of the image.
type TextureSampler interface {
	Dimensions() (width, height int)
	Texel(x, y int) Color
}

// Texture holds a 2D image for texture mapping.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

var _ TextureSampler = (*Texture)(nil)

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a PNG, JPEG, BMP, TIFF or WebP file.
// Images larger than maxSize on either side are downsampled; zero keeps the
// source resolution.
func LoadTexture(path string, maxSize int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return TextureFromImage(img, maxSize), nil
}

// TextureFromImage creates a texture from an image.Image. When maxSize is
// positive and the image exceeds it, the image is scaled down, keeping its
// aspect ratio.
func TextureFromImage(img image.Image, maxSize int) *Texture {
	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}

	tex := NewTexture(width, height)
	for y := range height {
		row := dst.Pix[y*dst.Stride:]
		for x := range width {
			p := row[x*4 : x*4+4]
			tex.Pixels[y*width+x] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return tex
}

// fitWithin scales w×h down so neither side exceeds limit.
func fitWithin(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	checkSize = max(checkSize, 1)
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// Dimensions returns the texture size in texels.
func (t *Texture) Dimensions() (int, int) {
	return t.Width, t.Height
}

// Texel returns the texel at (x, y), or transparent black out of range.
func (t *Texture) Texel(x, y int) Color {
	return t.GetPixel(x, y)
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}
