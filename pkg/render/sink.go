package render

// PixelSink is the raster target the pipeline draws into. It owns a color
// buffer and a depth buffer of the same size. Writes outside the buffer are
// ignored.
type PixelSink interface {
	// Size returns the buffer dimensions in pixels.
	Size() (width, height int)

	// Clear fills the color buffer with c and resets every depth to +Inf.
	Clear(c Color)

	// SetPixel writes a color without consulting the depth buffer.
	SetPixel(x, y int, c Color)

	// SetPixelDepth writes c and records depth only if depth is strictly
	// less than the stored depth. Equal depth keeps the earlier write.
	SetPixelDepth(x, y int, depth float64, c Color)
}

var _ PixelSink = (*Framebuffer)(nil)
