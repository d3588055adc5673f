package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// DrawLine draws a line between two screen points with integer Bresenham
// stepping. Endpoints are rounded to the nearest pixel and both are drawn.
// Lines ignore the depth buffer.
func DrawLine(sink PixelSink, c Color, a, b math3d.Vec2) {
	if !a.IsFinite() || !b.IsFinite() {
		return
	}
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
	dx, dy := x1-x0, y1-y0

	if abs(dx) > abs(dy) {
		bresenham(dx, dy, func(major, minor int) {
			sink.SetPixel(x0+major, y0+minor, c)
		})
		return
	}
	bresenham(dy, dx, func(major, minor int) {
		sink.SetPixel(x0+minor, y0+major, c)
	})
}

// bresenham walks |major|+1 steps along the major axis, accumulating the
// minor delta as error. The minor coordinate advances once the doubled
// error passes the major delta; an exact tie advances only toward a
// positive minor delta.
func bresenham(major, minor int, plot func(major, minor int)) {
	n, m := abs(major), abs(minor)
	stepMajor, stepMinor := sign(major), sign(minor)

	j, err := 0, 0
	for i := 0; i <= n; i++ {
		plot(i*stepMajor, j)
		err += m
		if 2*err > n || (2*err == n && minor > 0) {
			j += stepMinor
			err -= n
		}
	}
}

// DrawPolygonOutline draws the closed outline through pts.
func DrawPolygonOutline(sink PixelSink, c Color, pts []math3d.Vec2) {
	if len(pts) < 2 {
		DrawPoints(sink, c, pts)
		return
	}
	for i := range pts {
		DrawLine(sink, c, pts[i], pts[(i+1)%len(pts)])
	}
}

// DrawPoints plots each point as a single pixel.
func DrawPoints(sink PixelSink, c Color, pts []math3d.Vec2) {
	for _, p := range pts {
		if !p.IsFinite() {
			continue
		}
		sink.SetPixel(int(math.Round(p.X)), int(math.Round(p.Y)), c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
