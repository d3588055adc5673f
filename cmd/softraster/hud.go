package main

import (
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softraster/pkg/render"
)

var (
	hudBg     = color.RGBA{0, 0, 0, 255}
	hudWhite  = color.RGBA{255, 255, 255, 255}
	hudGreen  = color.RGBA{90, 230, 120, 255}
	hudCyan   = color.RGBA{90, 220, 230, 255}
	hudYellow = color.RGBA{240, 220, 90, 255}
)

// hudStatus is the per-frame state the HUD reports.
type hudStatus struct {
	Options  render.DrawOptions
	Textured bool
	Stats    render.FrameStats
}

// HUD renders an overlay with model info and toggle state on the first and
// last terminal rows.
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// Tick counts a frame and refreshes the FPS estimate once per second.
func (h *HUD) Tick(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Draw writes the overlay into area of scr.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st hudStatus) {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	top, bottom := area.Min.Y, area.Max.Y-1

	// Top: FPS left, filename centered, polygon count right.
	putString(scr, area, area.Min.X, top, fmt.Sprintf(" %.0f FPS ", h.fps), uv.Style{Fg: hudGreen, Bg: hudBg})

	title := " " + h.filename + " "
	titleCol := area.Min.X + max((area.Dx()-len(title))/2, 0)
	putString(scr, area, titleCol, top, title, uv.Style{Fg: hudWhite, Bg: hudBg, Attrs: uv.AttrBold})

	polys := fmt.Sprintf(" %d polys ", h.polyCount)
	putString(scr, area, area.Max.X-len(polys), top, polys, uv.Style{Fg: hudCyan, Bg: hudBg, Attrs: uv.AttrBold})

	if bottom == top {
		return
	}

	modes := fmt.Sprintf(" %s X-Ray  F fill: %s  %s Culling  %s Texture  %s Paused ",
		checkbox(st.Options.DrawWireframe),
		st.Options.TriangleFill,
		checkbox(st.Options.BackfaceCulling),
		checkbox(st.Textured),
		checkbox(st.Options.PauseRendering),
	)
	putString(scr, area, area.Min.X, bottom, modes, uv.Style{Fg: hudWhite, Bg: hudBg})

	drawn := fmt.Sprintf(" %d/%d drawn ", st.Stats.Rasterized, st.Stats.Faces)
	if st.Stats.MeshOutside {
		drawn = " out of view "
	}
	putString(scr, area, area.Max.X-len(drawn), bottom, drawn, uv.Style{Fg: hudYellow, Bg: hudBg, Attrs: uv.AttrFaint})
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// putString writes s one cell per rune starting at (x, y), clipped to area.
func putString(scr uv.Screen, area uv.Rectangle, x, y int, s string, style uv.Style) {
	if y < area.Min.Y || y >= area.Max.Y {
		return
	}
	for _, r := range s {
		if x >= area.Max.X {
			return
		}
		if x >= area.Min.X {
			scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		x++
	}
}
