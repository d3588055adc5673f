package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// action is a viewer command bound to a key or mouse gesture.
type action int

const (
	actionNone action = iota
	actionQuit
	actionWireframe
	actionCycleFill
	actionCulling
	actionPause
	actionTexture
	actionHUD
	actionReset
	actionYawLeft
	actionYawRight
	actionPitchUp
	actionPitchDown
	actionZoomIn
	actionZoomOut
)

// keyAction maps a key press to its action.
func keyAction(ev uv.KeyPressEvent) action {
	switch {
	case ev.MatchString("escape", "ctrl+c", "q"):
		return actionQuit
	case ev.MatchString("x"):
		return actionWireframe
	case ev.MatchString("f"):
		return actionCycleFill
	case ev.MatchString("c"):
		return actionCulling
	case ev.MatchString("p", "space"):
		return actionPause
	case ev.MatchString("t"):
		return actionTexture
	case ev.MatchString("?", "shift+/"):
		return actionHUD
	case ev.MatchString("r"):
		return actionReset
	case ev.MatchString("a", "left"):
		return actionYawLeft
	case ev.MatchString("d", "right"):
		return actionYawRight
	case ev.MatchString("w", "up"):
		return actionPitchUp
	case ev.MatchString("s", "down"):
		return actionPitchDown
	case ev.Text == "+" || ev.MatchString("="):
		return actionZoomIn
	case ev.MatchString("-", "_"):
		return actionZoomOut
	}
	return actionNone
}

// viewerState is shared between the event goroutine and the render loop.
type viewerState struct {
	mu sync.Mutex

	opts     render.DrawOptions
	textured bool
	showHUD  bool
	rig      *OrbitRig

	width, height int
	resized       bool

	dragging     bool
	lastX, lastY int
}

// viewerFrame is a consistent copy of viewerState for one frame.
type viewerFrame struct {
	Options  render.DrawOptions
	Textured bool
	ShowHUD  bool
	Width    int
	Height   int
	Resized  bool
}

func newViewerState(opts render.DrawOptions, rig *OrbitRig, width, height int) *viewerState {
	return &viewerState{
		opts:     opts,
		textured: true,
		rig:      rig,
		width:    width,
		height:   height,
	}
}

// apply runs a. It reports whether the viewer should quit.
func (s *viewerState) apply(a action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a {
	case actionQuit:
		return true
	case actionWireframe:
		s.opts.DrawWireframe = !s.opts.DrawWireframe
	case actionCycleFill:
		s.opts.TriangleFill = s.opts.TriangleFill.Next()
	case actionCulling:
		s.opts.BackfaceCulling = !s.opts.BackfaceCulling
	case actionPause:
		s.opts.PauseRendering = !s.opts.PauseRendering
	case actionTexture:
		s.textured = !s.textured
	case actionHUD:
		s.showHUD = !s.showHUD
	case actionReset:
		s.rig.Reset()
	case actionYawLeft:
		s.rig.Nudge(-orbitStep, 0)
	case actionYawRight:
		s.rig.Nudge(orbitStep, 0)
	case actionPitchUp:
		s.rig.Nudge(0, orbitStep)
	case actionPitchDown:
		s.rig.Nudge(0, -orbitStep)
	case actionZoomIn:
		s.rig.Zoom(-zoomStep)
	case actionZoomOut:
		s.rig.Zoom(zoomStep)
	}
	return false
}

// handle processes one terminal event. It reports whether the viewer should
// quit.
func (s *viewerState) handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		return s.apply(keyAction(ev))

	case uv.WindowSizeEvent:
		s.mu.Lock()
		s.width, s.height = ev.Width, ev.Height
		s.resized = true
		s.mu.Unlock()

	case uv.MouseClickEvent:
		s.mu.Lock()
		s.dragging = true
		s.lastX, s.lastY = ev.X, ev.Y
		s.mu.Unlock()

	case uv.MouseReleaseEvent:
		s.mu.Lock()
		s.dragging = false
		s.mu.Unlock()

	case uv.MouseMotionEvent:
		s.mu.Lock()
		if s.dragging {
			// Terminal cells are about twice as tall as wide.
			s.rig.Nudge(float64(ev.X-s.lastX)*0.05, float64(ev.Y-s.lastY)*0.1)
			s.lastX, s.lastY = ev.X, ev.Y
		}
		s.mu.Unlock()

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			return s.apply(actionZoomIn)
		case uv.MouseWheelDown:
			return s.apply(actionZoomOut)
		}
	}
	return false
}

// frame advances the orbit rig, moves cam to it and returns a snapshot of
// the toggles. The resize flag is consumed.
func (s *viewerState) frame(cam *render.Camera) (viewerFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rig.Update()
	err := s.rig.Apply(cam)

	f := viewerFrame{
		Options:  s.opts,
		Textured: s.textured,
		ShowHUD:  s.showHUD,
		Width:    s.width,
		Height:   s.height,
		Resized:  s.resized,
	}
	s.resized = false
	return f, err
}

// runViewer renders into the terminal until the user quits or ctx is done.
// Each terminal cell shows two vertically stacked pixels.
func runViewer(ctx context.Context, cfg config.Config, sc *scene) error {
	cam, err := render.NewCamera(cfg.CameraLocation(), cfg.CameraLookAt(), math3d.Up())
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	// Any-event mouse tracking with SGR coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			slog.Error("shutdown terminal", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := newViewerState(cfg.Draw, NewOrbitRig(cfg.Screen.FPS, cam), width, height)
	fb := render.NewFramebuffer(width, height*2)
	r := newRenderer(cfg, sc)
	hud := NewHUD(sc.Name, sc.Mesh.TriangleCount())

	go func() {
		for ev := range term.Events() {
			if state.handle(ev) {
				cancel()
				return
			}
		}
	}()

	slog.Info("viewer started", "cols", width, "rows", height, "fps", cfg.Screen.FPS)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Screen.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("viewer stopped", "fps", hud.FPS())
			return nil
		case <-ticker.C:
		}

		f, err := state.frame(cam)
		if err != nil {
			return fmt.Errorf("orbit camera: %w", err)
		}
		if f.Resized {
			term.Erase()
			if err := term.Resize(f.Width, f.Height); err != nil {
				return fmt.Errorf("resize terminal: %w", err)
			}
			fb.Resize(f.Width, f.Height*2)
			slog.Debug("resized", "cols", f.Width, "rows", f.Height)
		}

		if f.Textured && sc.Texture != nil {
			r.Texture = sc.Texture
		} else {
			r.Texture = nil
		}

		stats := r.DrawMesh(fb, f.Options, sc.Mesh, cam)
		hud.Tick(time.Now())

		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			fb.Draw(scr, area)
			if f.ShowHUD {
				hud.Draw(scr, area, hudStatus{Options: f.Options, Textured: f.Textured, Stats: stats})
			}
		}))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}
