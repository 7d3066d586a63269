package portal

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"portal-scene/scene"
)

type stepClock struct {
	times []float32
	i     int
}

func (c *stepClock) Elapsed() float32 {
	t := c.times[c.i]
	if c.i < len(c.times)-1 {
		c.i++
	}
	return t
}

// frameSurface closes after frames presents. With quitAt set, the quit key
// reads as pressed from that poll on.
type frameSurface struct {
	frames int
	quitAt int
	polls  int
	swaps  int
}

func (s *frameSurface) ShouldClose() bool { return s.swaps >= s.frames }
func (s *frameSurface) PollEvents()       { s.polls++ }
func (s *frameSurface) SwapBuffers()      { s.swaps++ }
func (s *frameSurface) QuitPressed() bool { return s.quitAt > 0 && s.polls >= s.quitAt }

func TestDriverRun(t *testing.T) {
	a, r := newTestApp(t)
	clock := &stepClock{times: []float32{0, 0.016, 0.033}}
	surface := &frameSurface{frames: 3}
	a.SetAssets(deliver(LoadResult{
		Model: portalModel(""),
		Baked: scene.NewSolidTexture("baked", 255, 255, 255, 255),
	}))

	if err := NewDriver(a, clock, surface, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state, err := a.ModelState(); state != ModelAttached || err != nil {
		t.Errorf("state: expected attached, got %v (%v)", state, err)
	}
	if r.renders != 3 {
		t.Errorf("renders: expected 3, got %d", r.renders)
	}
	if surface.polls != 3 || surface.swaps != 3 {
		t.Errorf("expected 3 polls and swaps, got %d and %d", surface.polls, surface.swaps)
	}
	if got := a.Materials.Fireflies.Uniforms.Float(UniformTime); got != 0.033 {
		t.Errorf("fireflies uTime: expected 0.033, got %v", got)
	}
	if got := a.Materials.Portal.Uniforms.Float(UniformTime); got != 0.033 {
		t.Errorf("portal uTime: expected 0.033, got %v", got)
	}
}

func TestDriverQuitKey(t *testing.T) {
	a, r := newTestApp(t)
	surface := &frameSurface{frames: 10, quitAt: 2}

	if err := NewDriver(a, &stepClock{times: []float32{0, 0.016, 0.033}}, surface, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.renders != 1 || surface.swaps != 1 {
		t.Errorf("expected 1 frame before quitting, got %d renders and %d swaps", r.renders, surface.swaps)
	}
}

func TestDriverRenderFailure(t *testing.T) {
	a, r := newTestApp(t)
	r.renderErr = errors.New("context lost")
	surface := &frameSurface{frames: 10}

	err := NewDriver(a, &stepClock{times: []float32{1.5}}, surface, zap.NewNop()).Run(context.Background())
	if !errors.Is(err, ErrFrame) || !errors.Is(err, r.renderErr) {
		t.Fatalf("expected ErrFrame wrapping the render error, got %v", err)
	}
	if surface.swaps != 0 {
		t.Error("failed frame was presented")
	}
}

func TestDriverCanceled(t *testing.T) {
	a, r := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDriver(a, &stepClock{times: []float32{0}}, &frameSurface{frames: 10}, zap.NewNop()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if r.renders != 0 {
		t.Errorf("renders: expected 0, got %d", r.renders)
	}
}

func TestDriverReportsOncePerSecond(t *testing.T) {
	a, _ := newTestApp(t)
	clock := &stepClock{times: []float32{0, 0.5, 1.0, 1.5}}
	d := NewDriver(a, clock, &frameSurface{frames: 4}, zap.NewNop())
	if err := d.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d.lastReport != 1.0 || d.frames != 1 {
		t.Errorf("expected a report at 1.0s then 1 frame, got %v and %d", d.lastReport, d.frames)
	}
}
