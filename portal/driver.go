package portal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrFrame wraps a render failure inside a tick. The loop stops on it.
var ErrFrame = errors.New("frame failed")

// Clock is read once per frame.
type Clock interface {
	Elapsed() float32
}

// Surface is the window the driver presents to. QuitPressed reports the
// quit key after PollEvents.
type Surface interface {
	ShouldClose() bool
	PollEvents()
	SwapBuffers()
	QuitPressed() bool
}

type drawStatser interface {
	DrawStats() (objects, vertices, triangles, points int)
}

// Driver owns frame timing: each refresh it polls input, ticks the app,
// renders once and presents. With vsync on, SwapBuffers paces the loop.
type Driver struct {
	app     *App
	clock   Clock
	surface Surface
	log     *zap.Logger

	frames     int
	lastReport float32
	quit       bool
}

func NewDriver(app *App, clock Clock, surface Surface, log *zap.Logger) *Driver {
	return &Driver{app: app, clock: clock, surface: surface, log: log}
}

// Run loops until the surface closes or the quit key is pressed (nil),
// ctx is canceled (ctx.Err()) or a frame fails (ErrFrame).
func (d *Driver) Run(ctx context.Context) error {
	for !d.quit && !d.surface.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one frame. A pressed quit key ends the loop without drawing.
func (d *Driver) Step() error {
	d.surface.PollEvents()
	if d.surface.QuitPressed() {
		d.log.Info("quit key pressed")
		d.quit = true
		return nil
	}

	frame := d.app.Tick(d.clock.Elapsed())
	if err := d.app.renderer.Render(frame.Scene, frame.Camera); err != nil {
		return fmt.Errorf("%w at %.3fs: %w", ErrFrame, frame.Elapsed, err)
	}
	d.surface.SwapBuffers()

	d.frames++
	d.report(frame.Elapsed)
	return nil
}

// report logs FPS and draw stats about once a second.
func (d *Driver) report(elapsed float32) {
	window := elapsed - d.lastReport
	if window < 1 {
		return
	}
	fields := []zap.Field{
		zap.Float32("fps", float32(d.frames)/window),
		zap.Stringer("model", d.app.state),
	}
	if s, ok := d.app.renderer.(drawStatser); ok {
		objects, vertices, triangles, points := s.DrawStats()
		fields = append(fields,
			zap.Int("objects", objects),
			zap.Int("vertices", vertices),
			zap.Int("triangles", triangles),
			zap.Int("points", points),
		)
	}
	d.log.Debug("frame stats", fields...)
	d.frames = 0
	d.lastReport = elapsed
}
