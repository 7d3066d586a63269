// Package window hosts the GLFW window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"portal-scene/core"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onResize func(width, height, fbWidth, fbHeight int, pixelRatio float32)
}

// New creates the window with a current OpenGL 4.1 core context.
func New(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)
	if config.Samples > 0 {
		glfw.WindowHint(glfw.Samples, config.Samples)
	}

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w, h := handle.GetSize()
	window := &Window{
		Handle: handle,
		Width:  w,
		Height: h,
		Title:  config.Title,
	}

	// Both callbacks fire from PollEvents on the main thread.
	handle.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		window.notifyResize()
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		window.notifyResize()
	})
	handle.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) {
		window.notifyResize()
	})

	return window, nil
}

// SetResizeCallback registers fn for size and pixel-ratio changes. Sizes
// are in window units, fbWidth and fbHeight in framebuffer pixels.
func (w *Window) SetResizeCallback(fn func(width, height, fbWidth, fbHeight int, pixelRatio float32)) {
	w.onResize = fn
}

func (w *Window) notifyResize() {
	if w.onResize != nil {
		fbw, fbh := w.GetFramebufferSize()
		w.onResize(w.Width, w.Height, fbw, fbh, w.PixelRatio())
	}
}

// PixelRatio is the framebuffer-to-window size ratio, the desktop
// equivalent of a browser's devicePixelRatio.
func (w *Window) PixelRatio() float32 {
	fbw, _ := w.Handle.GetFramebufferSize()
	if w.Width > 0 && fbw > 0 {
		return float32(fbw) / float32(w.Width)
	}
	sx, _ := w.Handle.GetContentScale()
	if sx <= 0 {
		return 1
	}
	return sx
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// SwapBuffers presents the frame; with VSync it blocks until the next
// display refresh.
func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

// QuitPressed reports whether Escape is held.
func (w *Window) QuitPressed() bool {
	return w.IsKeyPressed(KeyEscape)
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

// SetMouseButtonCallback reports button presses and releases.
func (w *Window) SetMouseButtonCallback(cb func(button int, pressed bool)) {
	w.Handle.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		cb(int(b), action == glfw.Press)
	})
}

// SetCursorPosCallback reports cursor movement in window coordinates.
func (w *Window) SetCursorPosCallback(cb func(x, y float64)) {
	w.Handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		cb(x, y)
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const KeyEscape = int(glfw.KeyEscape)
