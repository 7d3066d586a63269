package portal

import (
	"go.uber.org/zap"

	"portal-scene/core"
)

// DebugParam names a live-tunable value.
type DebugParam string

const (
	ParamFirefliesSize DebugParam = "firefliesSize"
	ParamClearColor    DebugParam = "clearColor"
)

// Slider bounds for ParamFirefliesSize.
const (
	FirefliesSizeMin  = 0
	FirefliesSizeMax  = 250
	FirefliesSizeStep = 1
)

// DebugParams are the current values shown on the debug panel.
type DebugParams struct {
	FirefliesSize float32
	ClearColor    core.Color
}

// DebugChange is one edit. Size is read for ParamFirefliesSize, Color for
// ParamClearColor.
type DebugChange struct {
	Param DebugParam
	Size  float32
	Color core.Color
}

// SendDebug queues a change for the next Tick. It does not block; false
// means the queue is full and the change was dropped.
func (a *App) SendDebug(c DebugChange) bool {
	select {
	case a.changes <- c:
		return true
	default:
		return false
	}
}

// DebugChanges is the queue the panel writes to.
func (a *App) DebugChanges() chan<- DebugChange { return a.changes }

func (a *App) DebugParams() DebugParams { return a.params }

// applyDebug mutates exactly the state the parameter controls.
func (a *App) applyDebug(c DebugChange) {
	switch c.Param {
	case ParamFirefliesSize:
		a.params.FirefliesSize = c.Size
		a.Materials.Fireflies.Uniforms.SetFloat(UniformSize, c.Size)
	case ParamClearColor:
		a.params.ClearColor = c.Color
		a.renderer.SetClearColor(c.Color)
	default:
		a.log.Warn("unknown debug parameter ignored", zap.String("param", string(c.Param)))
	}
}
