// Package portal is the portal scene application: materials, asset
// attach, resize handling, debug parameters and the per-frame step.
package portal

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"portal-scene/config"
	"portal-scene/core"
	"portal-scene/scene"
)

// Renderer is the part of the render engine the application drives.
type Renderer interface {
	Render(s *scene.Scene, cam *scene.Camera) error
	SetDrawingBufferSize(width, height int)
	SetClearColor(c core.Color)
	UploadTexture(tex *scene.Texture) error
}

// ModelState tracks the asset future.
type ModelState int

const (
	ModelLoading ModelState = iota
	ModelAttached
	ModelUnavailable
)

func (s ModelState) String() string {
	switch s {
	case ModelLoading:
		return "loading"
	case ModelAttached:
		return "attached"
	case ModelUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("ModelState(%d)", int(s))
}

// Viewport is the output size in window units, the device pixel ratio and
// the framebuffer size in device pixels. A zero framebuffer size means it
// is not known yet.
type Viewport struct {
	Width, Height                       int
	PixelRatio                          float32
	FramebufferWidth, FramebufferHeight int
}

// Frame is what one tick asks the renderer to draw.
type Frame struct {
	Scene   *scene.Scene
	Camera  *scene.Camera
	Elapsed float32
}

// Camera placement and clip planes.
var (
	CameraStart  = mgl32.Vec3{4, 2, 4}
	CameraTarget = mgl32.Vec3{0, 0, 0}
)

const (
	cameraNear = 0.1
	cameraFar  = 100
)

// App is the application context: one scene, one camera, one renderer.
// Every method runs on the render thread.
type App struct {
	Scene     *scene.Scene
	Camera    *scene.Camera
	Controls  *scene.OrbitControls
	Materials *Materials
	Fireflies *scene.Fireflies

	// OnModelState is called on every asset state transition. err is set
	// for ModelUnavailable.
	OnModelState func(state ModelState, err error)

	log      *zap.Logger
	renderer Renderer
	nodes    config.NodeNames

	maxPixelRatio float32
	viewport      Viewport
	pixelRatio    float32

	params  DebugParams
	changes chan DebugChange

	assets   <-chan LoadResult
	state    ModelState
	stateErr error
	model    *scene.Node
}

// NewApp builds the scene, camera, controls, materials and fireflies and
// applies the initial viewport and clear color to r.
func NewApp(cfg config.Config, r Renderer, log *zap.Logger, vp Viewport) (*App, error) {
	clearColor, err := core.ParseHex(cfg.Panel.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("clear color: %w", err)
	}

	seed := cfg.Scene.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	maxRatio := cfg.Scene.MaxPixelRatio
	if maxRatio <= 0 {
		maxRatio = 2
	}
	pr := ClampPixelRatio(vp.PixelRatio, maxRatio)

	aspect := float32(1)
	if vp.Height > 0 {
		aspect = float32(vp.Width) / float32(vp.Height)
	}
	cam := scene.NewCamera(cfg.Scene.CameraFOV, aspect, cameraNear, cameraFar)
	cam.SetPosition(CameraStart)
	cam.LookAt(CameraTarget)

	controls := scene.NewOrbitControls(cam)
	controls.EnableDamping = true
	controls.DampingFactor = cfg.Scene.DampingFactor

	a := &App{
		Scene:         scene.NewScene(),
		Camera:        cam,
		Controls:      controls,
		Materials:     NewMaterials(pr, cfg.Panel.FireflySize),
		Fireflies:     scene.GenerateFireflies(cfg.Scene.FireflyCount, rng),
		log:           log,
		renderer:      r,
		nodes:         cfg.Scene.Nodes,
		maxPixelRatio: maxRatio,
		params: DebugParams{
			FirefliesSize: cfg.Panel.FireflySize,
			ClearColor:    clearColor,
		},
		changes: make(chan DebugChange, 64),
		state:   ModelLoading,
	}

	points := scene.NewNode("Fireflies")
	points.Mesh = a.Fireflies.Mesh()
	points.Material = a.Materials.Fireflies
	a.Scene.AddNode(points)

	r.SetClearColor(clearColor)
	a.Resize(vp)

	log.Info("scene ready",
		zap.Int("fireflies", a.Fireflies.Count()),
		zap.Int64("seed", seed),
		zap.String("clearColor", clearColor.Hex()),
	)
	return a, nil
}

// SetAssets installs the asset future polled by Tick.
func (a *App) SetAssets(future <-chan LoadResult) {
	a.assets = future
}

// ModelState reports whether the model is still loading, attached or
// unavailable, and the reason when unavailable.
func (a *App) ModelState() (ModelState, error) {
	return a.state, a.stateErr
}

// Model is the attached model subtree, nil until ModelAttached.
func (a *App) Model() *scene.Node { return a.model }

func (a *App) Viewport() Viewport   { return a.viewport }
func (a *App) PixelRatio() float32 { return a.pixelRatio }

// Tick advances the scene to elapsed seconds: pending debug edits are
// applied, the asset future is polled, both time uniforms are written and
// the controls take one damped step.
func (a *App) Tick(elapsed float32) Frame {
	a.drainDebug()
	a.pollAssets()

	a.Materials.Fireflies.Uniforms.SetFloat(UniformTime, elapsed)
	a.Materials.Portal.Uniforms.SetFloat(UniformTime, elapsed)

	a.Controls.Update()

	return Frame{Scene: a.Scene, Camera: a.Camera, Elapsed: elapsed}
}

func (a *App) drainDebug() {
	for {
		select {
		case c := <-a.changes:
			a.applyDebug(c)
		default:
			return
		}
	}
}

func (a *App) pollAssets() {
	if a.assets == nil {
		return
	}
	select {
	case res := <-a.assets:
		a.assets = nil
		a.attach(res)
	default:
	}
}

// attach uploads the baked texture, assigns materials and adds the model
// to the scene. Any failure leaves the model and the materials untouched.
func (a *App) attach(res LoadResult) {
	if res.Err != nil {
		a.setState(ModelUnavailable, res.Err)
		return
	}
	// Color data, linearized by the GPU on sampling
	res.Baked.SRGB = true
	if err := a.renderer.UploadTexture(res.Baked); err != nil {
		a.setState(ModelUnavailable, fmt.Errorf("%w: baked texture upload: %w", ErrAssetLoad, err))
		return
	}
	if err := AssignMaterials(res.Model, a.nodes, a.Materials); err != nil {
		a.setState(ModelUnavailable, err)
		return
	}
	a.Materials.AttachBakedTexture(res.Baked)
	a.model = res.Model
	a.Scene.AddNode(res.Model)
	a.setState(ModelAttached, nil)
}

func (a *App) setState(s ModelState, err error) {
	a.state, a.stateErr = s, err
	if err != nil {
		a.log.Error("scene unavailable", zap.Stringer("state", s), zap.Error(err))
	} else {
		a.log.Info("model attached", zap.Stringer("state", s))
	}
	if a.OnModelState != nil {
		a.OnModelState(s, err)
	}
}
