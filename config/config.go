// Package config holds the startup settings for the portal viewer.
package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"portal-scene/core"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window core.WindowConfig
	Assets AssetConfig
	Scene  SceneConfig
	Panel  PanelConfig
	Debug  bool // development logger
}

type AssetConfig struct {
	Dir     string // base directory for model and texture
	Model   string // .glb, .gltf or .glb.lz4
	Texture string // baked lighting texture
}

// NodeNames are the model nodes that get dedicated materials.
type NodeNames struct {
	BasePlane   string
	PoleLightA  string
	PoleLightB  string
	PortalLight string
}

type SceneConfig struct {
	Nodes          NodeNames
	FireflyCount   int
	Seed           int64 // 0 picks a time-based seed
	MaxPixelRatio  float32
	CameraFOV      float32 // vertical, degrees
	DampingFactor  float32
	WorkerPoolSize int
}

type PanelConfig struct {
	Addr        string // empty disables the panel
	ClearColor  string
	FireflySize float32
}

func Default() Config {
	win := core.DefaultWindowConfig()
	win.Title = "Portal"
	return Config{
		Window: win,
		Assets: AssetConfig{
			Dir:     "static",
			Model:   "portal.glb",
			Texture: "baked.jpg",
		},
		Scene: SceneConfig{
			Nodes: NodeNames{
				BasePlane:   "Plane001",
				PoleLightA:  "poleLightA",
				PoleLightB:  "poleLightB",
				PortalLight: "portalLight",
			},
			FireflyCount:   30,
			MaxPixelRatio:  2,
			CameraFOV:      45,
			DampingFactor:  0.05,
			WorkerPoolSize: 2,
		},
		Panel: PanelConfig{
			Addr:        "127.0.0.1:5053",
			ClearColor:  "#17172b",
			FireflySize: 100,
		},
	}
}

// BindFlags registers command-line overrides for c on fs.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "window width")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "window height")
	fs.StringVar(&c.Assets.Dir, "assets", c.Assets.Dir, "asset directory")
	fs.StringVar(&c.Assets.Model, "model", c.Assets.Model, "model file inside the asset directory (.glb, .gltf, .glb.lz4)")
	fs.StringVar(&c.Assets.Texture, "texture", c.Assets.Texture, "baked texture inside the asset directory")
	fs.IntVar(&c.Scene.FireflyCount, "fireflies", c.Scene.FireflyCount, "number of fireflies")
	fs.Int64Var(&c.Scene.Seed, "seed", c.Scene.Seed, "firefly random seed (0 = time based)")
	fs.StringVar(&c.Panel.Addr, "panel-addr", c.Panel.Addr, "debug panel listen address (empty disables)")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "verbose development logging")
}

func (c Config) ModelPath() string   { return filepath.Join(c.Assets.Dir, c.Assets.Model) }
func (c Config) TexturePath() string { return filepath.Join(c.Assets.Dir, c.Assets.Texture) }

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Assets.Model == "" || c.Assets.Texture == "" {
		return fmt.Errorf("%w: model and texture are required", ErrInvalid)
	}
	if c.Scene.FireflyCount < 0 {
		return fmt.Errorf("%w: firefly count %d", ErrInvalid, c.Scene.FireflyCount)
	}
	if c.Scene.MaxPixelRatio <= 0 {
		return fmt.Errorf("%w: max pixel ratio %v", ErrInvalid, c.Scene.MaxPixelRatio)
	}
	if c.Scene.DampingFactor <= 0 || c.Scene.DampingFactor > 1 {
		return fmt.Errorf("%w: damping factor %v not in (0, 1]", ErrInvalid, c.Scene.DampingFactor)
	}
	n := c.Scene.Nodes
	if n.BasePlane == "" || n.PoleLightA == "" || n.PoleLightB == "" || n.PortalLight == "" {
		return fmt.Errorf("%w: all material node names are required", ErrInvalid)
	}
	if _, err := core.ParseHex(c.Panel.ClearColor); err != nil {
		return fmt.Errorf("%w: clear color: %v", ErrInvalid, err)
	}
	return nil
}
