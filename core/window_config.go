package core

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
	Samples    int // MSAA samples; 0 disables multisampling
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Portal",
		Resizable: true,
		VSync:     true,
		Samples:   4,
	}
}
