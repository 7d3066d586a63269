package config

import (
	"errors"
	"flag"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	if c.Scene.FireflyCount != 30 {
		t.Errorf("FireflyCount: expected 30, got %d", c.Scene.FireflyCount)
	}
	if c.Panel.ClearColor != "#17172b" {
		t.Errorf("ClearColor: expected #17172b, got %s", c.Panel.ClearColor)
	}
}

func TestBindFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("portal", flag.ContinueOnError)
	c.BindFlags(fs)
	err := fs.Parse([]string{"-width", "640", "-assets", "/tmp/a", "-model", "portal.glb.lz4", "-seed", "7", "-panel-addr", ""})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Window.Width != 640 || c.Scene.Seed != 7 || c.Panel.Addr != "" {
		t.Errorf("flags not applied: %+v", c)
	}
	if got, want := c.ModelPath(), filepath.Join("/tmp/a", "portal.glb.lz4"); got != want {
		t.Errorf("ModelPath: expected %s, got %s", want, got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"zero width":      func(c *Config) { c.Window.Width = 0 },
		"no model":        func(c *Config) { c.Assets.Model = "" },
		"neg fireflies":   func(c *Config) { c.Scene.FireflyCount = -1 },
		"damping":         func(c *Config) { c.Scene.DampingFactor = 2 },
		"pixel ratio":     func(c *Config) { c.Scene.MaxPixelRatio = 0 },
		"missing node":    func(c *Config) { c.Scene.Nodes.PortalLight = "" },
		"bad clear color": func(c *Config) { c.Panel.ClearColor = "blue" },
	}
	for name, mutate := range tests {
		c := Default()
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}
