// Command portal opens a window showing the baked portal scene with
// animated portal light and fireflies. A debug panel is served on
// -panel-addr for tuning the fireflies size and the clear color.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"portal-scene/config"
	"portal-scene/core"
	"portal-scene/debugpanel"
	"portal-scene/internal/logger"
	"portal-scene/portal"
	"portal-scene/renderer"
	"portal-scene/scene"
	"portal-scene/window"
)

func main() {
	cfg := config.Default()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("portal stopped", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	win, err := window.New(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	engine, err := renderer.NewRenderEngine(log)
	if err != nil {
		return fmt.Errorf("render engine: %w", err)
	}
	defer engine.Destroy()

	fbw, fbh := win.GetFramebufferSize()
	app, err := portal.NewApp(cfg, engine, log, portal.Viewport{
		Width:             win.Width,
		Height:            win.Height,
		PixelRatio:        win.PixelRatio(),
		FramebufferWidth:  fbw,
		FramebufferHeight: fbh,
	})
	if err != nil {
		return err
	}
	app.OnModelState = func(state portal.ModelState, err error) {
		if state == portal.ModelUnavailable {
			win.SetTitle(fmt.Sprintf("%s (scene unavailable: %v)", cfg.Window.Title, err))
		}
	}
	bindInput(win, app)

	loader := portal.NewLoader(cfg.Scene.WorkerPoolSize, log)
	defer loader.Close()
	app.SetAssets(loader.Load(cfg.ModelPath(), cfg.TexturePath()))

	var panel *debugpanel.Server
	if cfg.Panel.Addr != "" {
		panel = debugpanel.New(app, app.DebugParams(), log)
		go func() {
			if err := panel.Start(cfg.Panel.Addr); err != nil {
				log.Error("debug panel failed", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := portal.NewDriver(app, core.NewClock(), win, log).Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if panel != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := panel.Shutdown(shutdownCtx); err != nil {
			log.Warn("debug panel shutdown", zap.Error(err))
		}
	}
	return runErr
}

// bindInput routes window events to the app. Callbacks fire from
// PollEvents on the render thread.
func bindInput(win *window.Window, app *portal.App) {
	win.SetResizeCallback(func(width, height, fbWidth, fbHeight int, pixelRatio float32) {
		app.Resize(portal.Viewport{
			Width:             width,
			Height:            height,
			PixelRatio:        pixelRatio,
			FramebufferWidth:  fbWidth,
			FramebufferHeight: fbHeight,
		})
	})
	win.SetMouseButtonCallback(func(button int, pressed bool) {
		app.Controls.HandleButton(scene.PointerButton(button), pressed)
	})
	win.SetCursorPosCallback(app.Controls.HandleCursor)
	win.SetScrollCallback(func(_, yoff float64) {
		app.Controls.HandleScroll(yoff)
	})
}
