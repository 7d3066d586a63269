// Package debugpanel serves a small web page for tuning the scene while it
// runs. Edits are validated, queued to the render thread and broadcast to
// every open page over a websocket.
package debugpanel

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"portal-scene/portal"
)

//go:embed static/index.html
var indexHTML []byte

// Sink receives accepted edits. SendDebug must not block; false means
// the change was not queued.
type Sink interface {
	SendDebug(c portal.DebugChange) bool
}

type Server struct {
	echo     *echo.Echo
	sink     Sink
	log      *zap.Logger
	hub      *hub
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	params Params
}

func New(sink Sink, initial portal.DebugParams, log *zap.Logger) *Server {
	s := &Server{
		echo:   echo.New(),
		sink:   sink,
		log:    log,
		hub:    newHub(log),
		params: paramsFrom(initial),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.requestLogger)

	e.GET("/", s.index)
	e.GET("/api/params", s.getParams)
	e.PUT("/api/params/firefliesSize", s.putFirefliesSize)
	e.PUT("/api/params/clearColor", s.putClearColor)
	e.GET("/ws", s.serveWebsocket)
	return s
}

// Handler exposes the routes for embedding or tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	s.log.Info("debug panel listening", zap.String("url", "http://"+addr+"/"))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.echo.Shutdown(ctx)
}

// Params returns the last accepted values.
func (s *Server) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *Server) index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexHTML)
}

func (s *Server) getParams(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Params())
}

func (s *Server) putFirefliesSize(c echo.Context) error {
	var req struct {
		Value *float64 `json:"value"`
	}
	if err := c.Bind(&req); err != nil || req.Value == nil {
		return badRequest(c, "body must be {\"value\": <number>}")
	}
	size, err := ParseFirefliesSize(*req.Value)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return s.submit(c, portal.DebugChange{Param: portal.ParamFirefliesSize, Size: size}, func(p *Params) {
		p.FirefliesSize = size
	})
}

func (s *Server) putClearColor(c echo.Context) error {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body must be {\"value\": \"#rrggbb\"}")
	}
	color, err := ParseClearColor(req.Value)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return s.submit(c, portal.DebugChange{Param: portal.ParamClearColor, Color: color}, func(p *Params) {
		p.ClearColor = color.Hex()
	})
}

// submit queues change and, once queued, records and broadcasts it. mu is
// held throughout so the stored params follow the queue order.
func (s *Server) submit(c echo.Context, change portal.DebugChange, update func(*Params)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sink.SendDebug(change) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "render loop is busy, retry",
		})
	}
	update(&s.params)
	p := s.params

	s.log.Debug("debug param changed",
		zap.String("param", string(change.Param)),
		zap.Float32("firefliesSize", p.FirefliesSize),
		zap.String("clearColor", p.ClearColor),
	)
	s.hub.broadcast(p)
	return c.JSON(http.StatusOK, p)
}

func (s *Server) serveWebsocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}
	s.hub.add(conn, s.Params())
	defer s.hub.remove(conn)

	// Pages never send; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Debug("panel request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().Status),
			zap.Duration("took", time.Since(start)),
		)
		return nil
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
