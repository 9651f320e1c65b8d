// Package web exposes tracker pose data over HTTP and websocket.
package web

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/enhanced-telerobotics/go-mt4/internal/log"
	"github.com/enhanced-telerobotics/go-mt4/pkg/hub"
	"github.com/enhanced-telerobotics/go-mt4/pkg/mtc"
)

// Tracker is the session surface the server needs. *mtc.Session satisfies
// it; tests substitute a stub.
type Tracker interface {
	Poses(withRotation bool) map[string]mtc.Pose
	Active() bool
	CameraCount() int
	CameraSerial() (int32, bool)
	CameraResolution() (width, height int32, ok bool)
}

var _ Tracker = (*mtc.Session)(nil)

// Server serves pose data from one tracker session.
//
// The session itself performs no locking and concurrent pose requests on it
// are undefined, so the server holds a mutex around every session call: the
// HTTP handlers and the stream loop never overlap on the device.
type Server struct {
	app  *fiber.App
	port string

	mu      sync.Mutex
	tracker Tracker

	poseHub *hub.Hub
}

// NewServer creates a pose server for the given tracker session.
func NewServer(port string, tracker Tracker) *Server {
	s := &Server{
		port:    port,
		tracker: tracker,
		poseHub: hub.New("poses"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-mt4 pose service",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/poses", s.handlePoses)
	api.Get("/status", s.handleStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/poses", websocket.New(s.handlePosesWS))

	s.app = app
	return s
}

// Start starts the server and blocks until Shutdown.
func (s *Server) Start() error {
	log.Info("pose service listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// RunStream runs the pose streaming loop until ctx is cancelled: at every
// tick with at least one websocket client connected, one frame is taken from
// the session and broadcast as JSON.
func (s *Server) RunStream(ctx context.Context, interval time.Duration) {
	go s.poseHub.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.poseHub.ClientCount() == 0 {
				continue
			}
			s.mu.Lock()
			poses := s.tracker.Poses(true)
			s.mu.Unlock()
			s.poseHub.BroadcastJSON(poses)
		}
	}
}
