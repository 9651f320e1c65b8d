package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/enhanced-telerobotics/go-mt4/pkg/hub"
)

// StatusResponse describes the session for the status endpoint.
type StatusResponse struct {
	Active        bool  `json:"active"`
	CameraCount   int   `json:"camera_count"`
	Serial        int32 `json:"serial,omitempty"`
	Width         int32 `json:"width,omitempty"`
	Height        int32 `json:"height,omitempty"`
	StreamClients int   `json:"stream_clients"`
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// handlePoses returns one frame of identified marker poses. The rot query
// parameter ("true"/"false", default false) selects whether rotation
// matrices are included.
func (s *Server) handlePoses(c *fiber.Ctx) error {
	withRotation := strings.EqualFold(c.Query("rot", "false"), "true")

	s.mu.Lock()
	poses := s.tracker.Poses(withRotation)
	s.mu.Unlock()

	return c.JSON(poses)
}

// handleStatus returns the session state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.Lock()
	resp := StatusResponse{
		Active:      s.tracker.Active(),
		CameraCount: s.tracker.CameraCount(),
	}
	if serial, ok := s.tracker.CameraSerial(); ok {
		resp.Serial = serial
	}
	if width, height, ok := s.tracker.CameraResolution(); ok {
		resp.Width, resp.Height = width, height
	}
	s.mu.Unlock()

	resp.StreamClients = s.poseHub.ClientCount()
	return c.JSON(resp)
}

// handlePosesWS upgrades to a websocket and streams pose frames until the
// client disconnects.
func (s *Server) handlePosesWS(conn *websocket.Conn) {
	client := hub.NewClient(s.poseHub, conn)
	client.Run()
}
