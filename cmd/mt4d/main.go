// mt4d serves MicronTracker marker poses over HTTP and websocket.
//
// It resolves the tracker installation root, opens one session on the
// configured camera, warms the device up, and serves:
//
//	GET /api/poses?rot=true    one frame of poses as JSON
//	GET /api/status            session state
//	WS  /ws/poses              continuous pose stream
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enhanced-telerobotics/go-mt4/internal/config"
	"github.com/enhanced-telerobotics/go-mt4/internal/log"
	"github.com/enhanced-telerobotics/go-mt4/pkg/mtc"
	"github.com/enhanced-telerobotics/go-mt4/pkg/web"
)

const (
	// warmupFrames are grabbed and discarded before serving; the device
	// needs a few frames after the mode change before identification
	// settles.
	warmupFrames = 10

	streamInterval = 50 * time.Millisecond
)

func main() {
	log.Init(os.Getenv("MT4_LOG_LEVEL"))

	sess, err := mtc.Open(mtc.Config{
		MTHome:      config.MTHome(),
		CameraIndex: config.CameraIndex(),
	})
	if err != nil {
		log.Error("cannot open tracker session", "error", err)
		os.Exit(1)
	}
	defer sess.Close()

	sess.WarmUp(warmupFrames)

	srv := web.NewServer(config.Port(), sess)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go srv.RunStream(ctx, streamInterval)
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		srv.Shutdown()
	}()

	if err := srv.Start(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
