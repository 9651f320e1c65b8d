// mt4-poses grabs one frame and prints the identified marker poses as JSON.
//
// Usage:
//
//	mt4-poses [-index 0] [-rot] [-warmup 10] [-mthome /path/to/MTHome]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/enhanced-telerobotics/go-mt4/internal/config"
	"github.com/enhanced-telerobotics/go-mt4/internal/log"
	"github.com/enhanced-telerobotics/go-mt4/pkg/mtc"
)

func main() {
	index := flag.Int("index", config.DefaultCameraIndex, "camera index")
	rot := flag.Bool("rot", false, "include rotation matrices")
	warmup := flag.Int("warmup", 0, "frames to discard before reading")
	mthome := flag.String("mthome", "", "tracker installation root (default: MT_HOME or registry)")
	flag.Parse()

	log.Init("warn")

	home := *mthome
	if home == "" {
		home = config.MTHome()
	}

	sess, err := mtc.Open(mtc.Config{MTHome: home, CameraIndex: *index})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer sess.Close()

	sess.WarmUp(*warmup)

	data, err := json.MarshalIndent(sess.Poses(*rot), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
