package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/errors"

	"github.com/cgorski/glow-effects"
	"github.com/cgorski/glow-effects/version"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag
)

var (
	logger = logxi.New("glow")

	verbose   = flag.Bool("v", false, "When enabled will print internal logging for this tool")
	sceneFile = flag.String("scene", "scene.yaml", "The YAML file describing the points, palette and effect timing")
	server    = flag.String("server", "localhost:7890", "The host:port of the OPC (fadecandy) server, empty to run without one")
	refresh   = flag.Duration("refresh", 0, "How often the OPC server is updated, defaults to the scene frame interval")
	monitor   = flag.Bool("monitor", false, "When enabled will log a summary of each frame")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       scene → shine → OPC (glow)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "glow plays a twinkle over the LEDs of a scene file and streams the frames to an OPC (fadecandy) server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Each option can also be set from the environment using its upper case name:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "  SCENE=/etc/glow/tree.yaml   scene file")
	fmt.Fprintln(os.Stderr, "  SERVER=fcserver:7890        OPC server")
	fmt.Fprintln(os.Stderr, "  REFRESH=20ms                OPC update interval")
	fmt.Fprintln(os.Stderr, "  MONITOR=true                frame summaries")
	fmt.Fprintln(os.Stderr, "  V=true                      debug logging")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "LOGXI, LOGXI_FORMAT and LOGXI_COLORS control the log output, see https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	// Turn off logging regardless of the default levels if the verbose flag is not enabled.
	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s", os.Args[0], version.BuildTime, version.GitHash))

	if err := run(); err != nil {
		logger.Error(err.Error())
		os.Exit(-1)
	}
}

func run() (err errors.Error) {

	scene, err := glow.LoadScene(*sceneFile)
	if err != nil {
		return err
	}
	logger.Debug("scene loaded", "file", *sceneFile, "points", len(scene.Points()), "fps", scene.FPS, "rgbw", scene.RGBW)

	src, err := scene.Source()
	if err != nil {
		return err
	}

	quitC := make(chan struct{})
	defer close(quitC)

	msgC := make(chan string, 1)
	errorC := make(chan errors.Error, 1)
	runTUI(msgC, errorC, quitC)

	subscribeC := (&glow.Gateway{}).Start(glow.GatewayConfig{
		Source:  src,
		Mapping: scene.Mapping(),
		FPS:     scene.FPS,
		Server:  *server,
		Refresh: *refresh,
	}, errorC, quitC)

	if *monitor {
		go runMonitoring(subscribeC, msgC, time.Second, quitC)
	}

	stopC := make(chan os.Signal, 1)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)
	<-stopC

	logger.Debug("stopping")
	return nil
}
