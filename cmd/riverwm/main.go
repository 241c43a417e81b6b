// Command riverwm connects to a River compositor, binds the window
// management, xkb-bindings, and layer-shell extensions, and runs the
// tiling window manager core until told to quit or the connection drops.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pinpox/river-pwm/internal/config"
	"github.com/pinpox/river-pwm/internal/wm"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Default()

	var (
		socket    = flag.String("socket", "", "Wayland socket name (defaults to $WAYLAND_DISPLAY)")
		logLevel  = flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
		modShift  = flag.Bool("mod-shift", false, "use Shift as the primary binding modifier instead of Super")
		modAlt    = flag.Bool("mod-alt", false, "use Alt as the primary binding modifier instead of Super")
		modCtrl   = flag.Bool("mod-ctrl", false, "use Ctrl as the primary binding modifier instead of Super")
		terminal  = flag.String("terminal", cfg.TerminalCmd, "command spawned by the spawn-terminal action")
		launcher  = flag.String("launcher", cfg.LauncherCmd, "command spawned by the spawn-launcher action")
		outerGap  = flag.Int("outer-gap", cfg.OuterGap, "pixels between tiled windows and the output edge")
		innerGap  = flag.Int("inner-gap", cfg.InnerGap, "pixels between tiled windows")
		tabHeight = flag.Int("tab-height", cfg.TabHeight, "pixel height of the tabbed layout's tab bar")
	)
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "riverwm: invalid -log-level %q: %v\n", *logLevel, err)
		return 1
	}
	log.SetLevel(level)

	switch {
	case *modShift:
		cfg.Modifier = config.ModShift
	case *modAlt:
		cfg.Modifier = config.ModAlt
	case *modCtrl:
		cfg.Modifier = config.ModCtrl
	}
	cfg.TerminalCmd = *terminal
	cfg.LauncherCmd = *launcher
	cfg.OuterGap = *outerGap
	cfg.InnerGap = *innerGap
	cfg.TabHeight = *tabHeight

	mgr := wm.New(cfg, log)
	if err := mgr.Connect(*socket); err != nil {
		return reportFatal(log, err)
	}
	defer mgr.Close()

	if err := mgr.Bootstrap(); err != nil {
		return reportFatal(log, err)
	}

	log.Info("riverwm connected and bootstrapped, entering the run loop")
	return mgr.Run()
}

func reportFatal(log *logrus.Logger, err error) int {
	if f, ok := err.(interface{ ExitCode() int }); ok {
		log.WithError(err).Error("startup failed")
		return f.ExitCode()
	}
	log.WithError(err).Error("startup failed")
	return 1
}
