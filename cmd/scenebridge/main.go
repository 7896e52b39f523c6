/*
Plays scene containers through the bridge at a fixed step and reports
frame statistics. Scene files changed on disk are reloaded when
assets.watch is enabled.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine"
	"github.com/spaghettifunk/scenebridge/engine/config"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/scene"
)

type options struct {
	configFile string
	frames     int
	fps        int
	export     string
	paths      []string
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "Path to a .toml or .yaml config file")
	flag.IntVar(&opts.frames, "frames", 0, "Stop after this many frames (default: run until interrupted)")
	flag.IntVar(&opts.fps, "fps", 60, "Update rate")
	flag.StringVar(&opts.export, "export", "", "Write the last frame of every scene into this directory")
	flag.Parse()
	opts.paths = flag.Args()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run owns the engine for the whole session. Every return path, interrupts
// included, shuts it down.
func run(opts options) (err error) {
	cfg := config.Default()
	if opts.configFile != "" {
		if cfg, err = config.Load(opts.configFile); err != nil {
			return errors.Wrap(err, "loading config")
		}
	}
	if opts.fps < 1 {
		return errors.New("-fps must be at least 1")
	}

	e := engine.New(cfg)
	if err := e.Initialize(); err != nil {
		return errors.Wrap(err, "initializing")
	}
	defer func() {
		if serr := e.Shutdown(); serr != nil && err == nil {
			err = serr
		}
	}()

	scenes := map[string]*scene.Scene{}
	for _, path := range opts.paths {
		s, err := e.LoadFile(path)
		if err != nil {
			continue
		}
		scenes[path] = s
		core.LogInfo("loaded %s: %d bones, %d state machines, animations %v", path, len(s.Bones()), len(s.StateMachines()), s.Animations())
	}
	if len(scenes) == 0 {
		return errors.New("no scene could be loaded")
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	step := time.Second / time.Duration(opts.fps)
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	uptime := core.NewClock()
	uptime.Start()

loop:
	for frame := 0; opts.frames == 0 || frame < opts.frames; {
		select {
		case <-sigCh:
			break loop
		case path := <-e.Reloads():
			reload(e, scenes, path)
		case <-report.C:
			ok, failed := e.Metrics().Counts()
			core.LogInfo("up %s, avg update %s, %d updates, %d failed",
				uptime.Update().Round(time.Second), e.Metrics().AverageFrameTime(), ok, failed)
		case <-ticker.C:
			if err := e.UpdateAll(float32(step.Seconds())); err != nil {
				core.LogWarn("%v", err)
			}
			frame++
		}
	}
	core.LogInfo("stopped after %s", uptime.Stop().Round(time.Millisecond))

	if opts.export != "" {
		if err := exportAll(scenes, opts.export); err != nil {
			return errors.Wrap(err, "exporting")
		}
	}
	return nil
}

// reload swaps the scene loaded from path for a fresh load. The old scene
// stays when the new file does not load.
func reload(e *engine.Engine, scenes map[string]*scene.Scene, changed string) {
	for path, old := range scenes {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if want, _ := filepath.Abs(changed); abs != want {
			continue
		}
		s, err := e.LoadFile(path)
		if err != nil {
			return
		}
		if err := e.Destroy(old); err != nil {
			core.LogWarn("%v", err)
		}
		scenes[path] = s
		core.LogInfo("reloaded %s", path)
		return
	}
}

func exportAll(scenes map[string]*scene.Scene, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for path, s := range scenes {
		data, err := scene.ExportFrame(s)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, s.Name()+".scnf")
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		core.LogInfo("exported %s to %s", path, out)
	}
	return nil
}
