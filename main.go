/*
modelview opens a window, loads a model and a shader program and lets you
orbit around it. Usage:

	modelview [-config config.toml] [-model path] [-mapping legacy|corrected]
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/testbed"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration")
	modelPath := flag.String("model", "", "model to load, overrides the config")
	mapping := flag.String("mapping", "", "texture slot mapping, overrides the config")
	flag.Parse()

	config := engine.DefaultApplicationConfig()
	if _, err := os.Stat(*configPath); err == nil {
		if config, err = engine.LoadApplicationConfig(*configPath); err != nil {
			core.LogFatal(err.Error())
		}
	} else {
		core.LogWarn("%s not found, using the default configuration", *configPath)
	}
	if *modelPath != "" {
		config.Model.Path = *modelPath
	}
	if *mapping != "" {
		config.Model.SlotMapping = *mapping
	}

	viewer := testbed.NewModelViewer(config)

	e, err := engine.New(viewer.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the GL context belongs to the main thread, so only ask the loop to stop
	go func() {
		<-sigCh
		e.Quit()
	}()

	if err := e.Run(); err != nil {
		core.LogFatal(err.Error())
	}
}
