//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the viewer and runs it. MODEL overrides the configured model.
func (Run) Viewer() error {
	mg.Deps(Build.Viewer)

	args := []string{"-config", "config.toml"}
	if model := os.Getenv("MODEL"); model != "" {
		args = append(args, "-model", model)
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("./bin/"+viewerBinary, withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
