//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const viewerBinary = "modelview"

// Downloads the modules and builds the viewer into bin/.
func (Build) Viewer() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	out := filepath.Join("bin", viewerBinary)
	fmt.Printf("Building %s...\n", out)
	if _, err := executeCmd("go", withArgs("build", "-o", out, "."), withEnv("CGO_ENABLED=1"), withStream()); err != nil {
		return err
	}
	return nil
}
