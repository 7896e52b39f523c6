//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Writes the fixtures and plays them with the bridge runner.
func (Run) Bridge() error {
	mg.Deps(Build.Fixtures)
	fmt.Println("Run bridge...")
	_, err := executeCmd("go", withArgs("run", "./cmd/scenebridge", "-frames", "120",
		"assets/sample.scn", "assets/clipped.scn", "assets/skeleton.scn"), withStream())
	return err
}
