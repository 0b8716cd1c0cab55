//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with vista.toml.
func (Run) Demo() error {
	mg.Deps(Shaders.Lint)
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "vista.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
