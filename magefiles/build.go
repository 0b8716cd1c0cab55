//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and compiles every package.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Compiles the testbed binary into bin/.
func (Build) Demo() error {
	mg.Deps(Shaders.Lint)
	_, err := executeCmd("go", withArgs("build", "-o", "bin/vista", "."), withStream())
	return err
}
