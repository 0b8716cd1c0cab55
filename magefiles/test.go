//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream())
	return err
}

// Runs the renderer tests only, verbosely.
func (Test) Renderer() error {
	_, err := executeCmd("go", withArgs("test", "-count=1", "-v", "./engine/renderer/..."), withStream())
	return err
}
