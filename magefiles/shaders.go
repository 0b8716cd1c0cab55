//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/vista/engine/assets"
	"github.com/spaghettifunk/vista/engine/gpu/headless"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/shader"
	"github.com/spaghettifunk/vista/engine/systems"
)

type Shaders mg.Namespace

const shaderOverrideDir = "assets/shaders"

// lintVariants covers the feature switches every built-in shader must
// survive.
func lintVariants() map[string]shader.ProgramParameters {
	all := shader.ProgramParameters{
		Precision:               metadata.PrecisionMedium,
		OutputEncoding:          metadata.EncodingSRGB,
		GammaFactor:             2.2,
		Map:                     true,
		MapEncoding:             metadata.EncodingSRGB,
		EnvMap:                  true,
		VertexColors:            true,
		FlatShading:             true,
		SizeAttenuation:         true,
		Skinning:                true,
		MaxBones:                16,
		MorphTargets:            true,
		MorphNormals:            true,
		PhysicallyCorrectLights: true,
		DoubleSided:             true,
		AlphaTest:               128,
		NumDirLights:            2,
		NumPointLights:          4,
		NumClippingPlanes:       3,
	}
	return map[string]shader.ProgramParameters{
		"default":  {GammaFactor: 2.2},
		"lit":      {GammaFactor: 2.2, NumDirLights: 1, NumPointLights: 1},
		"features": all,
	}
}

// Preprocesses every built-in shader variant, with the overrides of
// assets/shaders applied, and checks each one declares a position attribute.
func (Shaders) Lint() error {
	lib, err := shader.NewLibrary()
	if err != nil {
		return err
	}
	if _, err := os.Stat(shaderOverrideDir); err == nil {
		am, err := assets.NewAssetManager()
		if err != nil {
			return err
		}
		sw := assets.NewShaderWatcher(am)
		if err := am.Initialize(shaderOverrideDir); err != nil {
			return err
		}
		if ids := sw.Apply(lib); len(ids) > 0 {
			fmt.Printf("Overrides applied: %v\n", ids)
		}
		if err := am.Shutdown(); err != nil {
			return err
		}
	}

	ctx := headless.NewContext()
	dev := headless.New()
	pc, err := systems.NewProgramCache(&systems.ProgramCacheConfig{MaxProgramCount: 1024}, ctx, dev, lib)
	if err != nil {
		return err
	}

	failed := 0
	for _, id := range lib.IDs() {
		for name, params := range lintVariants() {
			p, err := pc.Get(id, params)
			if err != nil {
				fmt.Printf("FAIL %s/%s: %s\n", id, name, err)
				failed++
				continue
			}
			if _, ok := p.AttributeLocation("position"); !ok {
				fmt.Printf("FAIL %s/%s: no position attribute\n", id, name)
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d shader variants failed", failed)
	}
	fmt.Printf("%d shaders, %d variants each: ok\n", len(lib.IDs()), len(lintVariants()))
	return pc.Shutdown()
}
