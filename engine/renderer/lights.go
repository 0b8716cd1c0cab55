package renderer

import (
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

// setupLights rebuilds the frame's light setup from the collected lights.
func setupLights(setup *scene.LightSetup, lights []scene.Light, camera *scene.Camera) {
	setup.Reset()
	for _, l := range lights {
		l.Contribute(setup, camera)
	}
}

// markLightUniforms flags the light groups of a table for upload or not.
func markLightUniforms(uniforms *shader.Uniforms, needsUpdate bool) {
	for _, name := range shader.LightUniformNames {
		if u := uniforms.Get(name); u != nil {
			u.NeedsUpdate = needsUpdate
		}
	}
}

// applyLightSetup copies the frame's light values into a material's own
// table.
func applyLightSetup(uniforms *shader.Uniforms, setup *scene.LightSetup) {
	if u := uniforms.Get(shader.UniformAmbientLightColor); u != nil {
		u.SetVec3(setup.Ambient)
	}
	if u := uniforms.Get(shader.UniformDirectionalLights); u != nil {
		structs := make([]shader.UniformStruct, len(setup.Directional))
		for i, d := range setup.Directional {
			structs[i] = shader.UniformStruct{
				shader.NewUniform("direction", shader.UniformTypeVec3).SetVec3(d.Direction),
				shader.NewUniform("color", shader.UniformTypeVec3).SetVec3(d.Color),
			}
		}
		u.SetStructs(structs)
	}
	if u := uniforms.Get(shader.UniformPointLights); u != nil {
		structs := make([]shader.UniformStruct, len(setup.Point))
		for i, p := range setup.Point {
			structs[i] = shader.UniformStruct{
				shader.NewUniform("position", shader.UniformTypeVec3).SetVec3(p.Position),
				shader.NewUniform("color", shader.UniformTypeVec3).SetVec3(p.Color),
				shader.NewUniform("distance", shader.UniformTypeFloat).SetFloat(p.Distance),
				shader.NewUniform("decay", shader.UniformTypeFloat).SetFloat(p.Decay),
			}
		}
		u.SetStructs(structs)
	}
}
