package renderer

import (
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

// syncUniforms pushes what changed since the previous draw. Program,
// material and camera changes drive three refresh flags; skinning, clipping
// planes and the object matrices go out on every draw.
func (r *Renderer) syncUniforms(program *shader.Program, mat material.Material, node scene.Node, camera *scene.Camera) {
	dev := r.device
	var refreshProgram, refreshMaterial, refreshLights bool

	if program != r.bound.program {
		dev.UseProgram(program.Handle)
		r.bound.program = program
		r.info.ProgramBinds++
		refreshProgram = true
		refreshMaterial = true
		refreshLights = true
	}
	if mat != r.bound.material {
		r.bound.material = mat
		refreshMaterial = true
	}

	if refreshProgram || camera != r.bound.camera {
		program.SetMat4(dev, "projectionMatrix", camera.Projection())
		if camera != r.bound.camera {
			r.bound.camera = camera
			refreshMaterial = true
			refreshLights = true
		}
		if mat.NeedsCameraPos() {
			program.SetVec3(dev, "cameraPosition", camera.WorldPosition())
		}
		if mat.NeedsViewMatrix() {
			program.SetMat4(dev, "viewMatrix", camera.View())
		}
	}

	if mm, ok := mat.(material.MeshMaterial); ok && mm.Mesh().Skinning() {
		if mesh, ok := node.(*scene.Mesh); ok && mesh.IsSkinned() {
			program.SetMat4(dev, "bindMatrix", mesh.BindMatrix)
			program.SetMat4(dev, "bindMatrixInverse", mesh.BindMatrixInverse)
			program.SetMat4Array(dev, "boneMatrices[0]", mesh.Skeleton.BoneMatrices())
		}
	}

	uniforms := mat.Common().Runtime().Uniforms
	clippingPlanes := uniforms.Get(shader.UniformClippingPlanes)
	if r.clipping.enabled && clippingPlanes != nil {
		clippingPlanes.SetFloats(r.clipping.uniform)
		clippingPlanes.NeedsUpdate = true
	}

	if refreshMaterial {
		if mat.NeedsLights() {
			markLightUniforms(uniforms, refreshLights)
			if refreshLights {
				applyLightSetup(uniforms, &r.lightSetup)
			}
		}
		mat.SetUniforms(uniforms)
		uniforms.Load(dev, program, r)
	} else if r.clipping.enabled && clippingPlanes != nil {
		clippingPlanes.Load(dev, program, r)
	}

	obj := node.Base()
	program.SetMat4(dev, "modelMatrix", obj.WorldMatrix())
	program.SetMat4(dev, "modelViewMatrix", obj.ModelView)
	program.SetMat3(dev, "normalMatrix", obj.Normal)
}
