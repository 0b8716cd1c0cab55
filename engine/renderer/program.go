package renderer

import (
	"fmt"

	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

// programParameters collects everything the renderer contributes to a
// variant, before the material and the object add theirs.
func (r *Renderer) programParameters() shader.ProgramParameters {
	encoding := r.Config.OutputEncoding
	if r.renderTarget != nil && r.renderTarget.Texture != nil {
		encoding = r.renderTarget.Texture.Encoding
	}
	return shader.ProgramParameters{
		Precision:               r.Config.Precision,
		SupportsVertexTextures:  r.caps.MaxVertexTextures > 0,
		OutputEncoding:          encoding,
		GammaFactor:             r.Config.GammaFactor,
		PhysicallyCorrectLights: r.Config.PhysicallyCorrectLights,
	}
}

// outdated reports whether the material's program no longer matches the
// frame: lights, clipping, renderer settings or a reloaded shader source.
func (r *Renderer) outdated(mat material.Material) bool {
	rt := mat.Common().Runtime()
	p := rt.Program
	if p == nil || rt.LightHash != r.lightSetup.Hash() {
		return true
	}
	want := r.programParameters()
	have := p.Parameters
	if have.Precision != want.Precision ||
		have.OutputEncoding != want.OutputEncoding ||
		have.GammaFactor != want.GammaFactor ||
		have.PhysicallyCorrectLights != want.PhysicallyCorrectLights ||
		have.NumClippingPlanes != r.clipping.numPlanes {
		return true
	}
	lib := r.programs.Library()
	return lib.Has(p.ShaderID) && rt.Generation != lib.Generation(p.ShaderID)
}

// initMaterial resolves the program for a material drawn on node and
// prepares the material's uniform table for it.
func (r *Renderer) initMaterial(mat material.Material, node scene.Node) error {
	base := mat.Common()
	rt := base.Runtime()
	lib := r.programs.Library()
	id := mat.ShaderID()

	provider, custom := mat.(material.ShaderProvider)
	if custom && !lib.Has(id) {
		lib.Register(provider.Shader())
	}

	params := r.programParameters()
	mat.SetParams(&params)

	hash := r.lightSetup.Hash()
	params.NumDirLights = hash.NumDirectional
	params.NumPointLights = hash.NumPoint

	if mesh, ok := node.(*scene.Mesh); ok && mesh.IsSkinned() {
		params.MaxBones = len(mesh.Skeleton.Bones)
	}
	mm, isMesh := mat.(material.MeshMaterial)
	if isMesh {
		mb := mm.Mesh()
		// Skinning needs both the material and a skinned mesh.
		params.Skinning = mb.Skinning() && params.MaxBones > 0
		params.MorphTargets = mb.MorphTargets()
		params.MorphNormals = mb.MorphNormals()
	}
	params.NumClippingPlanes = r.clipping.numPlanes

	program, err := r.programs.Get(id, params)
	if err != nil {
		return fmt.Errorf("failed to resolve program for shader `%s`: %w", id, err)
	}
	if rt.Program != nil {
		r.programs.Release(rt.Program)
	}
	rt.Program = program
	rt.Generation = program.Generation
	rt.LightHash = hash

	if isMesh {
		mb := mm.Mesh()
		mb.NumSupportedMorphTargets = 0
		mb.NumSupportedMorphNormals = 0
		for i := 0; i < material.MaxMorphTargets; i++ {
			if _, ok := program.AttributeLocation(morphTargetName(i)); ok {
				mb.NumSupportedMorphTargets++
			}
		}
		for i := 0; i < material.MaxMorphNormals; i++ {
			if _, ok := program.AttributeLocation(morphNormalName(i)); ok {
				mb.NumSupportedMorphNormals++
			}
		}
	}

	if custom {
		rt.Uniforms = provider.Shader().Uniforms
	} else {
		if rt.Uniforms == nil {
			s, err := lib.Get(id)
			if err != nil {
				return err
			}
			rt.Uniforms = s.Uniforms
		}
		if !rt.Uniforms.Has(shader.UniformClippingPlanes) {
			rt.Uniforms.Add(shader.NewUniform(shader.UniformClippingPlanes, shader.UniformTypeVec4Array))
		}
	}

	if len(r.lights) > 0 {
		applyLightSetup(rt.Uniforms, &r.lightSetup)
	}
	return nil
}

// setProgram resolves the material's program and brings every uniform the
// draw needs up to date. It resets the texture unit counter.
func (r *Renderer) setProgram(camera *scene.Camera, mat material.Material, node scene.Node) (*shader.Program, error) {
	r.usedTextureUnits = 0

	base := mat.Common()
	if !base.NeedsUpdate() && r.outdated(mat) {
		base.SetNeedsUpdate(true)
	}
	if base.NeedsUpdate() {
		if err := r.initMaterial(mat, node); err != nil {
			return nil, err
		}
		base.SetNeedsUpdate(false)
	}

	program := base.Runtime().Program
	r.syncUniforms(program, mat, node, camera)
	return program, nil
}

func morphTargetName(i int) string { return fmt.Sprintf("morphTarget%d", i) }
func morphNormalName(i int) string { return fmt.Sprintf("morphNormal%d", i) }
