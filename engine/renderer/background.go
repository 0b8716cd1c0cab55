package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

/** @brief Meshes drawing a scene's background texture, built on first use. */
type backgroundState struct {
	plane    *scene.Mesh
	box      *scene.Mesh
	material *material.ShaderMaterial
	texture  *resources.Texture
}

// newBackgroundMesh builds a mesh with a library shader, depth test and
// depth write off.
func (r *Renderer) newBackgroundMesh(geometry *resources.Geometry, shaderID string, side metadata.Side) (*scene.Mesh, error) {
	s, err := r.programs.Library().Get(shaderID)
	if err != nil {
		return nil, err
	}
	mat := material.NewShaderMaterial(s)
	mat.SetSide(side)
	mat.SetDepthTest(false)
	mat.SetDepthWrite(false)
	mesh := scene.NewMesh(geometry, mat)
	mesh.FrustumCulled = false
	return mesh, nil
}

// renderBackground clears as configured and, for a textured background,
// pushes its mesh into the background bucket.
func (r *Renderer) renderBackground(s *scene.Scene) error {
	forceClear := false
	color, ok := s.BackgroundColor()
	if ok {
		forceClear = true
	} else {
		color = r.Config.ClearColor
	}
	r.applyClearColor(color)

	if r.Config.AutoClear || forceClear {
		r.Clear(r.Config.AutoClearColor, r.Config.AutoClearDepth, r.Config.AutoClearStencil)
	}

	tex := s.BackgroundTexture
	if tex == nil {
		return nil
	}

	var mesh *scene.Mesh
	var uniform string
	if tex.IsCube() {
		if r.background.box == nil {
			geometry := resources.NewBoxGeometry(10, 10, 10)
			geometry.ClearGroups()
			box, err := r.newBackgroundMesh(geometry, shader.ShaderCube, metadata.SideBack)
			if err != nil {
				return err
			}
			box.MatrixAutoUpdate = false
			// The box follows the camera so it is never left behind.
			box.BeforeRender = func(node scene.Node, camera *scene.Camera) {
				node.Base().SetWorldMatrix(mgl32.Translate3D(camera.WorldPosition().Elem()))
			}
			r.background.box = box
		}
		mesh, uniform = r.background.box, "tCube"
	} else {
		if r.background.plane == nil {
			plane, err := r.newBackgroundMesh(resources.NewPlaneGeometry(2, 2), shader.ShaderBackground, metadata.SideFront)
			if err != nil {
				return err
			}
			r.background.plane = plane
		}
		mesh, uniform = r.background.plane, "t2D"
	}

	mat := mesh.Material(0).(*material.ShaderMaterial)
	if tex != r.background.texture || mat != r.background.material {
		if u := mat.Uniforms().Get(uniform); u != nil {
			u.SetTexture(tex)
			u.NeedsUpdate = true
		}
		mat.SetNeedsUpdate(true)
		r.background.texture = tex
		r.background.material = mat
	}

	mesh.Update(r.device)
	r.list.UseBackground = true
	r.list.CurrentZ = 0
	mesh.FillRenderList(r.list)
	r.list.UseBackground = false
	return nil
}

// applyClearColor issues the clear color only when it differs from the one
// last issued.
func (r *Renderer) applyClearColor(color mgl32.Vec4) {
	if r.clearColorApplied && color == r.clearColor {
		return
	}
	r.device.ClearColor(color[0], color[1], color[2], color[3])
	r.clearColor = color
	r.clearColorApplied = true
}
