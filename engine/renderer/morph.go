package renderer

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

const morphInfluencesUniform = "morphTargetInfluences[0]"

// rankMorphInfluences returns up to limit slot indices ordered by
// descending weight magnitude. Zero weights are never ranked, equal
// magnitudes keep slot order.
func rankMorphInfluences(influences []float32, limit int) []int {
	ranked := make([]int, 0, len(influences))
	for i, w := range influences {
		if w != 0 {
			ranked = append(ranked, i)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return math32.Abs(influences[ranked[a]]) > math32.Abs(influences[ranked[b]])
	})
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// updateMorphTargets binds the strongest morph sets to the program's slots
// for this draw and uploads the influence array. Unused slots get zero.
func (r *Renderer) updateMorphTargets(mesh *scene.Mesh, geometry *resources.Geometry, mb *material.MeshBase, program *shader.Program) {
	targets := geometry.MorphAttributes(resources.AttributePosition)
	normals := geometry.MorphAttributes(resources.AttributeNormal)

	slots := mb.NumSupportedMorphTargets
	if slots > len(targets) {
		slots = len(targets)
	}
	ranked := rankMorphInfluences(mesh.MorphTargetInfluences, slots)

	var influences [material.MaxMorphTargets]float32
	for i, slot := range ranked {
		r.morphBindings[morphTargetName(i)] = targets[slot]
		if mb.MorphNormals() && i < mb.NumSupportedMorphNormals && slot < len(normals) {
			r.morphBindings[morphNormalName(i)] = normals[slot]
		}
		influences[i] = mesh.MorphTargetInfluences[slot]
	}

	if !program.SetFloatArray(r.device, morphInfluencesUniform, influences[:]) {
		core.LogWarn("program %d declares morph targets but no morphTargetInfluences uniform", program.ID)
	}
}
