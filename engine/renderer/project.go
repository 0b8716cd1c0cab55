package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/scene"
)

/**
 * @brief Depth first traversal that culls and classifies nodes. The frustum
 * and projection must be refreshed from the camera before each walk.
 */
type sceneWalker struct {
	device      gpu.Device
	frustum     math.Frustum
	projScreen  mgl32.Mat4
	sortObjects bool
}

// prepare captures the camera's projection * view for culling and depth.
func (w *sceneWalker) prepare(camera *scene.Camera) {
	w.projScreen = camera.ProjScreen()
	w.frustum.SetFromMatrix(w.projScreen)
}

// walk appends the visible drawables under node to list and collects lights.
// An invisible node hides its subtree. The layer test only gates the node
// itself: children are visited whatever its outcome.
func (w *sceneWalker) walk(node scene.Node, camera *scene.Camera, list *RenderList, lights *[]scene.Light) {
	obj := node.Base()
	if !obj.Visible {
		return
	}

	if obj.Layers.Test(camera.Layers) {
		switch n := node.(type) {
		case scene.Light:
			*lights = append(*lights, n)
		case scene.Drawable:
			if mesh, ok := n.(*scene.Mesh); ok && mesh.IsSkinned() {
				mesh.Skeleton.Update()
			}
			if !obj.FrustumCulled || w.frustum.IntersectsSphere(n.WorldBoundingSphere()) {
				n.Update(w.device)
				list.CurrentZ = 0
				if w.sortObjects {
					list.CurrentZ = math.ProjectPoint(w.projScreen, obj.WorldPosition()).Z()
				}
				n.FillRenderList(list)
			}
		}
	}

	for _, child := range obj.Children() {
		w.walk(child, camera, list, lights)
	}
}
