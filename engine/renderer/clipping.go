package renderer

import (
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/scene"
)

/**
 * @brief Global clipping planes projected into camera space once per frame,
 * packed as [nx, ny, nz, constant] per plane.
 */
type clipping struct {
	uniform         []float32
	numPlanes       int
	numGlobalPlanes int
	enabled         bool
}

// init projects planes for camera. Clipping stays enabled for one frame
// after the last plane is removed so shader state is reset.
func (c *clipping) init(planes []math.Plane, camera *scene.Camera) bool {
	c.enabled = len(planes) != 0 || c.numGlobalPlanes != 0
	c.project(planes, camera)
	c.numGlobalPlanes = len(planes)
	return c.enabled
}

func (c *clipping) project(planes []math.Plane, camera *scene.Camera) {
	c.uniform = c.uniform[:0]
	if len(planes) > 0 {
		view := camera.View()
		normal := math.NormalMatrix(view)
		for _, p := range planes {
			q := p.ApplyMatrix4(view, normal)
			c.uniform = append(c.uniform, q.Normal[0], q.Normal[1], q.Normal[2], q.Constant)
		}
	}
	c.numPlanes = len(planes)
}
