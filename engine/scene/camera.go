package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/math"
)

/**
 * @brief A perspective or orthographic camera. The view matrix is the
 * inverse of the camera's world matrix; call UpdateMatrix after moving it
 * or changing the projection, the renderer does so every frame.
 */
type Camera struct {
	Object

	perspective bool
	fov         float32
	aspect      float32
	near        float32
	far         float32
	left        float32
	right       float32
	top         float32
	bottom      float32
	zoom        float32

	// pitch accumulated by Pitch, kept to clamp it.
	pitch float32

	projection mgl32.Mat4
	view       mgl32.Mat4
}

// NewPerspectiveCamera takes the vertical field of view in degrees.
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	c := &Camera{perspective: true, fov: fov, aspect: aspect, near: near, far: far, zoom: 1}
	c.Object = newObject(c)
	c.UpdateMatrix()
	return c
}

func NewOrthographicCamera(left, right, top, bottom, near, far float32) *Camera {
	c := &Camera{left: left, right: right, top: top, bottom: bottom, near: near, far: far, zoom: 1}
	c.Object = newObject(c)
	c.UpdateMatrix()
	return c
}

func (c *Camera) Kind() NodeKind { return NodeKindCamera }

func (c *Camera) IsPerspective() bool { return c.perspective }

func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.updateProjection()
}

func (c *Camera) SetZoom(zoom float32) {
	if zoom <= 0 {
		zoom = 1
	}
	c.zoom = zoom
	c.updateProjection()
}

func (c *Camera) Near() float32 { return c.near }
func (c *Camera) Far() float32  { return c.far }

func (c *Camera) updateProjection() {
	if c.perspective {
		fov := mgl32.DegToRad(c.fov) / c.zoom
		c.projection = mgl32.Perspective(fov, c.aspect, c.near, c.far)
		return
	}
	cx, cy := (c.left+c.right)/2, (c.top+c.bottom)/2
	dx, dy := (c.right-c.left)/(2*c.zoom), (c.top-c.bottom)/(2*c.zoom)
	c.projection = mgl32.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, c.near, c.far)
}

// UpdateMatrix refreshes the projection and the view from the world matrix.
func (c *Camera) UpdateMatrix() {
	c.updateProjection()
	c.view = c.world.Inv()
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

func (c *Camera) View() mgl32.Mat4 { return c.view }

// ProjScreen is projection * view.
func (c *Camera) ProjScreen() mgl32.Mat4 { return c.projection.Mul4(c.view) }

func (c *Camera) Forward() mgl32.Vec3 {
	return c.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *Camera) MoveForward(amount float32) {
	c.Translate(c.Forward().Mul(amount))
}

func (c *Camera) MoveBackward(amount float32) {
	c.Translate(c.Forward().Mul(-amount))
}

func (c *Camera) MoveLeft(amount float32) {
	c.Translate(c.Right().Mul(-amount))
}

func (c *Camera) MoveRight(amount float32) {
	c.Translate(c.Right().Mul(amount))
}

func (c *Camera) MoveUp(amount float32) {
	c.Translate(mgl32.Vec3{0, amount, 0})
}

func (c *Camera) MoveDown(amount float32) {
	c.Translate(mgl32.Vec3{0, -amount, 0})
}

// Yaw turns around the world up axis.
func (c *Camera) Yaw(amount float32) {
	c.Rotate(mgl32.QuatRotate(amount, mgl32.Vec3{0, 1, 0}))
}

// Pitch turns around the camera's own right axis.
func (c *Camera) Pitch(amount float32) {
	// Clamp to avoid Gimbal lock, 89 degrees.
	limit := float32(1.55334306)
	next := math.Clamp(c.pitch+amount, -limit, limit)
	amount = next - c.pitch
	c.pitch = next
	c.SetRotation(c.Rotation().Mul(mgl32.QuatRotate(amount, mgl32.Vec3{1, 0, 0})).Normalize())
}
