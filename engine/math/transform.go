package math

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position, rotation and scale composed lazily into a local
// matrix.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
	local    mgl32.Mat4
	isDirty  bool
}

func TransformCreate() Transform {
	return TransformFromPositionRotationScale(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

func TransformFromPosition(position mgl32.Vec3) Transform {
	return TransformFromPositionRotationScale(position, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

func TransformFromPositionRotationScale(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{
		position: position,
		rotation: rotation,
		scale:    scale,
		local:    mgl32.Ident4(),
		isDirty:  true,
	}
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.position = position
	t.isDirty = true
}

func (t *Transform) Translate(translation mgl32.Vec3) {
	t.position = t.position.Add(translation)
	t.isDirty = true
}

func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.rotation = rotation
	t.isDirty = true
}

func (t *Transform) Rotate(rotation mgl32.Quat) {
	t.rotation = rotation.Mul(t.rotation).Normalize()
	t.isDirty = true
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.scale = scale
	t.isDirty = true
}

// LookAt orients the transform so its -Z axis faces target.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	// QuatLookAtV yields the view rotation, the object rotation is its inverse.
	t.rotation = mgl32.QuatLookAtV(t.position, target, up).Inverse()
	t.isDirty = true
}

func (t *Transform) IsDirty() bool { return t.isDirty }

// Local returns the composed translation * rotation * scale matrix.
func (t *Transform) Local() mgl32.Mat4 {
	if t.isDirty {
		tr := mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
		sc := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
		t.local = tr.Mul4(t.rotation.Mat4()).Mul4(sc)
		t.isDirty = false
	}
	return t.local
}
