package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

/** @brief A joint of a skeleton. Bones are ordinary nodes in the tree. */
type Bone struct {
	Object
}

func NewBone() *Bone {
	b := &Bone{}
	b.Object = newObject(b)
	return b
}

func (b *Bone) Kind() NodeKind { return NodeKindBone }

/**
 * @brief Bones with their inverse bind poses. Update packs
 * world * inverse for every bone into the array pushed as boneMatrices.
 */
type Skeleton struct {
	Bones        []*Bone
	BoneInverses []mgl32.Mat4

	boneMatrices []float32
}

// NewSkeleton binds bones. Without inverses the current pose becomes the
// bind pose.
func NewSkeleton(bones []*Bone, inverses []mgl32.Mat4) *Skeleton {
	s := &Skeleton{
		Bones:        bones,
		boneMatrices: make([]float32, 16*len(bones)),
	}
	if len(inverses) == len(bones) {
		s.BoneInverses = inverses
	} else {
		s.CalculateInverses()
	}
	s.Update()
	return s
}

func (s *Skeleton) CalculateInverses() {
	s.BoneInverses = make([]mgl32.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		s.BoneInverses[i] = b.WorldMatrix().Inv()
	}
}

// Pose moves every bone back to its bind pose.
func (s *Skeleton) Pose() {
	for i, b := range s.Bones {
		b.SetWorldMatrix(s.BoneInverses[i].Inv())
	}
}

func (s *Skeleton) Update() {
	if len(s.boneMatrices) != 16*len(s.Bones) {
		s.boneMatrices = make([]float32, 16*len(s.Bones))
	}
	for i, b := range s.Bones {
		m := b.WorldMatrix().Mul4(s.BoneInverses[i])
		copy(s.boneMatrices[i*16:], m[:])
	}
}

// BoneMatrices is the packed mat4 array from the last Update.
func (s *Skeleton) BoneMatrices() []float32 { return s.boneMatrices }
