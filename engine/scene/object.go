package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/math"
)

type NodeKind int

const (
	NodeKindGroup NodeKind = iota
	NodeKindMesh
	NodeKindLineSegments
	NodeKindSprite
	NodeKindLight
	NodeKindCamera
	NodeKindScene
	NodeKindBone
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindMesh:
		return "mesh"
	case NodeKindLineSegments:
		return "line-segments"
	case NodeKindSprite:
		return "sprite"
	case NodeKindLight:
		return "light"
	case NodeKindCamera:
		return "camera"
	case NodeKindScene:
		return "scene"
	case NodeKindBone:
		return "bone"
	}
	return "group"
}

// Node is anything that can live in the scene tree.
type Node interface {
	Base() *Object
	Kind() NodeKind
}

// Layers is a 32 bit visibility mask. Nodes and cameras see each other when
// their masks intersect.
type Layers uint32

func (l *Layers) Set(layer uint)     { *l = 1 << layer }
func (l *Layers) Enable(layer uint)  { *l |= 1 << layer }
func (l *Layers) Disable(layer uint) { *l &^= 1 << layer }
func (l *Layers) EnableAll()         { *l = 0xffffffff }
func (l Layers) Test(other Layers) bool {
	return l&other != 0
}

/**
 * @brief The transform, hierarchy and visibility shared by every node.
 * World, model-view and normal matrices are derived state refreshed by the
 * renderer each frame.
 */
type Object struct {
	math.Transform

	ID            uint32
	Name          string
	Visible       bool
	Layers        Layers
	FrustumCulled bool
	// MatrixAutoUpdate recomposes the world matrix from the transform. Nodes
	// positioned by SetWorldMatrix turn it off.
	MatrixAutoUpdate bool
	// BeforeRender runs right before each of the node's draws.
	BeforeRender func(node Node, camera *Camera)

	ModelView mgl32.Mat4
	Normal    mgl32.Mat3

	world    mgl32.Mat4
	parent   *Object
	children []Node
}

func newObject(owner interface{}) Object {
	return Object{
		Transform:        math.TransformCreate(),
		ID:               core.IdentifierAquireNewID(owner),
		Visible:          true,
		Layers:           1,
		FrustumCulled:    true,
		MatrixAutoUpdate: true,
		ModelView:        mgl32.Ident4(),
		Normal:           mgl32.Ident3(),
		world:            mgl32.Ident4(),
	}
}

func (o *Object) Base() *Object { return o }

func (o *Object) Parent() *Object { return o.parent }

func (o *Object) Children() []Node { return o.children }

// Add attaches nodes as children, detaching them from any previous parent.
func (o *Object) Add(nodes ...Node) {
	for _, n := range nodes {
		child := n.Base()
		if child == o {
			core.LogWarn("node %d can not be added as a child of itself", o.ID)
			continue
		}
		if child.parent != nil {
			child.parent.removeChild(child)
		}
		child.parent = o
		o.children = append(o.children, n)
	}
}

func (o *Object) Remove(n Node) {
	if child := n.Base(); child.parent == o {
		o.removeChild(child)
		child.parent = nil
	}
}

func (o *Object) removeChild(child *Object) {
	for i, c := range o.children {
		if c.Base() == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// Traverse visits o and every descendant depth first.
func (o *Object) Traverse(node Node, fn func(Node)) {
	fn(node)
	for _, c := range o.children {
		c.Base().Traverse(c, fn)
	}
}

func (o *Object) WorldMatrix() mgl32.Mat4 { return o.world }

// SetWorldMatrix places the node directly. Only meaningful with
// MatrixAutoUpdate off, otherwise the next update overwrites it.
func (o *Object) SetWorldMatrix(m mgl32.Mat4) { o.world = m }

func (o *Object) WorldPosition() mgl32.Vec3 { return math.Translation(o.world) }

// UpdateMatrixWorld recomposes the world matrices of o and its subtree.
func (o *Object) UpdateMatrixWorld() {
	if o.MatrixAutoUpdate {
		local := o.Local()
		if o.parent != nil {
			o.world = o.parent.world.Mul4(local)
		} else {
			o.world = local
		}
	}
	for _, c := range o.children {
		c.Base().UpdateMatrixWorld()
	}
}

// UpdateModelView derives the model-view and normal matrices for a camera.
func (o *Object) UpdateModelView(view mgl32.Mat4) {
	o.ModelView = view.Mul4(o.world)
	o.Normal = math.NormalMatrix(o.ModelView)
}

// Release gives the node id back. The node must not be used afterwards.
func (o *Object) Release() error {
	return core.IdentifierReleaseID(o.ID)
}

/** @brief A node with no content of its own, used to build hierarchies. */
type Group struct {
	Object
}

func NewGroup() *Group {
	g := &Group{}
	g.Object = newObject(g)
	return g
}

func (g *Group) Kind() NodeKind { return NodeKindGroup }
