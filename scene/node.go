package scene

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Node represents an object in the scene graph
type Node struct {
	Name      string
	Transform Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Visible   bool
	Id        uint32

	// Material overrides Mesh.Material when set.
	Material *Material

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      mgl32.Mat4
}

// Nodes are created on the asset worker as well as the main thread.
var nodeIdCounter atomic.Uint32

func NewNode(name string) *Node {
	return &Node{
		Name:             name,
		Transform:        NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		Id:               nodeIdCounter.Add(1),
		worldMatrixDirty: true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	child.MarkWorldMatrixDirty()
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

func (n *Node) GetWorldMatrix() mgl32.Mat4 {
	if n.worldMatrixDirty {
		local := n.Transform.Matrix()
		if n.Parent != nil {
			n.worldMatrix = n.Parent.GetWorldMatrix().Mul4(local)
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos mgl32.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot mgl32.Quat) {
	n.Transform.Rotation = rot
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale mgl32.Vec3) {
	n.Transform.Scale = scale
	n.MarkWorldMatrixDirty()
}

// EffectiveMaterial is the material the node draws with, or nil for the
// renderer default.
func (n *Node) EffectiveMaterial() *Material {
	if n.Material != nil {
		return n.Material
	}
	if n.Mesh != nil {
		return n.Mesh.Material
	}
	return nil
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
