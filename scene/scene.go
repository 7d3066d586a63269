package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the root of everything the renderer draws.
type Scene struct {
	Root *Node
}

func NewScene() *Scene {
	return &Scene{Root: NewNode("Root")}
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

// GetVisibleNodes returns all nodes with meshes that are visible, skipping
// the subtrees of hidden nodes.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if !node.Visible {
			return
		}
		if node.Mesh != nil {
			visible = append(visible, node)
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}

// RenderList splits the visible nodes into opaque and transparent draws.
// Opaque nodes keep graph order. Transparent nodes are sorted back to front
// by view-space depth of their origin.
func (s *Scene) RenderList(view mgl32.Mat4) (opaque, transparent []*Node) {
	type keyed struct {
		node  *Node
		depth float32
	}
	var blended []keyed
	for _, n := range s.GetVisibleNodes() {
		mat := n.EffectiveMaterial()
		if mat == nil || !mat.Transparent {
			opaque = append(opaque, n)
			continue
		}
		origin := view.Mul4(n.GetWorldMatrix()).Col(3)
		blended = append(blended, keyed{node: n, depth: origin.Z()})
	}
	// View space looks down -Z: more negative is farther away
	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].depth < blended[j].depth
	})
	for _, k := range blended {
		transparent = append(transparent, k.node)
	}
	return opaque, transparent
}
