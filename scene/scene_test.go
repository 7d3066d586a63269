package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"portal-scene/core"
)

func quad(name string) *Mesh {
	return CreateMeshFromData(name, []Vertex{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{0, 1, 0}},
	}, nil)
}

func TestNodeFindAndTraverse(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	root.AddChild(a)
	root.AddChild(b)
	b.AddChild(c)

	if root.Find("c") != c {
		t.Error("Find: expected nested node c")
	}
	if root.Find("missing") != nil {
		t.Error("Find: expected nil for a missing name")
	}

	var names []string
	root.Traverse(func(n *Node) { names = append(names, n.Name) })
	expected := []string{"root", "a", "b", "c"}
	if len(names) != len(expected) {
		t.Fatalf("Traverse: expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Traverse[%d]: expected %s, got %s", i, expected[i], names[i])
		}
	}

	// Re-parenting removes the node from its old parent
	a.AddChild(c)
	if len(b.Children) != 0 || c.Parent != a {
		t.Error("AddChild did not detach c from b")
	}
}

func TestWorldMatrix(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.SetPosition(mgl32.Vec3{1, 0, 0})
	parent.SetScale(mgl32.Vec3{2, 2, 2})
	child.SetPosition(mgl32.Vec3{0, 1, 0})

	origin := child.GetWorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	expected := mgl32.Vec3{1, 2, 0}
	if !origin.ApproxEqual(expected) {
		t.Errorf("child origin: expected %v, got %v", expected, origin)
	}

	// Moving the parent invalidates the cached child matrix
	parent.SetPosition(mgl32.Vec3{0, 0, 0})
	origin = child.GetWorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !origin.ApproxEqual(mgl32.Vec3{0, 2, 0}) {
		t.Errorf("after parent move: expected (0, 2, 0), got %v", origin)
	}
}

func TestEffectiveMaterial(t *testing.T) {
	meshMat := NewBasicMaterial("mesh", core.ColorWhite, nil)
	nodeMat := NewBasicMaterial("node", core.ColorBlack, nil)

	n := NewNode("n")
	if n.EffectiveMaterial() != nil {
		t.Error("expected nil without mesh or override")
	}
	n.Mesh = quad("q")
	n.Mesh.Material = meshMat
	if n.EffectiveMaterial() != meshMat {
		t.Error("expected the mesh material")
	}
	n.Material = nodeMat
	if n.EffectiveMaterial() != nodeMat {
		t.Error("expected the node override")
	}
}

func TestGetVisibleNodesSkipsHiddenSubtrees(t *testing.T) {
	s := NewScene()
	shown := NewNode("shown")
	shown.Mesh = quad("shown")
	hidden := NewNode("hidden")
	hidden.Visible = false
	under := NewNode("under")
	under.Mesh = quad("under")
	hidden.AddChild(under)
	s.AddNode(shown)
	s.AddNode(hidden)

	visible := s.GetVisibleNodes()
	if len(visible) != 1 || visible[0] != shown {
		t.Errorf("expected only the shown node, got %d nodes", len(visible))
	}
}

func TestRenderListOrder(t *testing.T) {
	s := NewScene()
	glow := NewShaderMaterial("glow", "", "", nil)
	glow.Transparent = true

	solid := NewNode("solid")
	solid.Mesh = quad("solid")
	nearNode := NewNode("near")
	nearNode.Mesh = quad("near")
	nearNode.Material = glow
	nearNode.SetPosition(mgl32.Vec3{0, 0, -1})
	farNode := NewNode("far")
	farNode.Mesh = quad("far")
	farNode.Material = glow
	farNode.SetPosition(mgl32.Vec3{0, 0, -10})

	s.AddNode(nearNode)
	s.AddNode(solid)
	s.AddNode(farNode)

	// Camera at the origin looking down -Z
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	opaque, transparent := s.RenderList(view)

	if len(opaque) != 1 || opaque[0] != solid {
		t.Fatalf("opaque: expected [solid], got %d nodes", len(opaque))
	}
	if len(transparent) != 2 || transparent[0] != farNode || transparent[1] != nearNode {
		t.Errorf("transparent: expected [far near]")
	}
}

func TestUniforms(t *testing.T) {
	u := Uniforms{}
	u.SetFloat("uTime", 1.5)
	u.SetColor("uColor", core.Color{R: 1, A: 1})

	if u.Float("uTime") != 1.5 {
		t.Errorf("Float: expected 1.5, got %v", u.Float("uTime"))
	}
	if u.Color("uColor").R != 1 {
		t.Errorf("Color: expected red, got %v", u.Color("uColor"))
	}

	// Updates keep the same *Uniform
	before := u["uTime"]
	u.SetFloat("uTime", 2)
	if u["uTime"] != before || before.Value != float32(2) {
		t.Error("SetFloat replaced the uniform instead of updating it")
	}

	if u.Float("missing") != 0 || u.Float("uColor") != 0 {
		t.Error("Float: expected 0 for missing or mistyped uniforms")
	}
}

func TestCameraAspect(t *testing.T) {
	cam := NewCamera(45, 1, 0.1, 100)
	cam.UpdateAspectRatio(1920, 1080)
	if cam.AspectRatio != 1920.0/1080.0 {
		t.Errorf("aspect: expected %v, got %v", float32(1920.0/1080.0), cam.AspectRatio)
	}
	p := cam.GetProjectionMatrix()

	// Minimized window keeps the previous projection
	cam.UpdateAspectRatio(1920, 0)
	if cam.GetProjectionMatrix() != p {
		t.Error("zero height changed the projection")
	}
}

func TestFrustumVisible(t *testing.T) {
	cam := NewCamera(45, 1, 0.1, 100)
	cam.LookAt(mgl32.Vec3{0, 0, -1})
	f := FrustumFromVP(cam.GetProjectionMatrix().Mul4(cam.GetViewMatrix()))

	cases := []struct {
		pos     mgl32.Vec3
		visible bool
	}{
		{mgl32.Vec3{0, 0, -5}, true},
		{mgl32.Vec3{0, 0, 5}, false},
		{mgl32.Vec3{0, 0, -200}, false},
		{mgl32.Vec3{50, 0, -5}, false},
	}
	for _, c := range cases {
		n := NewNode("tri")
		n.Mesh = quad("tri")
		n.SetPosition(c.pos)
		if got := f.Visible(n); got != c.visible {
			t.Errorf("%v: expected visible=%v, got %v", c.pos, c.visible, got)
		}
	}

	// Points are never culled
	pts := NewNode("points")
	pts.Mesh = quad("points")
	pts.Mesh.DrawMode = DrawPoints
	pts.SetPosition(mgl32.Vec3{0, 0, 5})
	if !f.Visible(pts) {
		t.Error("point mesh was culled")
	}
}

func TestLocalBounds(t *testing.T) {
	b := quad("q").LocalBounds()
	if b.Min != (mgl32.Vec3{0, 0, 0}) || b.Max != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("expected [0 0 0]-[1 1 0], got %v-%v", b.Min, b.Max)
	}
}
