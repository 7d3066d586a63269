package portal

import (
	"errors"
	"strings"
	"testing"

	"portal-scene/config"
	"portal-scene/scene"
)

func TestAssignMaterials(t *testing.T) {
	mats := NewMaterials(1, 100)
	root := portalModel("")
	names := config.Default().Scene.Nodes

	if err := AssignMaterials(root, names, mats); err != nil {
		t.Fatalf("AssignMaterials: %v", err)
	}

	expected := map[string]*scene.Material{
		"Plane001":    mats.Baked,
		"poleLightA":  mats.PoleLight,
		"poleLightB":  mats.PoleLight,
		"portalLight": mats.Portal,
		"bench":       mats.Baked,
		"rocks":       mats.Baked,
	}
	for name, mat := range expected {
		if got := root.Find(name).Material; got != mat {
			t.Errorf("%s: expected %s, got %v", name, mat.Name, got)
		}
	}
	if root.Find("poleLightA").Material != root.Find("poleLightB").Material {
		t.Error("pole lights do not share one material")
	}
}

func TestAssignMaterialsNested(t *testing.T) {
	mats := NewMaterials(1, 100)
	root := portalModel("portalLight")

	// Multi-primitive node: geometry lives in the _prim children
	group := scene.NewNode("portalLight")
	for _, suffix := range []string{"_prim0", "_prim1"} {
		c := scene.NewNode("portalLight" + suffix)
		c.Mesh = scene.CreateMeshFromData(c.Name, []scene.Vertex{{}, {}, {}}, nil)
		group.AddChild(c)
	}
	frame := scene.NewNode("frame")
	frame.AddChild(group)
	root.AddChild(frame)

	if err := AssignMaterials(root, config.Default().Scene.Nodes, mats); err != nil {
		t.Fatalf("AssignMaterials: %v", err)
	}
	for _, c := range group.Children {
		if c.Material != mats.Portal {
			t.Errorf("%s: expected the portal material", c.Name)
		}
	}
	if frame.Material != mats.Baked {
		t.Error("frame: expected the baked material")
	}
}

func TestAssignMaterialsMissing(t *testing.T) {
	mats := NewMaterials(1, 100)
	root := portalModel("poleLightB")
	root.RemoveChild(root.Find("Plane001"))

	err := AssignMaterials(root, config.Default().Scene.Nodes, mats)
	if !errors.Is(err, ErrMissingNode) {
		t.Fatalf("expected ErrMissingNode, got %v", err)
	}
	for _, name := range []string{"Plane001", "poleLightB"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}

	root.Traverse(func(n *scene.Node) {
		if n.Material != nil {
			t.Errorf("%s: material set on a rejected model", n.Name)
		}
	})
}
