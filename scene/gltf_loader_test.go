package scene_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"portal-scene/internal/testmodel"
	"portal-scene/scene"
)

func TestLoadGLTFBinary(t *testing.T) {
	path, err := testmodel.WriteGLB(t.TempDir(), "portal.glb", testmodel.Document(testmodel.PortalNames...))
	if err != nil {
		t.Fatal(err)
	}

	res, err := scene.LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	checkPortalModel(t, res.Root)
}

func TestLoadGLTFLZ4(t *testing.T) {
	path, err := testmodel.WriteGLBLZ4(t.TempDir(), "portal.glb.lz4", testmodel.Document(testmodel.PortalNames...))
	if err != nil {
		t.Fatal(err)
	}

	res, err := scene.LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	checkPortalModel(t, res.Root)
}

func checkPortalModel(t *testing.T, root *scene.Node) {
	t.Helper()
	if len(root.Children) != len(testmodel.PortalNames) {
		t.Fatalf("root children: expected %d, got %d", len(testmodel.PortalNames), len(root.Children))
	}
	for _, name := range testmodel.PortalNames {
		n := root.Find(name)
		if n == nil {
			t.Errorf("node %q not found", name)
			continue
		}
		if n.Mesh == nil {
			t.Errorf("node %q: no mesh", name)
			continue
		}
		if got := len(n.Mesh.Vertices); got != 4 {
			t.Errorf("node %q: expected 4 vertices, got %d", name, got)
		}
		if got := n.Mesh.TriangleCount(); got != 2 {
			t.Errorf("node %q: expected 2 triangles, got %d", name, got)
		}
	}

	// UVs survive the round trip
	q := root.Find("portalLight").Mesh
	if uv := q.Vertices[2].UV; uv.X() != 1 || uv.Y() != 1 {
		t.Errorf("uv[2]: expected (1, 1), got %v", uv)
	}
}

func TestLoadGLTFEmpty(t *testing.T) {
	path, err := testmodel.WriteGLB(t.TempDir(), "empty.glb", testmodel.Document())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := scene.LoadGLTF(path); !errors.Is(err, scene.ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	for _, name := range []string{"missing.glb", "missing.glb.lz4"} {
		if _, err := scene.LoadGLTF(filepath.Join(t.TempDir(), name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s: expected os.ErrNotExist, got %v", name, err)
		}
	}
}

func TestLoadGLTFCorruptLZ4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.glb.lz4")
	if err := os.WriteFile(path, []byte("not an lz4 frame"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := scene.LoadGLTF(path); err == nil {
		t.Error("expected an error for a corrupt LZ4 file")
	}
}

func TestLoadGLTFBadTexCoords(t *testing.T) {
	doc := testmodel.Document("a")
	attrs := doc.Meshes[0].Primitives[0].Attributes
	// A VEC3 accessor cannot hold texture coordinates
	attrs[gltf.TEXCOORD_0] = attrs[gltf.NORMAL]
	path, err := testmodel.WriteGLB(t.TempDir(), "bad_uv.glb", doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := scene.LoadGLTF(path); err == nil {
		t.Error("expected an error for a VEC3 TEXCOORD_0 accessor")
	}
}
