package scene

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"portal-scene/internal/testmodel"
)

func TestLoadGLTFDracoPrimitive(t *testing.T) {
	var gotLen int
	var gotAttrs map[string]int
	restore := dracoDecode
	dracoDecode = func(data []byte, attributes map[string]int) ([]Vertex, []uint32, error) {
		gotLen, gotAttrs = len(data), attributes
		return []Vertex{
			{Position: mgl32.Vec3{0, 0, 0}},
			{Position: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec3{0, 1, 0}},
		}, []uint32{0, 1, 2}, nil
	}
	defer func() { dracoDecode = restore }()

	doc := testmodel.Document("portalLight")
	doc.ExtensionsUsed = []string{dracoExtension}
	doc.ExtensionsRequired = []string{dracoExtension}
	doc.Meshes[0].Primitives[0].Extensions = gltf.Extensions{
		dracoExtension: json.RawMessage(`{"bufferView":0,"attributes":{"POSITION":0,"NORMAL":1}}`),
	}
	path, err := testmodel.WriteGLB(t.TempDir(), "draco.glb", doc)
	if err != nil {
		t.Fatal(err)
	}

	res, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	mesh := res.Root.Find("portalLight").Mesh
	if len(mesh.Vertices) != 3 || mesh.TriangleCount() != 1 {
		t.Errorf("expected the decoded triangle, got %d vertices", len(mesh.Vertices))
	}
	if gotLen == 0 {
		t.Error("decoder received an empty buffer view")
	}
	if gotAttrs["POSITION"] != 0 || gotAttrs["NORMAL"] != 1 {
		t.Errorf("attributes: expected POSITION 0 NORMAL 1, got %v", gotAttrs)
	}
}

func TestDecodeDracoPrimitiveBadBufferView(t *testing.T) {
	restore := dracoDecode
	dracoDecode = func([]byte, map[string]int) ([]Vertex, []uint32, error) {
		t.Error("decoder called for an invalid buffer view")
		return nil, nil, nil
	}
	defer func() { dracoDecode = restore }()

	doc := testmodel.Document("a")
	if _, _, err := decodeDracoPrimitive(doc, json.RawMessage(`{"bufferView":99}`)); err == nil {
		t.Error("expected an error for an out-of-range buffer view")
	}
}
