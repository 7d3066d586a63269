// Package testmodel writes small binary glTF models for tests.
package testmodel

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Document returns a glTF document with one quad mesh per name. Every
// named node is a root node of the default scene.
func Document(names ...string) *gltf.Document {
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{
		{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {0.5, 0, 0.5}, {-0.5, 0, 0.5},
	})
	normals := modeler.WriteNormal(doc, [][3]float32{
		{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
	})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	})
	indices := modeler.WriteIndices(doc, []uint16{0, 2, 1, 0, 3, 2})

	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(indices),
			Attributes: map[string]int{
				gltf.POSITION:   positions,
				gltf.NORMAL:     normals,
				gltf.TEXCOORD_0: uvs,
			},
		}},
	}}

	for i, name := range names {
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(0)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, i)
	}
	return doc
}

// WriteGLB saves doc as a binary glTF file named name under dir.
func WriteGLB(dir, name string, doc *gltf.Document) (string, error) {
	path := filepath.Join(dir, name)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return "", fmt.Errorf("save glb: %w", err)
	}
	return path, nil
}

// WriteGLBLZ4 saves doc as an LZ4-framed binary glTF file (.glb.lz4).
func WriteGLBLZ4(dir, name string, doc *gltf.Document) (string, error) {
	raw, err := WriteGLB(dir, name+".tmp", doc)
	if err != nil {
		return "", err
	}
	defer os.Remove(raw)
	data, err := os.ReadFile(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("lz4 write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("lz4 close: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// PortalNames are the nodes the portal scene assigns materials to, plus
// one unnamed-role node.
var PortalNames = []string{"Plane001", "poleLightA", "poleLightB", "portalLight", "bench"}
