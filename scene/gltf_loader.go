package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pierrec/lz4/v4"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"portal-scene/core"
)

const dracoExtension = "KHR_draco_mesh_compression"

var (
	// ErrDracoUnsupported is returned for models that require Draco mesh
	// decompression when the binary is built without the draco tag.
	// Rebuild with -tags draco, or re-export the model uncompressed or as
	// .glb.lz4.
	ErrDracoUnsupported = errors.New("gltf: " + dracoExtension + " is not supported")
	// ErrNoScene is returned when a document has no nodes to show.
	ErrNoScene = errors.New("gltf: document has no nodes")
)

// dracoDecode decodes one compressed primitive. It is set by the
// draco-tagged build and nil otherwise.
var dracoDecode func(data []byte, attributes map[string]int) ([]Vertex, []uint32, error)

// dracoPrimitive is the KHR_draco_mesh_compression primitive extension.
type dracoPrimitive struct {
	BufferView int            `json:"bufferView"`
	Attributes map[string]int `json:"attributes"`
}

// GLTFResult holds the node tree loaded from a .glb / .gltf file.
type GLTFResult struct {
	// Root groups the document's root nodes, like a glTF scene.
	Root *Node
}

// LoadGLTF opens a .glb, .gltf or LZ4-framed .glb.lz4 file and returns a
// scene graph. Mesh geometry, base colors and the node hierarchy are
// populated.
func LoadGLTF(path string) (*GLTFResult, error) {
	if strings.HasSuffix(path, ".lz4") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("gltf open %q: %w", path, err)
		}
		defer f.Close()
		res, err := DecodeGLB(lz4.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("gltf %q: %w", path, err)
		}
		return res, nil
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	res, err := buildGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return res, nil
}

// DecodeGLB decodes a self-contained binary glTF stream.
func DecodeGLB(r io.Reader) (*GLTFResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return buildGLTF(doc)
}

func buildGLTF(doc *gltf.Document) (*GLTFResult, error) {
	for _, ext := range doc.ExtensionsRequired {
		if ext == dracoExtension && dracoDecode == nil {
			return nil, ErrDracoUnsupported
		}
	}
	if len(doc.Nodes) == 0 {
		return nil, ErrNoScene
	}

	// ── 1. Materials ─────────────────────────────────────────────────────────
	matCache := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		color := core.ColorWhite
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			color = core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
		}
		matCache[i] = NewBasicMaterial(gm.Name, color, nil)
	}

	// ── 2. Mesh primitives ────────────────────────────────────────────────────
	meshPrims := make([][]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d prim %d: %w", mi, pi, err)
			}
			if prim.Material != nil && *prim.Material < len(matCache) {
				m.Material = matCache[*prim.Material]
			}
			meshPrims[mi] = append(meshPrims[mi], m)
		}
	}

	// ── 3. Nodes ──────────────────────────────────────────────────────────────
	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(name)

		t := gn.TranslationOrDefault()
		n.SetPosition(mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])})

		sc := gn.ScaleOrDefault()
		n.SetScale(mgl32.Vec3{float32(sc[0]), float32(sc[1]), float32(sc[2])})

		r := gn.RotationOrDefault() // [x, y, z, w]
		n.SetRotation(mgl32.Quat{
			W: float32(r[3]),
			V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
		})

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			switch len(prims) {
			case 0:
				// no geometry
			case 1:
				n.Mesh = prims[0]
			default:
				// Multiple primitives → one child node per primitive
				for pi, p := range prims {
					child := NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Mesh = p
					n.AddChild(child)
				}
			}
		}
		nodes[i] = n
	}

	// Wire up parent-child relationships
	for i, gn := range doc.Nodes {
		for _, childIdx := range gn.Children {
			if childIdx < len(nodes) {
				nodes[i].AddChild(nodes[childIdx])
			}
		}
	}

	// ── 4. Root nodes ─────────────────────────────────────────────────────────
	root := NewNode("Scene")
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		root.Name = doc.Scenes[*doc.Scene].Name
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if rootIdx < len(nodes) {
				root.AddChild(nodes[rootIdx])
			}
		}
	} else {
		// No default scene: collect all parentless nodes
		for _, n := range nodes {
			if n.Parent == nil {
				root.AddChild(n)
			}
		}
	}
	if root.Name == "" {
		root.Name = "Scene"
	}

	return &GLTFResult{Root: root}, nil
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	if raw, ok := prim.Extensions[dracoExtension]; ok && dracoDecode != nil {
		verts, indices, err := decodeDracoPrimitive(doc, raw)
		if err != nil {
			return nil, err
		}
		return CreateMeshFromData(name, verts, indices), nil
	}

	// Positions are required
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}

	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = mgl32.Vec3{n[0], n[1], n[2]}
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return CreateMeshFromData(name, verts, indices), nil
}

// decodeDracoPrimitive resolves the compressed buffer view of a Draco
// primitive and hands it to dracoDecode.
func decodeDracoPrimitive(doc *gltf.Document, raw any) ([]Vertex, []uint32, error) {
	var data []byte
	switch v := raw.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("draco extension: %w", err)
		}
		data = b
	}
	var ext dracoPrimitive
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, nil, fmt.Errorf("draco extension: %w", err)
	}

	if ext.BufferView < 0 || ext.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("draco: buffer view %d out of range", ext.BufferView)
	}
	bv := doc.BufferViews[ext.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("draco: buffer %d out of range", bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(buf) {
		return nil, nil, fmt.Errorf("draco: buffer view %d exceeds buffer", ext.BufferView)
	}

	verts, indices, err := dracoDecode(buf[bv.ByteOffset:end], ext.Attributes)
	if err != nil {
		return nil, nil, fmt.Errorf("draco: %w", err)
	}
	return verts, indices, nil
}
