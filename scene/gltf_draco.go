//go:build draco

package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/draco-go/draco"
)

func init() {
	dracoDecode = decodeDraco
}

// decodeDraco decodes a KHR_draco_mesh_compression buffer with the Draco
// C++ decoder. attributes maps glTF semantics to Draco unique IDs.
func decodeDraco(data []byte, attributes map[string]int) ([]Vertex, []uint32, error) {
	m := draco.NewMesh()
	defer m.Free()
	if err := draco.NewDecoder().DecodeMesh(m, data); err != nil {
		return nil, nil, err
	}
	n := int(m.NumPoints())

	read := func(semantic string, components int) ([]float32, error) {
		id, ok := attributes[semantic]
		if !ok {
			return nil, nil
		}
		pa := m.AttrByUniqueID(uint32(id))
		if pa == nil {
			return nil, fmt.Errorf("%s: no attribute with id %d", semantic, id)
		}
		raw, ok := m.AttrData(pa, nil)
		values, isFloat := raw.([]float32)
		if !ok || !isFloat || len(values) < n*components {
			return nil, fmt.Errorf("%s: expected %d float components per point", semantic, components)
		}
		return values, nil
	}

	positions, err := read("POSITION", 3)
	if err != nil {
		return nil, nil, err
	}
	if positions == nil {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	normals, err := read("NORMAL", 3)
	if err != nil {
		return nil, nil, err
	}
	uvs, err := read("TEXCOORD_0", 2)
	if err != nil {
		return nil, nil, err
	}

	verts := make([]Vertex, n)
	for i := range verts {
		v := Vertex{
			Position: mgl32.Vec3{positions[3*i], positions[3*i+1], positions[3*i+2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if normals != nil {
			v.Normal = mgl32.Vec3{normals[3*i], normals[3*i+1], normals[3*i+2]}
		}
		if uvs != nil {
			v.UV = mgl32.Vec2{uvs[2*i], uvs[2*i+1]}
		}
		verts[i] = v
	}
	return verts, m.Faces(nil), nil
}
