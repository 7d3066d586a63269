package scene

import "github.com/go-gl/mathgl/mgl32"

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES, pairs of indices form line segments
	DrawPoints                    // gl.POINTS
)

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// VertexAttribute is an extra per-vertex float stream. The renderer binds
// Attributes[i] to shader location FirstCustomAttribLocation+i.
type VertexAttribute struct {
	Name string
	Size int // components per vertex, 1..4
	Data []float32
}

// FirstCustomAttribLocation follows position (0), normal (1) and uv (2).
const FirstCustomAttribLocation = 3

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []Vertex
	Indices    []uint32
	DrawMode   DrawMode // defaults to DrawTriangles
	Attributes []VertexAttribute

	// Material holds surface shading properties. If nil, the renderer's
	// default material is used.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	// Do not access directly; use the renderer's API.
	GPUData interface{}

	// Cached object-space bounds
	bounds      AABB
	boundsValid bool
}

func CreateMeshFromData(name string, vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// Attribute returns the named extra attribute, or nil.
func (m *Mesh) Attribute(name string) *VertexAttribute {
	for i := range m.Attributes {
		if m.Attributes[i].Name == name {
			return &m.Attributes[i]
		}
	}
	return nil
}

// TriangleCount is zero for point and line meshes.
func (m *Mesh) TriangleCount() int {
	if m.DrawMode != DrawTriangles {
		return 0
	}
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// LocalBounds is the object-space AABB of the vertices, computed on first
// use. Vertices must not change afterwards.
func (m *Mesh) LocalBounds() AABB {
	if !m.boundsValid && len(m.Vertices) > 0 {
		first := m.Vertices[0].Position
		m.bounds = AABB{Min: first, Max: first}
		for _, v := range m.Vertices[1:] {
			m.bounds = m.bounds.extend(v.Position)
		}
		m.boundsValid = true
	}
	return m.bounds
}
