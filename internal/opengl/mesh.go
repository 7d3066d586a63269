package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"portal-scene/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	AttribVBOs  []uint32 // one per scene.Mesh.Attributes entry
	IndexCount  int32
	VertexCount int32
	HasIndices  bool
}

// ensureUploaded uploads vertex/index data if not already done.
// Returns nil for meshes without vertices.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) (*GPUMesh, error) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu, nil
	}
	if len(mesh.Vertices) == 0 {
		return nil, nil
	}
	for _, a := range mesh.Attributes {
		if a.Size < 1 || a.Size > 4 || len(a.Data) != a.Size*len(mesh.Vertices) {
			return nil, fmt.Errorf("mesh %q: attribute %q has %d floats for %d vertices of size %d",
				mesh.Name, a.Name, len(a.Data), len(mesh.Vertices), a.Size)
		}
	}

	stride := int32(unsafe.Sizeof(scene.Vertex{}))

	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		VertexCount: int32(len(mesh.Vertices)),
		HasIndices:  len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v scene.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	// Extra streams live in their own tightly packed buffers
	for i, a := range mesh.Attributes {
		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, gl.Ptr(a.Data), gl.STATIC_DRAW)

		loc := uint32(scene.FirstCustomAttribLocation + i)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(a.Size), gl.FLOAT, false, 0, nil)
		gpu.AttribVBOs = append(gpu.AttribVBOs, vbo)
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu, nil
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.HasIndices {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	if len(gpu.AttribVBOs) > 0 {
		gl.DeleteBuffers(int32(len(gpu.AttribVBOs)), &gpu.AttribVBOs[0])
	}
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

func primitiveFor(mode scene.DrawMode) uint32 {
	switch mode {
	case scene.DrawLines:
		return gl.LINES
	case scene.DrawPoints:
		return gl.POINTS
	}
	return gl.TRIANGLES
}
