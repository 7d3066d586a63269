package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"portal-scene/core"
	"portal-scene/internal/opengl"
	"portal-scene/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend.
// The viewport covers the window framebuffer in device pixels.
type RenderEngine struct {
	gl  *opengl.Renderer
	log *zap.Logger

	bufferWidth, bufferHeight int

	// Textures uploaded through the engine, freed on Destroy
	textures []*scene.Texture

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastVertices  int
	lastTriangles int
	lastPoints    int
}

// NewRenderEngine creates the OpenGL backend. The GL context must be
// current on the calling thread.
func NewRenderEngine(log *zap.Logger) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer(log.Named("gl"))
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	log.Info("render engine initialized")
	return &RenderEngine{gl: glRenderer, log: log}, nil
}

// SetDrawingBufferSize sets the viewport in framebuffer pixels.
func (re *RenderEngine) SetDrawingBufferSize(width, height int) {
	if width == re.bufferWidth && height == re.bufferHeight {
		return
	}
	re.bufferWidth, re.bufferHeight = width, height
	re.gl.SetViewport(width, height)
	re.log.Debug("viewport", zap.Int("width", width), zap.Int("height", height))
}

func (re *RenderEngine) SetClearColor(c core.Color) {
	re.gl.SetClearColor(c)
}

// Render clears the frame and draws every visible mesh node of s from cam.
// Opaque nodes draw first, then transparent nodes back to front.
func (re *RenderEngine) Render(s *scene.Scene, cam *scene.Camera) error {
	if s == nil || cam == nil {
		return fmt.Errorf("no scene or camera")
	}

	re.gl.Clear()

	view := cam.GetViewMatrix()
	proj := cam.GetProjectionMatrix()
	opaque, transparent := s.RenderList(view)
	frustum := scene.FrustumFromVP(proj.Mul4(view))

	objects, vertices, triangles, points := 0, 0, 0, 0
	for _, list := range [][]*scene.Node{opaque, transparent} {
		for _, node := range list {
			if !frustum.Visible(node) {
				continue
			}
			if err := re.gl.DrawMesh(node.Mesh, node.EffectiveMaterial(), node.GetWorldMatrix(), view, proj); err != nil {
				return fmt.Errorf("draw %q: %w", node.Name, err)
			}
			objects++
			vertices += len(node.Mesh.Vertices)
			triangles += node.Mesh.TriangleCount()
			if node.Mesh.DrawMode == scene.DrawPoints {
				points += len(node.Mesh.Vertices)
			}
		}
	}

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles
	re.lastPoints = points
	return nil
}

// UploadTexture uploads a texture to the GPU. Must be called from the main thread.
func (re *RenderEngine) UploadTexture(tex *scene.Texture) error {
	if err := opengl.UploadTexture(tex); err != nil {
		return err
	}
	re.textures = append(re.textures, tex)
	return nil
}

// Destroy frees uploaded textures and the GL backend.
func (re *RenderEngine) Destroy() {
	for _, tex := range re.textures {
		opengl.DeleteTexture(tex)
	}
	re.textures = nil
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles, points int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles, re.lastPoints
}
