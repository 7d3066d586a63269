package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"portal-scene/core"
	"portal-scene/scene"
)

// Renderer is the OpenGL rendering backend.
//
// Basic materials draw with GL_FRAMEBUFFER_SRGB enabled so their linear
// output is encoded on write. Shader materials and the clear write raw
// values.
type Renderer struct {
	log *zap.Logger

	basic    *program
	programs map[*scene.Material]*program

	clearColor core.Color

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// unlit vertex shader shared by every basic material
const basicVertSrc = `
#version 410 core
layout(location = 0) in vec3 position;
layout(location = 2) in vec2 uv;

uniform mat4 modelMatrix;
uniform mat4 viewMatrix;
uniform mat4 projectionMatrix;

out vec2 vUv;

void main() {
    gl_Position = projectionMatrix * viewMatrix * modelMatrix * vec4(position, 1.0);
    vUv = uv;
}
` + "\x00"

// color, multiplied by the map when one is bound
const basicFragSrc = `
#version 410 core
in vec2 vUv;

uniform vec4      color;
uniform sampler2D map;
uniform bool      hasMap;

out vec4 outColor;

void main() {
    vec4 c = color;
    if (hasMap) {
        c *= texture(map, vUv);
    }
    outColor = c;
}
` + "\x00"

// ── NewRenderer ───────────────────────────────────────────────────────────────

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("opengl ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	basic, err := newProgram(basicVertSrc, basicFragSrc)
	if err != nil {
		return nil, fmt.Errorf("basic shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.MULTISAMPLE)

	gl.UseProgram(basic.id)
	gl.Uniform1i(basic.loc("map"), 0)

	return &Renderer{
		log:        log,
		basic:      basic,
		programs:   make(map[*scene.Material]*program),
		clearColor: core.ColorBlack,
		gpuMeshes:  make(map[*scene.Mesh]*GPUMesh),
	}, nil
}

// ── Viewport ──────────────────────────────────────────────────────────────────

// SetViewport resizes the OpenGL viewport in framebuffer pixels.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) SetClearColor(c core.Color) { r.clearColor = c }

// Clear clears color and depth. The clear color is written without sRGB
// encoding.
func (r *Renderer) Clear() {
	gl.Disable(gl.FRAMEBUFFER_SRGB)
	gl.DepthMask(true)
	gl.ClearColor(r.clearColor.R, r.clearColor.G, r.clearColor.B, r.clearColor.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ── DrawMesh ──────────────────────────────────────────────────────────────────

// DrawMesh draws mesh with mat at the given world transform. A nil mat
// draws the mesh white.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mat *scene.Material, model, view, proj mgl32.Mat4) error {
	gpu, err := r.ensureUploaded(mesh)
	if err != nil {
		return err
	}
	if gpu == nil {
		return nil
	}
	if mat == nil {
		mat = defaultMaterial
	}

	var prog *program
	switch mat.Kind {
	case scene.MaterialShader:
		prog, err = r.shaderProgram(mat)
		if err != nil {
			return err
		}
		gl.UseProgram(prog.id)
		if err := applyUniforms(prog, mat.Uniforms); err != nil {
			return fmt.Errorf("material %q: %w", mat.Name, err)
		}
	default:
		prog = r.basic
		gl.UseProgram(prog.id)
		r.applyBasic(mat)
	}

	gl.UniformMatrix4fv(prog.loc("modelMatrix"), 1, false, &model[0])
	gl.UniformMatrix4fv(prog.loc("viewMatrix"), 1, false, &view[0])
	gl.UniformMatrix4fv(prog.loc("projectionMatrix"), 1, false, &proj[0])

	applyRenderState(mat)

	primitive := primitiveFor(mesh.DrawMode)
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, gpu.VertexCount)
	}
	gl.BindVertexArray(0)
	return nil
}

var defaultMaterial = scene.NewBasicMaterial("default", core.ColorWhite, nil)

// applyBasic sets the basic program's color and map.
// Must be called while r.basic is active.
func (r *Renderer) applyBasic(mat *scene.Material) {
	c := mat.Color
	gl.Uniform4f(r.basic.loc("color"), c.R, c.G, c.B, c.A)
	if tex := mat.Map; tex != nil && tex.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(r.basic.loc("hasMap"), 1)
	} else {
		gl.Uniform1i(r.basic.loc("hasMap"), 0)
	}
}

// shaderProgram compiles a shader material on first use.
func (r *Renderer) shaderProgram(mat *scene.Material) (*program, error) {
	if p, ok := r.programs[mat]; ok {
		return p, nil
	}
	p, err := newProgram(mat.VertexShader, mat.FragmentShader)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", mat.Name, err)
	}
	r.programs[mat] = p
	mat.GPUData = p.id
	r.log.Debug("shader material compiled", zap.String("material", mat.Name), zap.Uint32("program", p.id))
	return p, nil
}

func applyUniforms(prog *program, uniforms scene.Uniforms) error {
	for name, u := range uniforms {
		loc := prog.loc(name)
		if loc < 0 {
			continue
		}
		switch v := u.Value.(type) {
		case float32:
			gl.Uniform1f(loc, v)
		case core.Color:
			gl.Uniform3f(loc, v.R, v.G, v.B)
		case mgl32.Vec3:
			gl.Uniform3f(loc, v[0], v[1], v[2])
		default:
			return fmt.Errorf("uniform %q: unsupported type %T", name, u.Value)
		}
	}
	return nil
}

// applyRenderState sets blending, depth writes and sRGB encoding for mat.
func applyRenderState(mat *scene.Material) {
	if mat.Transparent {
		gl.Enable(gl.BLEND)
		switch mat.Blending {
		case scene.BlendAdditive:
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		default:
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
	} else {
		gl.Disable(gl.BLEND)
	}
	gl.DepthMask(mat.DepthWrite)

	if mat.Kind == scene.MaterialBasic {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	} else {
		gl.Disable(gl.FRAMEBUFFER_SRGB)
	}
}

// ── Resource management ───────────────────────────────────────────────────────

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for mat, p := range r.programs {
		p.destroy()
		mat.GPUData = nil
	}
	r.programs = map[*scene.Material]*program{}
	r.basic.destroy()
}
