package scene

import "portal-scene/core"

type MaterialKind int

const (
	// MaterialBasic is unlit: Color, multiplied by Map when set.
	MaterialBasic MaterialKind = iota
	// MaterialShader runs custom GLSL with a Uniforms table.
	MaterialShader
)

// Blending controls how fragments composite with the framebuffer.
type Blending int

const (
	BlendNormal   Blending = iota // standard alpha blend when Transparent
	BlendAdditive                 // src*alpha + dst (glow, fireflies)
)

// Material is shared by pointer; one instance may be assigned to many nodes.
type Material struct {
	Name string
	Kind MaterialKind

	// Basic
	Color core.Color
	Map   *Texture

	// Shader
	VertexShader   string
	FragmentShader string
	Uniforms       Uniforms

	Transparent bool
	Blending    Blending
	DepthWrite  bool

	// GPUData is set by the renderer backend for compiled shader programs.
	GPUData interface{}
}

// NewBasicMaterial returns an unlit material. tex may be nil.
func NewBasicMaterial(name string, color core.Color, tex *Texture) *Material {
	return &Material{
		Name:       name,
		Kind:       MaterialBasic,
		Color:      color,
		Map:        tex,
		DepthWrite: true,
	}
}

func NewShaderMaterial(name, vertexShader, fragmentShader string, uniforms Uniforms) *Material {
	if uniforms == nil {
		uniforms = Uniforms{}
	}
	return &Material{
		Name:           name,
		Kind:           MaterialShader,
		Color:          core.ColorWhite,
		VertexShader:   vertexShader,
		FragmentShader: fragmentShader,
		Uniforms:       uniforms,
		DepthWrite:     true,
	}
}

// Uniform holds a float32 or a core.Color.
type Uniform struct {
	Value interface{}
}

// Uniforms maps GLSL uniform names to their current values.
type Uniforms map[string]*Uniform

func (u Uniforms) Float(name string) float32 {
	if v, ok := u[name]; ok {
		if f, ok := v.Value.(float32); ok {
			return f
		}
	}
	return 0
}

func (u Uniforms) SetFloat(name string, f float32) {
	if v, ok := u[name]; ok {
		v.Value = f
		return
	}
	u[name] = &Uniform{Value: f}
}

func (u Uniforms) Color(name string) core.Color {
	if v, ok := u[name]; ok {
		if c, ok := v.Value.(core.Color); ok {
			return c
		}
	}
	return core.Color{}
}

func (u Uniforms) SetColor(name string, c core.Color) {
	if v, ok := u[name]; ok {
		v.Value = c
		return
	}
	u[name] = &Uniform{Value: c}
}
