package portal

import (
	"portal-scene/core"
	"portal-scene/scene"
	"portal-scene/shaders"
)

// Uniform names shared by the two shader materials.
const (
	UniformTime       = "uTime"
	UniformColorStart = "uColorStart"
	UniformColorEnd   = "uColorEnd"
	UniformPixelRatio = "uPixelRatio"
	UniformSize       = "uSize"
)

var (
	PoleLightColor   = core.MustParseHex("#fff7b3")
	PortalColorStart = core.MustParseHex("#ffffff")
	PortalColorEnd   = core.MustParseHex("#b3fffe")
)

// Materials are the four materials of the scene. Each is one shared
// instance; the pole light material is assigned to two nodes.
type Materials struct {
	Baked     *scene.Material
	PoleLight *scene.Material
	Portal    *scene.Material
	Fireflies *scene.Material
}

func NewMaterials(pixelRatio, fireflySize float32) *Materials {
	return &Materials{
		Baked:     NewBakedMaterial(),
		PoleLight: NewPoleLightMaterial(),
		Portal:    NewPortalMaterial(),
		Fireflies: NewFirefliesMaterial(pixelRatio, fireflySize),
	}
}

// NewBakedMaterial returns the unlit material that shows the baked
// lighting texture. Its Map is set once the texture has loaded.
func NewBakedMaterial() *scene.Material {
	return scene.NewBasicMaterial("baked", core.ColorWhite, nil)
}

func NewPoleLightMaterial() *scene.Material {
	return scene.NewBasicMaterial("poleLight", PoleLightColor, nil)
}

// NewPortalMaterial returns the animated portal shader with uniforms
// uTime, uColorStart and uColorEnd.
func NewPortalMaterial() *scene.Material {
	u := scene.Uniforms{}
	u.SetFloat(UniformTime, 0)
	u.SetColor(UniformColorStart, PortalColorStart)
	u.SetColor(UniformColorEnd, PortalColorEnd)
	return scene.NewShaderMaterial("portalLight", shaders.PortalVertex, shaders.PortalFragment, u)
}

// NewFirefliesMaterial returns the additive point shader with uniforms
// uPixelRatio, uSize and uTime. It does not write depth.
func NewFirefliesMaterial(pixelRatio, size float32) *scene.Material {
	u := scene.Uniforms{}
	u.SetFloat(UniformPixelRatio, pixelRatio)
	u.SetFloat(UniformSize, size)
	u.SetFloat(UniformTime, 0)
	m := scene.NewShaderMaterial("fireflies", shaders.FirefliesVertex, shaders.FirefliesFragment, u)
	m.Transparent = true
	m.Blending = scene.BlendAdditive
	m.DepthWrite = false
	return m
}

// AttachBakedTexture maps an uploaded sRGB texture on the baked material.
// The texture is used as stored, without a vertical flip.
func (m *Materials) AttachBakedTexture(tex *scene.Texture) {
	m.Baked.Map = tex
}
