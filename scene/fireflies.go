package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Firefly spawn volume: x and z in [-FireflySpread/2, FireflySpread/2],
// y in [0, FireflyHeight].
const (
	FireflySpread = 4.0
	FireflyHeight = 1.5

	// FireflyScaleAttribute is the per-point scale stream on the mesh.
	FireflyScaleAttribute = "aScale"
)

// Fireflies is a fixed point set generated once.
type Fireflies struct {
	Positions []mgl32.Vec3
	Scales    []float32
}

// GenerateFireflies samples count points uniformly from rng. The same seed
// yields the same set.
func GenerateFireflies(count int, rng *rand.Rand) *Fireflies {
	f := &Fireflies{
		Positions: make([]mgl32.Vec3, count),
		Scales:    make([]float32, count),
	}
	for i := 0; i < count; i++ {
		f.Positions[i] = mgl32.Vec3{
			(rng.Float32() - 0.5) * FireflySpread,
			rng.Float32() * FireflyHeight,
			(rng.Float32() - 0.5) * FireflySpread,
		}
		f.Scales[i] = rng.Float32()
	}
	return f
}

func (f *Fireflies) Count() int { return len(f.Positions) }

// Mesh builds a point mesh with the scales bound as the aScale attribute.
func (f *Fireflies) Mesh() *Mesh {
	verts := make([]Vertex, len(f.Positions))
	for i, p := range f.Positions {
		verts[i] = Vertex{Position: p, Normal: mgl32.Vec3{0, 1, 0}}
	}
	scales := make([]float32, len(f.Scales))
	copy(scales, f.Scales)

	m := CreateMeshFromData("Fireflies", verts, nil)
	m.DrawMode = DrawPoints
	m.Attributes = []VertexAttribute{{Name: FireflyScaleAttribute, Size: 1, Data: scales}}
	return m
}
