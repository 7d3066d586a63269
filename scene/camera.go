package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
	FOV         float32 // vertical field of view in degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	viewDirty        bool
	projDirty        bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		viewDirty:   true,
		projDirty:   true,
	}
}

// UpdateAspectRatio recomputes the aspect from a viewport size. A zero
// height (minimized window) keeps the previous aspect.
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.projDirty = true
	}
}

func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
	c.viewDirty = true
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	if c.viewDirty {
		c.viewMatrix = mgl32.LookAtV(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	if c.projDirty {
		c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
		c.projDirty = false
	}
	return c.projectionMatrix
}

// GetRight and GetUp are the camera basis vectors in world space.
func (c *Camera) GetRight() mgl32.Vec3 {
	return c.GetViewMatrix().Row(0).Vec3()
}

func (c *Camera) GetUp() mgl32.Vec3 {
	return c.GetViewMatrix().Row(1).Vec3()
}
