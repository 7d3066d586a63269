package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PointerButton follows GLFW numbering: left 0, right 1, middle 2.
type PointerButton int

const (
	PointerLeft PointerButton = iota
	PointerRight
	PointerMiddle
)

type controlState int

const (
	stateNone controlState = iota
	stateRotate
	statePan
	stateDolly
)

const polarEpsilon = 1e-6

// spherical is Y-up: Phi is the polar angle from +Y, Theta the azimuth
// around Y measured from +Z.
type spherical struct {
	Radius, Phi, Theta float32
}

func sphericalFromVec(v mgl32.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	return spherical{
		Radius: r,
		Theta:  math32.Atan2(v.X(), v.Z()),
		Phi:    math32.Acos(mgl32.Clamp(v.Y()/r, -1, 1)),
	}
}

func (s spherical) vec() mgl32.Vec3 {
	sinPhi, cosPhi := math32.Sincos(s.Phi)
	sinTheta, cosTheta := math32.Sincos(s.Theta)
	return mgl32.Vec3{
		s.Radius * sinPhi * sinTheta,
		s.Radius * cosPhi,
		s.Radius * sinPhi * cosTheta,
	}
}

// OrbitControls rotates, pans and dollies a Camera around Target.
// Left drag rotates, right drag pans, middle drag and scroll dolly.
// With EnableDamping, Update must run every frame for motion to settle.
type OrbitControls struct {
	Camera *Camera
	Target mgl32.Vec3

	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32

	MinDistance, MaxDistance     float32
	MinPolarAngle, MaxPolarAngle float32

	viewportHeight float32

	sphericalDelta spherical
	scale          float32
	panOffset      mgl32.Vec3

	state        controlState
	lastX, lastY float64
	cursorKnown  bool
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:         camera,
		Target:         camera.Target,
		DampingFactor:  0.05,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		PanSpeed:       1,
		MinDistance:    0,
		MaxDistance:    math32.Inf(1),
		MinPolarAngle:  0,
		MaxPolarAngle:  math32.Pi,
		viewportHeight: 1,
		scale:          1,
	}
}

// SetViewportHeight sets the pixel height that drag distances are
// normalized against.
func (c *OrbitControls) SetViewportHeight(h float32) {
	if h > 0 {
		c.viewportHeight = h
	}
}

// RotateLeft and RotateUp queue rotation in radians.
func (c *OrbitControls) RotateLeft(angle float32) { c.sphericalDelta.Theta -= angle }
func (c *OrbitControls) RotateUp(angle float32)   { c.sphericalDelta.Phi -= angle }

// Dolly scales the orbit radius; steps > 0 moves closer.
func (c *OrbitControls) Dolly(steps float32) {
	zoom := math32.Pow(0.95, c.ZoomSpeed*math32.Abs(steps))
	if steps > 0 {
		c.scale *= zoom
	} else if steps < 0 {
		c.scale /= zoom
	}
}

// Pan moves the target in the camera plane by a pixel delta.
func (c *OrbitControls) Pan(dx, dy float32) {
	offset := c.Camera.Position.Sub(c.Target)
	distance := offset.Len() * math32.Tan(mgl32.DegToRad(c.Camera.FOV)/2)
	left := c.Camera.GetRight().Mul(-2 * dx * distance / c.viewportHeight * c.PanSpeed)
	up := c.Camera.GetUp().Mul(2 * dy * distance / c.viewportHeight * c.PanSpeed)
	c.panOffset = c.panOffset.Add(left).Add(up)
}

// HandleButton starts or ends a drag gesture.
func (c *OrbitControls) HandleButton(button PointerButton, pressed bool) {
	if !pressed {
		c.state = stateNone
		return
	}
	switch button {
	case PointerLeft:
		c.state = stateRotate
	case PointerRight:
		c.state = statePan
	case PointerMiddle:
		c.state = stateDolly
	}
}

// HandleCursor feeds the cursor position in window pixels.
func (c *OrbitControls) HandleCursor(x, y float64) {
	if !c.cursorKnown {
		c.lastX, c.lastY, c.cursorKnown = x, y, true
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	switch c.state {
	case stateRotate:
		c.RotateLeft(2 * math32.Pi * dx / c.viewportHeight * c.RotateSpeed)
		c.RotateUp(2 * math32.Pi * dy / c.viewportHeight * c.RotateSpeed)
	case statePan:
		c.Pan(dx, dy)
	case stateDolly:
		if dy != 0 {
			c.Dolly(-dy / 10)
		}
	}
}

func (c *OrbitControls) HandleScroll(yoff float64) {
	c.Dolly(float32(yoff))
}

// Update applies one step of the queued motion to the camera and reports
// whether the camera moved.
func (c *OrbitControls) Update() bool {
	prevPos := c.Camera.Position
	prevTarget := c.Target

	s := sphericalFromVec(c.Camera.Position.Sub(c.Target))

	factor := float32(1)
	if c.EnableDamping {
		factor = c.DampingFactor
	}
	s.Theta += c.sphericalDelta.Theta * factor
	s.Phi += c.sphericalDelta.Phi * factor

	s.Phi = mgl32.Clamp(s.Phi, c.MinPolarAngle, c.MaxPolarAngle)
	s.Phi = mgl32.Clamp(s.Phi, polarEpsilon, math32.Pi-polarEpsilon)

	s.Radius = mgl32.Clamp(s.Radius*c.scale, c.MinDistance, c.MaxDistance)

	c.Target = c.Target.Add(c.panOffset.Mul(factor))

	c.Camera.SetPosition(c.Target.Add(s.vec()))
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		keep := 1 - c.DampingFactor
		c.sphericalDelta.Theta *= keep
		c.sphericalDelta.Phi *= keep
		c.panOffset = c.panOffset.Mul(keep)
	} else {
		c.sphericalDelta = spherical{}
		c.panOffset = mgl32.Vec3{}
	}
	c.scale = 1

	return c.Camera.Position.Sub(prevPos).LenSqr() > polarEpsilon ||
		c.Target.Sub(prevTarget).LenSqr() > polarEpsilon
}
