package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection
// matrix (Gribb/Hartmann). The planes are normalized so DistanceTo returns
// a true distance in world units.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// IntersectsFrustum returns false if the AABB is completely outside the
// frustum, using the positive-vertex test per plane.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		pv := box.Max
		if p.Normal.X() < 0 {
			pv[0] = box.Min.X()
		}
		if p.Normal.Y() < 0 {
			pv[1] = box.Min.Y()
		}
		if p.Normal.Z() < 0 {
			pv[2] = box.Min.Z()
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// Visible reports whether n's mesh may be on screen. Point and line
// meshes are always kept: shaders displace them past their vertex bounds.
func (f *Frustum) Visible(n *Node) bool {
	if n.Mesh == nil || n.Mesh.DrawMode != DrawTriangles || len(n.Mesh.Vertices) == 0 {
		return true
	}
	return transformAABB(n.Mesh.LocalBounds(), n.GetWorldMatrix()).IntersectsFrustum(f)
}

// transformAABB transforms a local AABB by a world matrix by testing all 8 corners.
func transformAABB(local AABB, m mgl32.Mat4) AABB {
	mn, mx := local.Min, local.Max
	corners := [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
	first := mgl32.TransformCoordinate(corners[0], m)
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		out = out.extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

func (box AABB) extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < box.Min[i] {
			box.Min[i] = p[i]
		}
		if p[i] > box.Max[i] {
			box.Max[i] = p[i]
		}
	}
	return box
}
