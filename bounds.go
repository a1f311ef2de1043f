package gekko

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding box. The zero value is not valid; use
// NewBox to get an empty box that any Add turns valid.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func NewBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Valid reports whether min <= max on every axis.
func (b Box) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

func (b *Box) Add(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

func (b *Box) AddVec3(p mgl32.Vec3) {
	b.Add(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
}

func (b *Box) AddBox(o Box) {
	if !o.Valid() {
		return
	}
	b.Add(o.Min)
	b.Add(o.Max)
}

func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal is the length of max-min, zero for an invalid box.
func (b Box) Diagonal() float64 {
	if !b.Valid() {
		return 0
	}
	return b.Max.Sub(b.Min).Len()
}

// Sphere is a bounding sphere; a negative radius marks it invalid.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func (s Sphere) Valid() bool {
	return s.Radius >= 0
}

// SphereFromBox returns the sphere circumscribing b.
func SphereFromBox(b Box) Sphere {
	if !b.Valid() {
		return Sphere{Radius: -1}
	}
	return Sphere{Center: b.Center(), Radius: b.Diagonal() * 0.5}
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with the normal pointing inside. The near
// plane follows the WebGPU 0..1 depth convention.
func ExtractFrustum(vp mgl64.Mat4) [6]mgl64.Vec4 {
	row := func(r int) mgl64.Vec4 {
		return mgl64.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes := [6]mgl64.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r2,
		r3.Sub(r2),
	}

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// SphereInFrustum reports whether any part of the sphere is inside all planes.
func SphereInFrustum(s Sphere, planes [6]mgl64.Vec4) bool {
	if !s.Valid() {
		return true
	}
	for _, plane := range planes {
		dist := plane.Vec3().Dot(s.Center) + plane[3]
		if dist < -s.Radius {
			return false
		}
	}
	return true
}
