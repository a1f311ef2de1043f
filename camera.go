package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// LookAt is a view defined by eye, centre and up vectors.
type LookAt struct {
	Eye    mgl64.Vec3
	Center mgl64.Vec3
	Up     mgl64.Vec3
}

func (l LookAt) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(l.Eye, l.Center, l.Up)
}

// Perspective is a symmetric perspective projection. FieldOfViewY is in
// degrees.
type Perspective struct {
	FieldOfViewY float64
	AspectRatio  float64
	Near         float64
	Far          float64
}

// webgpuDepth maps OpenGL -1..1 clip depth into the 0..1 range WebGPU uses.
var webgpuDepth = mgl64.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (p Perspective) ProjectionMatrix() mgl64.Mat4 {
	return webgpuDepth.Mul4(mgl64.Perspective(mgl64.DegToRad(p.FieldOfViewY), p.AspectRatio, p.Near, p.Far))
}

// ViewportState is the framebuffer region a camera renders into.
type ViewportState struct {
	X      int
	Y      int
	Width  uint32
	Height uint32
}

func NewViewportState(width, height uint32) ViewportState {
	return ViewportState{Width: width, Height: height}
}

func (v ViewportState) AspectRatio() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

type Camera struct {
	Projection *Perspective
	View       *LookAt
	Viewport   ViewportState
}

func NewCamera(projection *Perspective, view *LookAt, viewport ViewportState) *Camera {
	return &Camera{
		Projection: projection,
		View:       view,
		Viewport:   viewport,
	}
}

// Resize updates the viewport and keeps the projection aspect in step.
func (c *Camera) Resize(width, height uint32) {
	c.Viewport.Width = width
	c.Viewport.Height = height
	if c.Projection != nil && height > 0 {
		c.Projection.AspectRatio = c.Viewport.AspectRatio()
	}
}

func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection.ProjectionMatrix().Mul4(c.View.ViewMatrix())
}

func (c *Camera) Frustum() [6]mgl64.Vec4 {
	return ExtractFrustum(c.ViewProjection())
}

type cameraUniform struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

func (c *Camera) uniform() cameraUniform {
	return cameraUniform{
		Projection: mat4To32(c.Projection.ProjectionMatrix()),
		View:       mat4To32(c.View.ViewMatrix()),
	}
}

func mat4To32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}
