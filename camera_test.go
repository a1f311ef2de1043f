package gekko

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestPerspective_DepthRangeIsZeroToOne(t *testing.T) {
	p := Perspective{FieldOfViewY: 30, AspectRatio: 16.0 / 9.0, Near: 0.5, Far: 50}
	proj := p.ProjectionMatrix()

	near := proj.Mul4x1(mgl64.Vec4{0, 0, -0.5, 1})
	far := proj.Mul4x1(mgl64.Vec4{0, 0, -50, 1})

	assert.InDelta(t, 0.0, near[2]/near[3], 1e-9)
	assert.InDelta(t, 1.0, far[2]/far[3], 1e-9)
}

func TestCamera_ResizeKeepsAspect(t *testing.T) {
	camera := NewCamera(
		&Perspective{FieldOfViewY: 30, AspectRatio: 1, Near: 1, Far: 10},
		&LookAt{Eye: mgl64.Vec3{0, -5, 0}, Up: mgl64.Vec3{0, 0, 1}},
		NewViewportState(100, 100),
	)

	camera.Resize(200, 100)
	assert.Equal(t, uint32(200), camera.Viewport.Width)
	assert.InDelta(t, 2.0, camera.Projection.AspectRatio, 1e-12)

	camera.Resize(200, 0)
	assert.InDelta(t, 2.0, camera.Projection.AspectRatio, 1e-12, "zero height keeps the old aspect")
}

func TestCamera_UniformMatchesMatrices(t *testing.T) {
	camera := NewCamera(
		&Perspective{FieldOfViewY: 45, AspectRatio: 1.5, Near: 0.1, Far: 20},
		&LookAt{Eye: mgl64.Vec3{1, -4, 2}, Center: mgl64.Vec3{0, 0, 0}, Up: mgl64.Vec3{0, 0, 1}},
		NewViewportState(300, 200),
	)
	u := camera.uniform()
	view := camera.View.ViewMatrix()
	for i := range view {
		assert.InDelta(t, view[i], float64(u.View[i]), 1e-6)
	}
	assert.Len(t, toBufferBytes(u), 128)
}

func TestLookAt_ViewMatrixMapsCenterOntoAxis(t *testing.T) {
	l := LookAt{Eye: mgl64.Vec3{0, -10, 0}, Center: mgl64.Vec3{0, 0, 0}, Up: mgl64.Vec3{0, 0, 1}}
	p := l.ViewMatrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1})

	assert.InDelta(t, 0.0, p[0], 1e-12)
	assert.InDelta(t, 0.0, p[1], 1e-12)
	assert.InDelta(t, -10.0, p[2], 1e-12)
}
