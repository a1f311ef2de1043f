package gekko

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Trackball orbits a camera's LookAt around its centre.
type Trackball struct {
	camera *Camera
	home   LookAt

	// RotateSensitivity is in radians per pixel of mouse motion.
	RotateSensitivity float64
	// ZoomSensitivity scales wheel steps and vertical right-drag pixels.
	ZoomSensitivity float64
}

func NewTrackball(camera *Camera) *Trackball {
	return &Trackball{
		camera:            camera,
		home:              *camera.View,
		RotateSensitivity: 0.005,
		ZoomSensitivity:   0.1,
	}
}

// Home restores the view the trackball was created with.
func (t *Trackball) Home() {
	*t.camera.View = t.home
}

func (t *Trackball) basis() (offset, up, right mgl64.Vec3) {
	view := t.camera.View
	offset = view.Eye.Sub(view.Center)
	up = view.Up
	if up.Len() > 0 {
		up = up.Normalize()
	}
	right = view.Center.Sub(view.Eye).Cross(up)
	if right.Len() > 0 {
		right = right.Normalize()
	}
	return offset, up, right
}

// Rotate turns the eye around the centre by mouse deltas in pixels.
func (t *Trackball) Rotate(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	offset, up, right := t.basis()
	if right.Len() == 0 {
		return
	}
	q := mgl64.QuatRotate(-dx*t.RotateSensitivity, up).Mul(mgl64.QuatRotate(-dy*t.RotateSensitivity, right))
	view := t.camera.View
	view.Eye = view.Center.Add(q.Rotate(offset))
	view.Up = q.Rotate(up)
}

// Zoom scales the eye distance by 1+ratio; negative ratios move closer.
func (t *Trackball) Zoom(ratio float64) {
	scale := 1 + ratio
	if scale <= 0.01 {
		scale = 0.01
	}
	offset, _, _ := t.basis()
	if offset.Len()*scale < 1e-9 {
		return
	}
	view := t.camera.View
	view.Eye = view.Center.Add(offset.Mul(scale))
}

// Pan moves eye and centre together by mouse deltas in pixels.
func (t *Trackball) Pan(dx, dy float64) {
	offset, _, right := t.basis()
	height := float64(t.camera.Viewport.Height)
	if height == 0 || right.Len() == 0 {
		return
	}
	fov := 30.0
	if t.camera.Projection != nil {
		fov = t.camera.Projection.FieldOfViewY
	}
	unitsPerPixel := 2 * offset.Len() * math.Tan(mgl64.DegToRad(fov)*0.5) / height
	camUp := right.Cross(offset.Mul(-1)).Normalize()
	move := right.Mul(-dx * unitsPerPixel).Add(camUp.Mul(dy * unitsPerPixel))
	view := t.camera.View
	view.Eye = view.Eye.Add(move)
	view.Center = view.Center.Add(move)
}

// HandleInput applies this frame's mouse and keyboard state.
func (t *Trackball) HandleInput(input *Input) {
	if input.JustPressed[KeySpace] {
		t.Home()
		return
	}
	switch {
	case input.Pressed[MouseButtonLeft]:
		t.Rotate(input.MouseDeltaX, input.MouseDeltaY)
	case input.Pressed[MouseButtonRight]:
		t.Zoom(input.MouseDeltaY * t.ZoomSensitivity * 0.1)
	case input.Pressed[MouseButtonMiddle]:
		t.Pan(input.MouseDeltaX, input.MouseDeltaY)
	}
	if input.ScrollY != 0 {
		t.Zoom(-input.ScrollY * t.ZoomSensitivity)
	}
}
