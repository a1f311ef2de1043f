package gekko

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeySpace int = iota
	KeyEnter
	KeyEscape
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	keyCount
)

type InputModule struct{}

// Input is the per-frame keyboard and mouse snapshot.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	// ScrollY accumulates wheel motion during the last poll.
	ScrollY float64

	WindowWidth, WindowHeight int
	CloseRequested            bool

	callbacksInstalled bool
	pendingScroll      float64
	sampled            bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// press updates the edge flags of one key from its current state.
func (input *Input) press(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// moveMouse records a new cursor position. The first sample yields no delta.
func (input *Input) moveMouse(x, y float64) {
	if !input.sampled {
		input.MouseDeltaX, input.MouseDeltaY = 0, 0
		input.sampled = true
	} else {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	}
	input.MouseX, input.MouseY = x, y
}

func inputSystem(s *WindowState, input *Input) {
	if !input.callbacksInstalled {
		s.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
			input.pendingScroll += yoff
		})
		input.callbacksInstalled = true
	}

	glfw.PollEvents()

	input.ScrollY = input.pendingScroll
	input.pendingScroll = 0
	input.CloseRequested = s.windowGlfw.ShouldClose()

	for key, glfwKey := range keyToGlfw {
		input.press(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.press(btn, s.windowGlfw.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.moveMouse(s.windowGlfw.GetCursorPos())
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

var keyToGlfw = map[int]glfw.Key{
	KeySpace:   glfw.KeySpace,
	KeyEnter:   glfw.KeyEnter,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyLeft:    glfw.KeyLeft,
	KeyRight:   glfw.KeyRight,
	KeyUp:      glfw.KeyUp,
	KeyDown:    glfw.KeyDown,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
	KeyLeftAlt: glfw.KeyLeftAlt,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}
