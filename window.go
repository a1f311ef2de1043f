package gekko

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowTraits configures CreateWindow and the swapchain behind it.
type WindowTraits struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	// ScreenNum selects the monitor; out of range falls back to the primary.
	ScreenNum int
	// Display overrides the X11 DISPLAY connection when set.
	Display    string
	Decoration bool

	DebugLayer   bool
	APIDumpLayer bool

	PresentMode wgpu.PresentMode
	// ImageCount is the preferred swapchain length. 3 asks for mailbox
	// presentation when the surface supports it.
	ImageCount int
}

func NewWindowTraits() *WindowTraits {
	return &WindowTraits{
		Title:       "Gekko",
		Width:       1280,
		Height:      720,
		Decoration:  true,
		PresentMode: wgpu.PresentModeFifo,
	}
}

// choosePresentMode picks the requested mode if the surface supports it,
// falling back to FIFO which every surface supports.
func (t *WindowTraits) choosePresentMode(supported []wgpu.PresentMode) wgpu.PresentMode {
	want := t.PresentMode
	if want == wgpu.PresentModeFifo && t.ImageCount >= 3 {
		want = wgpu.PresentModeMailbox
	}
	for _, mode := range supported {
		if mode == want {
			return mode
		}
	}
	return wgpu.PresentModeFifo
}

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
	Traits       *WindowTraits
}

// CreateWindow opens a glfw window without a client API so wgpu can own
// the surface. The calling goroutine stays locked to its OS thread.
func CreateWindow(traits *WindowTraits) (*WindowState, error) {
	if traits == nil {
		traits = NewWindowTraits()
	}
	runtime.LockOSThread()

	if traits.Display != "" {
		if err := os.Setenv("DISPLAY", traits.Display); err != nil {
			return nil, fmt.Errorf("set display %q: %w", traits.Display, err)
		}
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfwBool(traits.Decoration))

	monitor := selectMonitor(traits.ScreenNum)
	width, height := traits.Width, traits.Height

	var fullscreenMonitor *glfw.Monitor
	if traits.Fullscreen && monitor != nil {
		fullscreenMonitor = monitor
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, traits.Title, fullscreenMonitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	if fullscreenMonitor == nil && monitor != nil && traits.ScreenNum > 0 {
		x, y := monitor.GetPos()
		win.SetPos(x+50, y+50)
	}

	fbWidth, fbHeight := win.GetFramebufferSize()
	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  fbWidth,
		WindowHeight: fbHeight,
		windowTitle:  traits.Title,
		Traits:       traits,
	}, nil
}

func selectMonitor(screen int) *glfw.Monitor {
	monitors := glfw.GetMonitors()
	if screen >= 0 && screen < len(monitors) {
		return monitors[screen]
	}
	return glfw.GetPrimaryMonitor()
}

func glfwBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

// Extent returns the current framebuffer size in pixels.
func (s *WindowState) Extent() (uint32, uint32) {
	w, h := s.windowGlfw.GetFramebufferSize()
	return uint32(max(w, 0)), uint32(max(h, 0))
}

func (s *WindowState) Destroy() {
	if s.windowGlfw != nil {
		s.windowGlfw.Destroy()
		s.windowGlfw = nil
	}
	glfw.Terminate()
}
