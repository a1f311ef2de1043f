package gekko

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Viewer is the resource driving the render loop of a ViewerModule.
type Viewer struct {
	Scene     Node
	Camera    *Camera
	Trackball *Trackball

	gpu      *GpuState
	renderer *Renderer
	// Err is set when GPU setup or a frame fails fatally.
	Err error

	out io.Writer
}

// ViewerModule compiles Scene for the shared window, then records and
// presents a frame per App iteration until the window closes or Escape is
// pressed. The App must use states StateRunning..StateClosing.
type ViewerModule struct {
	Scene  Node
	Camera *Camera
	// Stdout receives the average frame rate on exit; nil means os.Stdout.
	Stdout io.Writer
}

const viewerRendererName = "wgpu"

func (m ViewerModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, viewerRendererName)
	out := m.Stdout
	if out == nil {
		out = os.Stdout
	}
	viewer := &Viewer{
		Scene:  m.Scene,
		Camera: m.Camera,
		out:    out,
	}
	if m.Camera != nil {
		viewer.Trackball = NewTrackball(m.Camera)
	}
	cmd.AddResources(viewer)

	app.UseSystem(
		System(compileViewer).
			InStage(Prelude).
			InState(OnEnter(StateRunning)),
	)
	app.UseSystem(
		System(handleEvents).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(resizeViewer).
			InStage(PreRender).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(recordAndSubmit).
			InStage(Render).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(presentFrame).
			InStage(PostRender).
			InState(OnExecute(StateRunning)),
	)
	app.UseSystem(
		System(releaseViewer).
			InStage(Finale).
			InState(OnEnter(StateClosing)),
	)
}

func (v *Viewer) ready() bool {
	return v.Err == nil && v.renderer != nil && v.Camera != nil
}

func (v *Viewer) fail(cmd *Commands, err error) {
	v.Err = err
	cmd.Logger().Errorf("%v", err)
	cmd.ChangeState(StateClosing)
}

func compileViewer(viewer *Viewer, ws *WindowState, stats *FrameStats, cmd *Commands) {
	gs, err := createGpuState(ws, cmd.Logger())
	if err != nil {
		viewer.fail(cmd, fmt.Errorf("set up gpu: %w", err))
		return
	}
	viewer.gpu = gs
	viewer.renderer = newRenderer(gs, cmd.Logger())
	if err := viewer.renderer.compile(viewer.Scene); err != nil {
		viewer.fail(cmd, fmt.Errorf("compile scene: %w", err))
		return
	}
	if viewer.Camera == nil {
		viewer.fail(cmd, fmt.Errorf("viewer has no camera"))
		return
	}
	stats.Start = time.Now()
	stats.FramesCompleted = 0
}

// handleEvents applies the close handler and trackball to this frame's input.
func handleEvents(viewer *Viewer, input *Input, cmd *Commands) {
	if input.CloseRequested || input.JustPressed[KeyEscape] {
		cmd.ChangeState(StateClosing)
		return
	}
	if viewer.Trackball != nil {
		viewer.Trackball.HandleInput(input)
	}
}

func resizeViewer(viewer *Viewer, ws *WindowState, cmd *Commands) {
	if !viewer.ready() {
		return
	}
	width, height := ws.Extent()
	if width == 0 || height == 0 {
		return
	}
	if err := viewer.gpu.resize(width, height); err != nil {
		viewer.fail(cmd, err)
		return
	}
	viewer.Camera.Resize(width, height)
}

func recordAndSubmit(viewer *Viewer, cmd *Commands) {
	if !viewer.ready() {
		return
	}
	if err := viewer.renderer.recordAndSubmit(viewer.Camera); err != nil {
		// Surface loss during resize is transient; skip the frame.
		cmd.Logger().Warnf("frame skipped: %v", err)
	}
}

func presentFrame(viewer *Viewer, stats *FrameStats) {
	if !viewer.ready() || !viewer.renderer.pendingPresent {
		return
	}
	viewer.renderer.present()
	stats.FramesCompleted += 1
}

func releaseViewer(viewer *Viewer, ws *WindowState, stats *FrameStats) {
	if viewer.Err == nil {
		if fps, ok := stats.AverageFrameRate(time.Now()); ok {
			fmt.Fprintf(viewer.out, "Average frame rate = %s\n", strconv.FormatFloat(fps, 'g', 6, 64))
		}
	}
	if viewer.renderer != nil {
		viewer.renderer.release()
		viewer.renderer = nil
	}
	if viewer.gpu != nil {
		viewer.gpu.release()
		viewer.gpu = nil
	}
	ws.Destroy()
}
