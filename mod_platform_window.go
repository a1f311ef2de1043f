package gekko

import (
	"reflect"
)

// PlatformWindowModule shares one WindowState as a resource for the viewer
// and input modules. When Window is nil a window is created from Traits and
// a failure panics; call CreateWindow first when it must be handled.
type PlatformWindowModule struct {
	Window *WindowState
	Traits *WindowTraits
}

// Install provides the WindowState resource if missing.
func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		// Already created by another module or by user code.
		return
	}

	ws := m.Window
	if ws == nil {
		var err error
		ws, err = CreateWindow(m.Traits)
		if err != nil {
			panic(err)
		}
	}
	app.addResources(ws)
}
