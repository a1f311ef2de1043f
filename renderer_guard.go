package gekko

import (
	"fmt"
)

// RendererTag records which renderer owns the window. One App drives a
// single window and view.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics when a renderer other than name is already
// installed. Installing the same renderer twice is a no-op.
func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag, ok := Resource[*RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}
