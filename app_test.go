package gekko

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: StateRunning,
		state:        StateRunning,
		finalState:   StateClosing,
	}

	app.changeState(StateClosing)
	assert.Equal(t, StateClosing, app.nextState)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(StateClosing)
	assert.Equal(t, StateClosing, app.State())
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestResource(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(NewMockResource1("one"))

	res, ok := Resource[*MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "one", res.name)

	_, ok = Resource[*MockResource2](app)
	assert.False(t, ok)

	_, ok = Resource[MockResource1](app)
	assert.False(t, ok, "non-pointer lookups never match")
}

func TestApp_RunStatefulPhases(t *testing.T) {
	var calls []string
	frames := 0

	app := NewAppBuilder().
		UseStates(StateRunning, StateClosing).
		Build()
	app.UseSystem(System(func() { calls = append(calls, "enter running") }).InState(OnEnter(StateRunning)))
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 3 {
			cmd.ChangeState(StateClosing)
		}
	}).InState(OnExecute(StateRunning)))
	app.UseSystem(System(func() { calls = append(calls, "exit running") }).InState(OnExit(StateRunning)))
	app.UseSystem(System(func() { calls = append(calls, "enter closing") }).InStage(Finale).InState(OnEnter(StateClosing)))
	app.UseSystem(System(func() { calls = append(calls, "exit closing") }).InState(OnExit(StateClosing)))

	app.Run()

	assert.Equal(t, 3, frames)
	assert.Equal(t, []string{"enter running", "exit running", "enter closing", "exit closing"}, calls)
	assert.Equal(t, StateClosing, app.State())
}

func TestApp_RunInjectsResources(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(NewMockResource1("injected"))

	var seen string
	app.UseSystem(System(func(res *MockResource1, cmd *Commands) {
		seen = res.name
		cmd.Exit()
	}))
	app.Run()

	assert.Equal(t, "injected", seen)
}

func TestApp_RunPanicsOnMissingDependency(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(res *MockResource2) {}))

	assert.Panics(t, app.Run)
}

func TestApp_StagesRunInOrder(t *testing.T) {
	var order []string
	app := NewAppBuilder().Build()
	app.UseSystem(System(func() { order = append(order, "render") }).InStage(Render))
	app.UseSystem(System(func() { order = append(order, "prelude") }).InStage(Prelude))
	app.UseSystem(System(func(cmd *Commands) {
		order = append(order, "finale")
		cmd.Exit()
	}).InStage(Finale))

	app.Run()

	assert.Equal(t, []string{"prelude", "render", "finale"}, order)
}
