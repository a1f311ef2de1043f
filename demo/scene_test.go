package demo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gekko "github.com/gekko3d/firstshape"
)

func TestAssembleScene_SingleCylinder(t *testing.T) {
	builder := gekko.NewBuilder(nil)
	result := AssembleScene(builder, gekko.NewGeometryInfo(), gekko.NewStateInfo(), InstanceSet{})

	require.Len(t, result.Scene.Children, 1)
	assert.True(t, result.Bound.Valid())
	assert.Equal(t, mgl64.Vec3{}, result.Bound.Min)
	assert.Equal(t, mgl64.Vec3{}, result.Bound.Max)
	assert.InDelta(t, math.Sqrt(3), result.Radius, 1e-6)
	assert.Equal(t, mgl32.Vec3{1.5, 0, 0}, result.Next.Position)

	stateGroup, ok := result.Scene.Children[0].(*gekko.StateGroup)
	require.True(t, ok)
	assert.False(t, stateGroup.State.Billboard)
	assert.False(t, stateGroup.State.InstancePositions)
}

func TestAssembleScene_Instanced(t *testing.T) {
	instances := GenerateInstances(newRand(), InstanceRequest{Count: 10, SpacingScale: 1})
	result := AssembleScene(gekko.NewBuilder(nil), gekko.NewGeometryInfo(), gekko.NewStateInfo(), instances)

	assert.InDelta(t, math.Sqrt(3)+instances.RadiusIncrement, result.Radius, 1e-6)

	stateGroup := result.Scene.Children[0].(*gekko.StateGroup)
	assert.True(t, stateGroup.State.InstancePositionsVec3)
	assert.False(t, stateGroup.State.InstanceColorsVec4)
	assert.True(t, stateGroup.State.InstanceColors)
	assert.Equal(t, instances.Positions, result.Next.Positions)
}

func TestAssembleScene_BillboardCulled(t *testing.T) {
	settings := DefaultSettings()
	settings.Cull = true
	instances := GenerateInstances(newRand(), InstanceRequest{Count: 10, Billboard: true, SpacingScale: 1, FloatColors: true})

	result := AssembleScene(gekko.NewBuilder(nil), settings.GeometryInfo(), settings.StateInfo(), instances)
	cull, ok := result.Scene.Children[0].(*gekko.CullNode)
	require.True(t, ok)
	stateGroup := cull.Child.(*gekko.StateGroup)
	assert.True(t, stateGroup.State.Billboard)
	assert.True(t, stateGroup.State.InstanceColorsVec4)
	assert.True(t, stateGroup.State.Features().Billboard)
}

func TestAssembleScene_RadiusNeverDecreases(t *testing.T) {
	base := AssembleScene(gekko.NewBuilder(nil), gekko.NewGeometryInfo(), gekko.NewStateInfo(), InstanceSet{})
	previous := base.Radius
	for _, count := range []uint32{1, 10, 100} {
		instances := GenerateInstances(newRand(), InstanceRequest{Count: count, SpacingScale: 1})
		result := AssembleScene(gekko.NewBuilder(nil), gekko.NewGeometryInfo(), gekko.NewStateInfo(), instances)
		assert.GreaterOrEqual(t, result.Radius, previous)
		assert.GreaterOrEqual(t, result.Radius, 0.0)
		previous = result.Radius
	}
}

func TestPlaceCamera(t *testing.T) {
	bound := gekko.NewBox()
	bound.Add(mgl64.Vec3{-1, -2, -3})
	bound.Add(mgl64.Vec3{3, 2, 1})

	placement := PlaceCamera(bound, 2)
	assert.Equal(t, mgl64.Vec3{1, 0, -1}, placement.LookAt.Center)
	assert.Equal(t, mgl64.Vec3{1, -7, -1}, placement.LookAt.Eye)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, placement.LookAt.Up)
	assert.InDelta(t, 0.0002, placement.Near, 1e-12)
	assert.InDelta(t, 20.0, placement.Far, 1e-12)

	camera := placement.Camera(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, camera.Projection.AspectRatio, 1e-12)
	assert.Equal(t, FieldOfViewY, camera.Projection.FieldOfViewY)
	assert.Equal(t, placement.LookAt, *camera.View)

	camera.View.Eye = mgl64.Vec3{}
	assert.Equal(t, mgl64.Vec3{1, -7, -1}, placement.LookAt.Eye)
}
