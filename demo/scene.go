package demo

import (
	"github.com/go-gl/mathgl/mgl64"

	gekko "github.com/gekko3d/firstshape"
)

// SceneResult is the assembled graph plus what camera placement needs.
type SceneResult struct {
	Scene *gekko.Group
	// Bound accumulates the position of every shape added.
	Bound  gekko.Box
	Radius float64
	// Next is the geometry description advanced past the last shape.
	Next gekko.GeometryInfo
}

// AssembleScene builds one cylinder from geomInfo and stateInfo with the
// given instances attached and estimates the radius needed to frame it.
func AssembleScene(builder *gekko.Builder, geomInfo gekko.GeometryInfo, stateInfo gekko.StateInfo, instances InstanceSet) *SceneResult {
	result := &SceneResult{
		Scene: gekko.NewGroup(),
		Bound: gekko.NewBox(),
	}
	result.Radius = float64(geomInfo.Dx.Add(geomInfo.Dy).Add(geomInfo.Dz).Len())

	if instances.Positions != nil {
		geomInfo.Positions = instances.Positions
		if instances.Billboard {
			stateInfo.Billboard = true
		} else {
			stateInfo.InstancePositionsVec3 = true
		}
		result.Radius += instances.RadiusIncrement
	}
	if instances.Colors != nil {
		geomInfo.Colors = instances.Colors
		stateInfo.InstanceColorsVec4 = instances.Colors.Format() == gekko.FormatFloat32x4
	}

	result.Scene.AddChild(builder.CreateCylinder(geomInfo, stateInfo))
	result.Bound.AddVec3(geomInfo.Position)
	geomInfo.Position = geomInfo.Position.Add(geomInfo.Dx.Mul(1.5))
	result.Next = geomInfo

	result.Radius += result.Bound.Max.Sub(result.Bound.Min).Len() * 0.5
	return result
}

const (
	NearFarRatio     = 0.0001
	FieldOfViewY     = 30.0
	eyeDistanceScale = 3.5
	farScale         = 10.0
)

// CameraPlacement frames a scene from the -Y axis with Z up.
type CameraPlacement struct {
	LookAt gekko.LookAt
	Near   float64
	Far    float64
}

func PlaceCamera(bound gekko.Box, radius float64) CameraPlacement {
	center := bound.Min.Add(bound.Max).Mul(0.5)
	return CameraPlacement{
		LookAt: gekko.LookAt{
			Eye:    center.Add(mgl64.Vec3{0, -radius * eyeDistanceScale, 0}),
			Center: center,
			Up:     mgl64.Vec3{0, 0, 1},
		},
		Near: NearFarRatio * radius,
		Far:  radius * farScale,
	}
}

// Camera returns a perspective camera for a viewport of the given size.
func (p CameraPlacement) Camera(width, height uint32) *gekko.Camera {
	viewport := gekko.NewViewportState(width, height)
	lookAt := p.LookAt
	return gekko.NewCamera(&gekko.Perspective{
		FieldOfViewY: FieldOfViewY,
		AspectRatio:  viewport.AspectRatio(),
		Near:         p.Near,
		Far:          p.Far,
	}, &lookAt, viewport)
}
