// Package demo builds and shows a single procedurally placed cylinder,
// optionally instanced or billboarded.
package demo

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	gekko "github.com/gekko3d/firstshape"
)

// InstanceRequest asks for Count copies of a shape spread over a cube whose
// side grows with the cube root of Count.
type InstanceRequest struct {
	Count     uint32
	Billboard bool
	// SpacingScale is the length of the shape's dx vector.
	SpacingScale float32
	// FloatColors selects vec4 colours; otherwise 8-bit colours are made.
	FloatColors bool
}

// InstanceSet holds generated per-instance attributes. Positions is nil when
// no instancing was requested and Colors is nil for fewer than two
// instances.
type InstanceSet struct {
	Positions gekko.Data
	Colors    gekko.Data
	Billboard bool
	// Width is the side of the cube the positions fill.
	Width float32
	// RadiusIncrement is half the cube's space diagonal.
	RadiusIncrement float64
}

func (s InstanceSet) Count() int {
	if s.Positions == nil {
		return 0
	}
	return s.Positions.Len()
}

// SpreadWidth returns the side of the cube count instances are spread over.
func SpreadWidth(count uint32, spacingScale float32) float32 {
	return float32(math.Pow(float64(count), 1.0/3.0)) * 2 * spacingScale
}

// GenerateInstances fills random positions and colours from rng.
func GenerateInstances(rng *rand.Rand, req InstanceRequest) InstanceSet {
	count := req.Count
	if count == 0 {
		if !req.Billboard {
			return InstanceSet{}
		}
		count = 1
	}

	w := SpreadWidth(count, req.SpacingScale)
	set := InstanceSet{
		Billboard:       req.Billboard,
		Width:           w,
		RadiusIncrement: 0.5 * math.Sqrt(3) * float64(w),
	}

	spread := func() float32 {
		return w * (rng.Float32() - 0.5)
	}

	if req.Billboard {
		scaleDistance := w * 3
		positions := make(gekko.Vec4Array, count)
		for i := range positions {
			positions[i] = mgl32.Vec4{spread(), spread(), spread(), scaleDistance}
		}
		set.Positions = positions
	} else {
		positions := make(gekko.Vec3Array, count)
		for i := range positions {
			positions[i] = mgl32.Vec3{spread(), spread(), spread()}
		}
		set.Positions = positions
	}

	if count > 1 {
		if req.FloatColors {
			colors := make(gekko.Vec4Array, count)
			for i := range colors {
				colors[i] = mgl32.Vec4{rng.Float32(), rng.Float32(), rng.Float32(), 1}
			}
			set.Colors = colors
		} else {
			colors := make(gekko.UByteVec4Array, count)
			for i := range colors {
				colors[i] = [4]uint8{channel(rng), channel(rng), channel(rng), 255}
			}
			set.Colors = colors
		}
	}
	return set
}

func channel(rng *rand.Rand) uint8 {
	return uint8(255 * rng.Float32())
}
