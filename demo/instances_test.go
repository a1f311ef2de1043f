package demo

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gekko "github.com/gekko3d/firstshape"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerateInstances_NoInstancing(t *testing.T) {
	set := GenerateInstances(newRand(), InstanceRequest{Count: 0, SpacingScale: 1, FloatColors: true})
	assert.Nil(t, set.Positions)
	assert.Nil(t, set.Colors)
	assert.Zero(t, set.RadiusIncrement)
	assert.Zero(t, set.Count())
}

func TestGenerateInstances_BillboardWithoutCountMakesOne(t *testing.T) {
	set := GenerateInstances(newRand(), InstanceRequest{Count: 0, Billboard: true, SpacingScale: 1})
	require.NotNil(t, set.Positions)
	assert.Equal(t, 1, set.Count())
	assert.Nil(t, set.Colors)
	assert.InDelta(t, 2.0, set.Width, 1e-6)
}

func TestGenerateInstances_SingleInstanceHasNoColors(t *testing.T) {
	set := GenerateInstances(newRand(), InstanceRequest{Count: 1, SpacingScale: 1, FloatColors: true})
	positions, ok := set.Positions.(gekko.Vec3Array)
	require.True(t, ok)
	assert.Len(t, positions, 1)
	assert.Nil(t, set.Colors)
}

func TestGenerateInstances_Positions(t *testing.T) {
	for _, count := range []uint32{1, 2, 10, 100, 1000} {
		for _, scale := range []float32{0.5, 1, 3} {
			w := SpreadWidth(count, scale)
			half := w / 2

			set := GenerateInstances(newRand(), InstanceRequest{Count: count, SpacingScale: scale})
			positions, ok := set.Positions.(gekko.Vec3Array)
			require.True(t, ok)
			require.Len(t, positions, int(count))
			for _, p := range positions {
				for _, c := range p {
					assert.GreaterOrEqual(t, c, -half)
					assert.LessOrEqual(t, c, half)
				}
			}
			assert.InDelta(t, 0.5*math.Sqrt(3)*float64(w), set.RadiusIncrement, 1e-9)
		}
	}
}

func TestGenerateInstances_Billboard(t *testing.T) {
	set := GenerateInstances(newRand(), InstanceRequest{Count: 10, Billboard: true, SpacingScale: 1, FloatColors: true})

	w := SpreadWidth(10, 1)
	positions, ok := set.Positions.(gekko.Vec4Array)
	require.True(t, ok)
	require.Len(t, positions, 10)
	for _, p := range positions {
		assert.Equal(t, 3*w, p[3])
		for _, c := range p[:3] {
			assert.GreaterOrEqual(t, c, -w/2)
			assert.LessOrEqual(t, c, w/2)
		}
	}

	colors, ok := set.Colors.(gekko.Vec4Array)
	require.True(t, ok)
	assert.Len(t, colors, 10)
	assert.True(t, set.Billboard)
	assert.InDelta(t, 0.5*math.Sqrt(3)*float64(w), set.RadiusIncrement, 1e-9)
}

func TestGenerateInstances_FloatColors(t *testing.T) {
	set := GenerateInstances(newRand(), InstanceRequest{Count: 50, SpacingScale: 1, FloatColors: true})
	colors, ok := set.Colors.(gekko.Vec4Array)
	require.True(t, ok)
	require.Len(t, colors, 50)
	for _, c := range colors {
		for _, channel := range c[:3] {
			assert.GreaterOrEqual(t, channel, float32(0))
			assert.LessOrEqual(t, channel, float32(1))
		}
		assert.Equal(t, float32(1), c[3])
	}
}

func TestGenerateInstances_ByteColors(t *testing.T) {
	set := GenerateInstances(newRand(), InstanceRequest{Count: 50, SpacingScale: 1})
	colors, ok := set.Colors.(gekko.UByteVec4Array)
	require.True(t, ok)
	require.Len(t, colors, 50)
	for _, c := range colors {
		assert.Equal(t, uint8(255), c[3])
	}
	assert.Equal(t, gekko.FormatUnorm8x4, set.Colors.Format())
}

func TestGenerateInstances_DeterministicForSeed(t *testing.T) {
	req := InstanceRequest{Count: 20, SpacingScale: 1, FloatColors: true}
	a := GenerateInstances(newRand(), req)
	b := GenerateInstances(newRand(), req)
	assert.Equal(t, a, b)

	c := GenerateInstances(rand.New(rand.NewPCG(3, 4)), req)
	assert.NotEqual(t, a.Positions, c.Positions)
}

func TestSpreadWidth(t *testing.T) {
	assert.InDelta(t, 2.0, SpreadWidth(1, 1), 1e-6)
	assert.InDelta(t, 20.0, SpreadWidth(1000, 1), 1e-4)
	assert.InDelta(t, 4.0, SpreadWidth(8, 1), 1e-5)
	assert.Zero(t, SpreadWidth(0, 1))
}
