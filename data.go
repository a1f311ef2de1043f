package gekko

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// DataFormat describes the element layout of an attribute array.
type DataFormat int

const (
	FormatFloat32x2 DataFormat = iota
	FormatFloat32x3
	FormatFloat32x4
	FormatUnorm8x4
)

var dataFormatNames = map[DataFormat]string{
	FormatFloat32x2: "vec2",
	FormatFloat32x3: "vec3",
	FormatFloat32x4: "vec4",
	FormatUnorm8x4:  "ubvec4",
}

func (f DataFormat) String() string {
	if name, ok := dataFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

func (f DataFormat) vertexFormat() wgpu.VertexFormat {
	switch f {
	case FormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case FormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	case FormatUnorm8x4:
		return wgpu.VertexFormatUnorm8x4
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

// Stride is the size in bytes of one element.
func (f DataFormat) Stride() uint64 {
	switch f {
	case FormatFloat32x2:
		return 8
	case FormatFloat32x3:
		return 12
	case FormatUnorm8x4:
		return 4
	default:
		return 16
	}
}

// Data is a typed attribute array that can be uploaded as a vertex buffer.
type Data interface {
	Len() int
	Format() DataFormat
	Bytes() []byte
}

type Vec2Array []mgl32.Vec2
type Vec3Array []mgl32.Vec3
type Vec4Array []mgl32.Vec4

// UByteVec4Array holds normalized 8-bit RGBA values.
type UByteVec4Array [][4]uint8

func (a Vec2Array) Len() int           { return len(a) }
func (a Vec2Array) Format() DataFormat { return FormatFloat32x2 }
func (a Vec2Array) Bytes() []byte      { return wgpu.ToBytes([]mgl32.Vec2(a)) }

func (a Vec3Array) Len() int           { return len(a) }
func (a Vec3Array) Format() DataFormat { return FormatFloat32x3 }
func (a Vec3Array) Bytes() []byte      { return wgpu.ToBytes([]mgl32.Vec3(a)) }

func (a Vec4Array) Len() int           { return len(a) }
func (a Vec4Array) Format() DataFormat { return FormatFloat32x4 }
func (a Vec4Array) Bytes() []byte      { return wgpu.ToBytes([]mgl32.Vec4(a)) }

func (a UByteVec4Array) Len() int           { return len(a) }
func (a UByteVec4Array) Format() DataFormat { return FormatUnorm8x4 }
func (a UByteVec4Array) Bytes() []byte      { return wgpu.ToBytes([][4]uint8(a)) }

// dataLen tolerates nil interfaces holding nothing.
func dataLen(d Data) int {
	if d == nil {
		return 0
	}
	return d.Len()
}
