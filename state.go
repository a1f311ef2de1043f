package gekko

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/firstshape/shaders"
)

// StateInfo selects how a built shape is shaded.
type StateInfo struct {
	Lighting  bool
	TwoSided  bool
	Blending  bool
	Wireframe bool
	Billboard bool

	// InstancePositionsVec3 marks per-instance vec3 offsets; billboards use
	// vec4 positions instead.
	InstancePositionsVec3 bool
	// InstanceColorsVec4 selects float colours; false means 8-bit colours.
	InstanceColorsVec4 bool

	Image           *Image
	DisplacementMap *Image
}

func NewStateInfo() StateInfo {
	return StateInfo{
		Lighting:           true,
		InstanceColorsVec4: true,
	}
}

type PhongMaterial struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Emissive  mgl32.Vec4
	Shininess float32
	AlphaMask float32
}

func DefaultPhongMaterial() PhongMaterial {
	return PhongMaterial{
		Ambient:   mgl32.Vec4{1, 1, 1, 1},
		Diffuse:   mgl32.Vec4{1, 1, 1, 1},
		Specular:  mgl32.Vec4{0, 0, 0, 1},
		Emissive:  mgl32.Vec4{0, 0, 0, 1},
		Shininess: 100,
		AlphaMask: 1,
	}
}

func (m PhongMaterial) String() string {
	return fmt.Sprintf("PhongMaterial{ambient=%v diffuse=%v specular=%v emissive=%v shininess=%g}",
		m.Ambient, m.Diffuse, m.Specular, m.Emissive, m.Shininess)
}

// materialUniform mirrors the Material struct in shape.wgsl.tmpl.
type materialUniform struct {
	Ambient   [4]float32
	Diffuse   [4]float32
	Specular  [4]float32
	Emissive  [4]float32
	Shininess float32
	AlphaMask float32
	_         [2]float32
}

func (m PhongMaterial) uniform() materialUniform {
	return materialUniform{
		Ambient:   m.Ambient,
		Diffuse:   m.Diffuse,
		Specular:  m.Specular,
		Emissive:  m.Emissive,
		Shininess: m.Shininess,
		AlphaMask: m.AlphaMask,
	}
}

type ShaderKind int

const (
	ShaderFlat ShaderKind = iota
	ShaderPhong
)

func (k ShaderKind) String() string {
	if k == ShaderPhong {
		return "phong"
	}
	return "flat"
}

// DescriptorBinding names a resource slot of a shader set. Data carries the
// default value bound there.
type DescriptorBinding struct {
	Name    string
	Set     uint32
	Binding uint32
	Data    any
}

type ShaderSet struct {
	Kind     ShaderKind
	Bindings []*DescriptorBinding
}

func newShaderSet(kind ShaderKind) *ShaderSet {
	return &ShaderSet{
		Kind: kind,
		Bindings: []*DescriptorBinding{
			{Name: "camera", Set: 0, Binding: 0},
			{Name: "material", Set: 0, Binding: 1, Data: DefaultPhongMaterial()},
			{Name: "diffuseMap", Set: 1, Binding: 0},
			{Name: "displacementMap", Set: 1, Binding: 2},
		},
	}
}

func CreateFlatShadedShaderSet(options *Options) *ShaderSet {
	return newShaderSet(ShaderFlat)
}

func CreatePhongShaderSet(options *Options) *ShaderSet {
	return newShaderSet(ShaderPhong)
}

// DescriptorBinding returns the binding with the given name or nil.
func (s *ShaderSet) DescriptorBinding(name string) *DescriptorBinding {
	for _, b := range s.Bindings {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Material returns the material bound to the "material" slot, falling back
// to the default Phong material.
func (s *ShaderSet) Material() PhongMaterial {
	if b := s.DescriptorBinding("material"); b != nil {
		if m, ok := b.Data.(PhongMaterial); ok {
			return m
		}
		if m, ok := b.Data.(*PhongMaterial); ok && m != nil {
			return *m
		}
	}
	return DefaultPhongMaterial()
}

// PipelineState is the resolved state a StateGroup applies.
type PipelineState struct {
	StateInfo
	ShaderSet *ShaderSet
	Material  PhongMaterial

	InstancePositions bool
	InstanceColors    bool
}

// Features returns the shader variant this state needs.
func (s *PipelineState) Features() shaders.Features {
	return shaders.Features{
		Lighting:              s.Lighting && s.ShaderSet != nil && s.ShaderSet.Kind == ShaderPhong,
		Billboard:             s.Billboard && s.InstancePositions,
		InstancePositionsVec3: s.InstancePositions && !s.Billboard,
		Texture:               s.Image != nil,
		Displacement:          s.DisplacementMap != nil,
	}
}

// Key identifies pipeline states that can share GPU objects.
func (s *PipelineState) Key() string {
	kind := ShaderFlat
	if s.ShaderSet != nil {
		kind = s.ShaderSet.Kind
	}
	return fmt.Sprintf("%v|two=%v|blend=%v|wire=%v|bb=%v|ipos=%v|icol=%v|icolvec4=%v|img=%s|disp=%s|mat=%v",
		kind, s.TwoSided, s.Blending, s.Wireframe, s.Billboard,
		s.InstancePositions, s.InstanceColors, s.InstanceColorsVec4,
		s.Image.id(), s.DisplacementMap.id(), s.Material)
}
