package demo

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	gekko "github.com/gekko3d/firstshape"
)

const WindowTitle = "FirstShape"

// Settings is everything the command line can change.
type Settings struct {
	Traits *gekko.WindowTraits

	Shared         bool
	OutputFilename string

	FloatColors bool
	Wireframe   bool
	Lighting    bool
	TwoSided    bool

	Specular *mgl32.Vec4
	Diffuse  *mgl32.Vec4

	Dx, Dy, Dz mgl32.Vec3
	Cull       bool
	Billboard  bool
	Count      uint32

	ImageFile        string
	DisplacementFile string

	Seed    uint64
	HasSeed bool
	Verbose bool
}

func DefaultSettings() *Settings {
	traits := gekko.NewWindowTraits()
	traits.Title = WindowTitle
	return &Settings{
		Traits:      traits,
		FloatColors: true,
		Lighting:    true,
		Dx:          mgl32.Vec3{1, 0, 0},
		Dy:          mgl32.Vec3{0, 1, 0},
		Dz:          mgl32.Vec3{0, 0, 1},
	}
}

// ParseSettings reads every known option from args. Malformed values and
// unknown options are left in the returned CommandLine's errors.
func ParseSettings(args []string) (*Settings, *gekko.CommandLine) {
	s := DefaultSettings()
	traits := s.Traits
	arguments := gekko.NewCommandLine(args)

	traits.DebugLayer = arguments.Read("--debug", "-d")
	traits.APIDumpLayer = arguments.Read("--api", "-a")
	s.Cull = arguments.Read("--cull")

	if arguments.Read("--fullscreen", "--fs") {
		traits.Fullscreen = true
	}
	if arguments.ReadInts([]*int{&traits.Width, &traits.Height}, "--window", "-w") {
		traits.Fullscreen = false
	}
	arguments.ReadInt(&traits.ScreenNum, "--screen")
	arguments.ReadString(&traits.Display, "--display")

	if arguments.Read("--IMMEDIATE") {
		traits.PresentMode = wgpu.PresentModeImmediate
	}
	if arguments.Read("--double-buffer") {
		traits.ImageCount = 2
	}
	if arguments.Read("--triple-buffer") {
		traits.ImageCount = 3
	}
	if arguments.Read("-t") {
		traits.PresentMode = wgpu.PresentModeImmediate
		traits.Width, traits.Height = 192, 108
		traits.Decoration = false
	}

	s.Shared = arguments.Read("--shared")
	arguments.ReadString(&s.OutputFilename, "-o")

	s.FloatColors = !arguments.Read("--ubvec4-colors")
	s.Wireframe = arguments.Read("--wireframe")
	s.Lighting = !arguments.Read("--flat")
	s.TwoSided = arguments.Read("--two-sided")

	var specular, diffuse mgl32.Vec4
	if arguments.ReadVec4(&specular, "--specular") {
		s.Specular = &specular
	}
	if arguments.ReadVec4(&diffuse, "--diffuse") {
		s.Diffuse = &diffuse
	}

	arguments.ReadVec3(&s.Dx, "--dx")
	arguments.ReadVec3(&s.Dy, "--dy")
	arguments.ReadVec3(&s.Dz, "--dz")

	s.Billboard = arguments.Read("--billboard")
	arguments.ReadUint32(&s.Count, "-n")

	arguments.ReadString(&s.ImageFile, "-i", "--image")
	arguments.ReadString(&s.DisplacementFile, "--dm")

	var seed int
	if arguments.ReadInt(&seed, "--seed") {
		s.Seed, s.HasSeed = uint64(seed), true
	}
	s.Verbose = arguments.Read("--verbose", "-v")

	arguments.ReportUnknownOptions()
	return s, arguments
}

// GeometryInfo returns the shape description at the origin.
func (s *Settings) GeometryInfo() gekko.GeometryInfo {
	info := gekko.NewGeometryInfo()
	info.Dx, info.Dy, info.Dz = s.Dx, s.Dy, s.Dz
	info.CullNode = s.Cull
	return info
}

// StateInfo returns the shading flags; images are attached by the caller.
func (s *Settings) StateInfo() gekko.StateInfo {
	state := gekko.NewStateInfo()
	state.Wireframe = s.Wireframe
	state.Lighting = s.Lighting
	state.TwoSided = s.TwoSided
	return state
}

// CustomMaterial reports whether the material overrides apply.
func (s *Settings) CustomMaterial() bool {
	return s.Lighting && (s.Specular != nil || s.Diffuse != nil)
}
