package gekko

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// GeometryInfo describes where and how a shape is built. Dx, Dy and Dz span
// the shape; Positions and Colors turn it into an instanced draw.
type GeometryInfo struct {
	Position  mgl32.Vec3
	Dx        mgl32.Vec3
	Dy        mgl32.Vec3
	Dz        mgl32.Vec3
	Color     mgl32.Vec4
	Transform mgl32.Mat4

	// Positions is a Vec3Array of offsets or a Vec4Array of billboard
	// centres with scale distance in w.
	Positions Data
	// Colors is a Vec4Array or UByteVec4Array, one entry per instance.
	Colors Data

	CullNode bool
}

func NewGeometryInfo() GeometryInfo {
	return GeometryInfo{
		Dx:        mgl32.Vec3{1, 0, 0},
		Dy:        mgl32.Vec3{0, 1, 0},
		Dz:        mgl32.Vec3{0, 0, 1},
		Color:     mgl32.Vec4{1, 1, 1, 1},
		Transform: mgl32.Ident4(),
	}
}

// meshKey covers the fields that change generated vertices.
func (info GeometryInfo) meshKey(kind string, segments int, wireframe bool) string {
	return fmt.Sprintf("%s|%d|%v|%v|%v|%v|%v|%v", kind, segments, wireframe,
		info.Position, info.Dx, info.Dy, info.Dz, info.Transform)
}

type mesh struct {
	vertices  Vec3Array
	normals   Vec3Array
	texCoords Vec2Array
	indices   []uint32
	topology  Topology
}

// SharedObjects deduplicates meshes, pipeline states and images built with
// the same inputs.
type SharedObjects struct {
	mu     sync.Mutex
	meshes map[string]*mesh
	states map[string]*PipelineState
	images map[string]*Image
	hits   int
}

func NewSharedObjects() *SharedObjects {
	return &SharedObjects{
		meshes: make(map[string]*mesh),
		states: make(map[string]*PipelineState),
		images: make(map[string]*Image),
	}
}

// Hits returns how many lookups were served from the cache.
func (s *SharedObjects) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *SharedObjects) mesh(key string, create func() *mesh) *mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meshes[key]; ok {
		s.hits++
		return m
	}
	m := create()
	s.meshes[key] = m
	return m
}

func (s *SharedObjects) state(st *PipelineState) *PipelineState {
	key := st.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.states[key]; ok {
		s.hits++
		return existing
	}
	s.states[key] = st
	return st
}

func (s *SharedObjects) image(path string, load func() (*Image, error)) (*Image, error) {
	s.mu.Lock()
	if img, ok := s.images[path]; ok {
		s.hits++
		s.mu.Unlock()
		return img, nil
	}
	s.mu.Unlock()

	img, err := load()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.images[path]; ok {
		return existing, nil
	}
	s.images[path] = img
	return img, nil
}

const defaultCylinderSegments = 32

// Builder creates shape subgraphs.
type Builder struct {
	Options *Options
	// ShaderSet overrides the flat/Phong set picked from StateInfo.Lighting.
	ShaderSet *ShaderSet
	Segments  int
}

func NewBuilder(options *Options) *Builder {
	if options == nil {
		options = NewOptions()
	}
	return &Builder{
		Options:  options,
		Segments: defaultCylinderSegments,
	}
}

func (b *Builder) sharedObjects() *SharedObjects {
	if b.Options == nil {
		return nil
	}
	return b.Options.SharedObjects
}

// CreateCylinder builds a capped cylinder centred on info.Position with
// radius 0.5|Dx| by 0.5|Dy| and height |Dz|.
func (b *Builder) CreateCylinder(info GeometryInfo, state StateInfo) Node {
	segments := b.Segments
	if segments < 3 {
		segments = defaultCylinderSegments
	}

	create := func() *mesh {
		m := cylinderMesh(info, segments)
		if state.Wireframe {
			m.indices = lineIndices(m.indices)
			m.topology = TopologyLineList
		}
		return m
	}

	var m *mesh
	if shared := b.sharedObjects(); shared != nil {
		m = shared.mesh(info.meshKey("cylinder", segments, state.Wireframe), create)
	} else {
		m = create()
	}

	geometry := &Geometry{
		Vertices:          m.vertices,
		Normals:           m.normals,
		TexCoords:         m.texCoords,
		Indices:           m.indices,
		Topology:          m.topology,
		InstancePositions: info.Positions,
		InstanceColors:    info.Colors,
		Color:             info.Color,
	}
	if n := max(dataLen(info.Positions), dataLen(info.Colors)); n > 0 {
		geometry.InstanceCount = uint32(n)
	}

	stateGroup := &StateGroup{State: b.pipelineState(state, info)}
	stateGroup.AddChild(geometry)

	if info.CullNode {
		return &CullNode{
			Bound: SphereFromBox(geometry.Bounds()),
			Child: stateGroup,
		}
	}
	return stateGroup
}

func (b *Builder) pipelineState(state StateInfo, info GeometryInfo) *PipelineState {
	shaderSet := b.ShaderSet
	if shaderSet == nil {
		if state.Lighting {
			shaderSet = CreatePhongShaderSet(b.Options)
		} else {
			shaderSet = CreateFlatShadedShaderSet(b.Options)
		}
	}

	st := &PipelineState{
		StateInfo:         state,
		ShaderSet:         shaderSet,
		Material:          shaderSet.Material(),
		InstancePositions: info.Positions != nil,
		InstanceColors:    info.Colors != nil,
	}
	if shared := b.sharedObjects(); shared != nil {
		return shared.state(st)
	}
	return st
}

func cylinderMesh(info GeometryInfo, segments int) *mesh {
	dx := info.Dx.Mul(0.5)
	dy := info.Dy.Mul(0.5)
	dz := info.Dz.Mul(0.5)
	bottom := info.Position.Sub(dz)
	top := info.Position.Add(dz)

	axis := safeNormalize(info.Dz)
	// Left handed bases need the winding flipped to keep faces outward.
	flip := info.Dx.Cross(info.Dy).Dot(info.Dz) < 0

	m := &mesh{topology: TopologyTriangleList}

	// side
	for i := 0; i <= segments; i++ {
		ratio := float32(i) / float32(segments)
		angle := float64(ratio) * 2 * math.Pi
		c, s := float32(math.Cos(angle)), float32(math.Sin(angle))

		dir := dx.Mul(c).Add(dy.Mul(s))
		tangent := dy.Mul(c).Sub(dx.Mul(s))
		normal := safeNormalize(tangent.Cross(axis))
		if normal.Dot(dir) < 0 {
			normal = normal.Mul(-1)
		}

		m.vertices = append(m.vertices, bottom.Add(dir), top.Add(dir))
		m.normals = append(m.normals, normal, normal)
		m.texCoords = append(m.texCoords, mgl32.Vec2{ratio, 0}, mgl32.Vec2{ratio, 1})
	}
	for i := 0; i < segments; i++ {
		b0, t0 := uint32(2*i), uint32(2*i+1)
		b1, t1 := uint32(2*i+2), uint32(2*i+3)
		m.indices = appendTriangle(m.indices, flip, b0, b1, t1)
		m.indices = appendTriangle(m.indices, flip, b0, t1, t0)
	}

	// caps
	appendCap := func(center mgl32.Vec3, normal mgl32.Vec3, up bool) {
		base := uint32(len(m.vertices))
		m.vertices = append(m.vertices, center)
		m.normals = append(m.normals, normal)
		m.texCoords = append(m.texCoords, mgl32.Vec2{0.5, 0.5})
		for i := 0; i <= segments; i++ {
			angle := float64(i) / float64(segments) * 2 * math.Pi
			c, s := float32(math.Cos(angle)), float32(math.Sin(angle))
			m.vertices = append(m.vertices, center.Add(dx.Mul(c)).Add(dy.Mul(s)))
			m.normals = append(m.normals, normal)
			m.texCoords = append(m.texCoords, mgl32.Vec2{0.5 + 0.5*c, 0.5 + 0.5*s})
		}
		for i := 0; i < segments; i++ {
			r0 := base + 1 + uint32(i)
			r1 := r0 + 1
			if up {
				m.indices = appendTriangle(m.indices, flip, base, r0, r1)
			} else {
				m.indices = appendTriangle(m.indices, flip, base, r1, r0)
			}
		}
	}
	appendCap(top, axis, true)
	appendCap(bottom, axis.Mul(-1), false)

	transformMesh(m, info.Transform)
	return m
}

func appendTriangle(indices []uint32, flip bool, a, b, c uint32) []uint32 {
	if flip {
		return append(indices, a, c, b)
	}
	return append(indices, a, b, c)
}

// lineIndices converts a triangle list into its unique edges.
func lineIndices(triangles []uint32) []uint32 {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]struct{}, len(triangles))
	lines := make([]uint32, 0, len(triangles)*2)
	for i := 0; i+2 < len(triangles); i += 3 {
		tri := [3]uint32{triangles[i], triangles[i+1], triangles[i+2]}
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			if _, ok := seen[edge{a, b}]; ok {
				continue
			}
			seen[edge{a, b}] = struct{}{}
			lines = append(lines, a, b)
		}
	}
	return lines
}

func transformMesh(m *mesh, transform mgl32.Mat4) {
	if transform == (mgl32.Mat4{}) || transform == mgl32.Ident4() {
		return
	}
	normalMatrix := transform.Mat3().Inv().Transpose()
	for i, v := range m.vertices {
		m.vertices[i] = mgl32.TransformCoordinate(v, transform)
	}
	for i, n := range m.normals {
		m.normals[i] = safeNormalize(normalMatrix.Mul3x1(n))
	}
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
