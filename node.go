package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Node is an element of the retained scene graph: *Group, *StateGroup,
// *CullNode or *Geometry.
type Node interface {
	children() []Node
}

// Group holds an ordered list of children.
type Group struct {
	Children []Node
}

func NewGroup() *Group {
	return &Group{}
}

func (g *Group) AddChild(n Node) {
	g.Children = append(g.Children, n)
}

func (g *Group) children() []Node { return g.Children }

// StateGroup applies a pipeline state to every geometry below it.
type StateGroup struct {
	State    *PipelineState
	Children []Node
}

func (g *StateGroup) AddChild(n Node) {
	g.Children = append(g.Children, n)
}

func (g *StateGroup) children() []Node { return g.Children }

// CullNode skips its child when Bound lies outside the view frustum.
type CullNode struct {
	Bound Sphere
	Child Node
}

func (c *CullNode) children() []Node {
	if c.Child == nil {
		return nil
	}
	return []Node{c.Child}
}

type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyLineList
)

func (t Topology) String() string {
	if t == TopologyLineList {
		return "lines"
	}
	return "triangles"
}

// Geometry is an indexed mesh, optionally drawn once per instance.
type Geometry struct {
	Vertices  Vec3Array
	Normals   Vec3Array
	TexCoords Vec2Array
	Indices   []uint32
	Topology  Topology

	// InstancePositions is a Vec3Array (offsets) or, for billboards, a
	// Vec4Array whose w component is the scale distance.
	InstancePositions Data
	// InstanceColors is a Vec4Array or an UByteVec4Array.
	InstanceColors Data
	InstanceCount  uint32

	// Color is used when InstanceColors is nil.
	Color mgl32.Vec4
}

func (g *Geometry) children() []Node { return nil }

// DrawCount returns the number of instances drawn, at least one.
func (g *Geometry) DrawCount() uint32 {
	if g.InstanceCount == 0 {
		return 1
	}
	return g.InstanceCount
}

// Walk visits n and its descendants depth first. Returning false from visit
// skips the children of that node.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.children() {
		Walk(child, visit)
	}
}

// LocalBounds returns the bounds of the mesh vertices, ignoring instancing.
func (g *Geometry) LocalBounds() Box {
	box := NewBox()
	for _, v := range g.Vertices {
		box.AddVec3(v)
	}
	return box
}

// Bounds returns the bounds of every drawn instance. Billboard instances are
// approximated by a sphere of the mesh radius around each centre.
func (g *Geometry) Bounds() Box {
	local := g.LocalBounds()
	if !local.Valid() || g.InstancePositions == nil {
		return local
	}

	box := NewBox()
	switch positions := g.InstancePositions.(type) {
	case Vec3Array:
		for _, p := range positions {
			offset := mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
			box.Add(local.Min.Add(offset))
			box.Add(local.Max.Add(offset))
		}
	case Vec4Array:
		r := local.Diagonal() * 0.5
		extent := mgl64.Vec3{r, r, r}
		for _, p := range positions {
			center := mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
			box.Add(center.Sub(extent))
			box.Add(center.Add(extent))
		}
	}
	return box
}

// ComputeBounds returns the union of all geometry bounds under n.
func ComputeBounds(n Node) Box {
	box := NewBox()
	Walk(n, func(node Node) bool {
		if g, ok := node.(*Geometry); ok {
			box.AddBox(g.Bounds())
		}
		return true
	})
	return box
}
