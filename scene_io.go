package gekko

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported scene format")

const sceneFormatVersion = "gekko-scene/1"

type sceneFile struct {
	Format string        `json:"format" yaml:"format" toml:"format"`
	Root   nodeRecord    `json:"root" yaml:"root" toml:"root"`
	States []stateRecord `json:"states,omitempty" yaml:"states,omitempty" toml:"states,omitempty"`
	Arrays []arrayRecord `json:"arrays,omitempty" yaml:"arrays,omitempty" toml:"arrays,omitempty"`
	Images []imageRecord `json:"images,omitempty" yaml:"images,omitempty" toml:"images,omitempty"`
}

type nodeRecord struct {
	Type     string          `json:"type" yaml:"type" toml:"type"`
	State    string          `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
	Bound    *sphereRecord   `json:"bound,omitempty" yaml:"bound,omitempty" toml:"bound,omitempty"`
	Geometry *geometryRecord `json:"geometry,omitempty" yaml:"geometry,omitempty" toml:"geometry,omitempty"`
	Children []nodeRecord    `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

type sphereRecord struct {
	Center [3]float64 `json:"center" yaml:"center" toml:"center"`
	Radius float64    `json:"radius" yaml:"radius" toml:"radius"`
}

type geometryRecord struct {
	Topology          string     `json:"topology" yaml:"topology" toml:"topology"`
	Vertices          string     `json:"vertices" yaml:"vertices" toml:"vertices"`
	Normals           string     `json:"normals,omitempty" yaml:"normals,omitempty" toml:"normals,omitempty"`
	TexCoords         string     `json:"texcoords,omitempty" yaml:"texcoords,omitempty" toml:"texcoords,omitempty"`
	Indices           []uint32   `json:"indices" yaml:"indices,flow" toml:"indices"`
	InstancePositions string     `json:"instancePositions,omitempty" yaml:"instancePositions,omitempty" toml:"instancePositions,omitempty"`
	InstanceColors    string     `json:"instanceColors,omitempty" yaml:"instanceColors,omitempty" toml:"instanceColors,omitempty"`
	InstanceCount     uint32     `json:"instanceCount" yaml:"instanceCount" toml:"instanceCount"`
	Color             [4]float32 `json:"color" yaml:"color,flow" toml:"color"`
}

type stateRecord struct {
	ID              string     `json:"id" yaml:"id" toml:"id"`
	Shader          string     `json:"shader" yaml:"shader" toml:"shader"`
	Lighting        bool       `json:"lighting" yaml:"lighting" toml:"lighting"`
	TwoSided        bool       `json:"twoSided" yaml:"twoSided" toml:"twoSided"`
	Blending        bool       `json:"blending" yaml:"blending" toml:"blending"`
	Wireframe       bool       `json:"wireframe" yaml:"wireframe" toml:"wireframe"`
	Billboard       bool       `json:"billboard" yaml:"billboard" toml:"billboard"`
	Ambient         [4]float32 `json:"ambient" yaml:"ambient,flow" toml:"ambient"`
	Diffuse         [4]float32 `json:"diffuse" yaml:"diffuse,flow" toml:"diffuse"`
	Specular        [4]float32 `json:"specular" yaml:"specular,flow" toml:"specular"`
	Emissive        [4]float32 `json:"emissive" yaml:"emissive,flow" toml:"emissive"`
	Shininess       float32    `json:"shininess" yaml:"shininess" toml:"shininess"`
	Image           string     `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
	DisplacementMap string     `json:"displacementMap,omitempty" yaml:"displacementMap,omitempty" toml:"displacementMap,omitempty"`
}

type arrayRecord struct {
	ID     string      `json:"id" yaml:"id" toml:"id"`
	Format string      `json:"format" yaml:"format" toml:"format"`
	Values [][]float32 `json:"values" yaml:"values" toml:"values"`
}

type imageRecord struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	Path   string `json:"path" yaml:"path" toml:"path"`
	Width  uint32 `json:"width" yaml:"width" toml:"width"`
	Height uint32 `json:"height" yaml:"height" toml:"height"`
}

// sceneWriter flattens a graph, writing each shared array, state and image
// once and referring to it by id.
type sceneWriter struct {
	file   sceneFile
	arrays map[string]string
	states map[*PipelineState]string
	images map[*Image]string
}

func newSceneWriter() *sceneWriter {
	return &sceneWriter{
		file:   sceneFile{Format: sceneFormatVersion},
		arrays: make(map[string]string),
		states: make(map[*PipelineState]string),
		images: make(map[*Image]string),
	}
}

func (w *sceneWriter) node(n Node) nodeRecord {
	var rec nodeRecord
	switch node := n.(type) {
	case *Group:
		rec.Type = "Group"
	case *StateGroup:
		rec.Type = "StateGroup"
		rec.State = w.state(node.State)
	case *CullNode:
		rec.Type = "CullNode"
		rec.Bound = &sphereRecord{
			Center: [3]float64{node.Bound.Center[0], node.Bound.Center[1], node.Bound.Center[2]},
			Radius: node.Bound.Radius,
		}
	case *Geometry:
		rec.Type = "Geometry"
		rec.Geometry = &geometryRecord{
			Topology:          node.Topology.String(),
			Vertices:          w.array(node.Vertices),
			Normals:           w.array(node.Normals),
			TexCoords:         w.array(node.TexCoords),
			Indices:           node.Indices,
			InstancePositions: w.array(node.InstancePositions),
			InstanceColors:    w.array(node.InstanceColors),
			InstanceCount:     node.InstanceCount,
			Color:             node.Color,
		}
	default:
		rec.Type = fmt.Sprintf("%T", n)
	}
	if n != nil {
		for _, child := range n.children() {
			rec.Children = append(rec.Children, w.node(child))
		}
	}
	return rec
}

func (w *sceneWriter) array(d Data) string {
	if dataLen(d) == 0 {
		return ""
	}
	// Slices sharing a backing array are the same object.
	key := fmt.Sprintf("%T:%p:%d", d, arrayPointer(d), d.Len())
	if id, ok := w.arrays[key]; ok {
		return id
	}
	id := uuid.NewString()
	w.arrays[key] = id
	w.file.Arrays = append(w.file.Arrays, arrayRecord{
		ID:     id,
		Format: d.Format().String(),
		Values: arrayValues(d),
	})
	return id
}

func arrayPointer(d Data) any {
	switch a := d.(type) {
	case Vec2Array:
		return &a[0]
	case Vec3Array:
		return &a[0]
	case Vec4Array:
		return &a[0]
	case UByteVec4Array:
		return &a[0]
	}
	return d
}

func arrayValues(d Data) [][]float32 {
	values := make([][]float32, 0, d.Len())
	switch a := d.(type) {
	case Vec2Array:
		for _, v := range a {
			values = append(values, []float32{v[0], v[1]})
		}
	case Vec3Array:
		for _, v := range a {
			values = append(values, []float32{v[0], v[1], v[2]})
		}
	case Vec4Array:
		for _, v := range a {
			values = append(values, []float32{v[0], v[1], v[2], v[3]})
		}
	case UByteVec4Array:
		for _, v := range a {
			values = append(values, []float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])})
		}
	}
	return values
}

func (w *sceneWriter) state(st *PipelineState) string {
	if st == nil {
		return ""
	}
	if id, ok := w.states[st]; ok {
		return id
	}
	id := uuid.NewString()
	w.states[st] = id

	shader := ShaderFlat
	if st.ShaderSet != nil {
		shader = st.ShaderSet.Kind
	}
	w.file.States = append(w.file.States, stateRecord{
		ID:              id,
		Shader:          shader.String(),
		Lighting:        st.Lighting,
		TwoSided:        st.TwoSided,
		Blending:        st.Blending,
		Wireframe:       st.Wireframe,
		Billboard:       st.Billboard,
		Ambient:         st.Material.Ambient,
		Diffuse:         st.Material.Diffuse,
		Specular:        st.Material.Specular,
		Emissive:        st.Material.Emissive,
		Shininess:       st.Material.Shininess,
		Image:           w.image(st.Image),
		DisplacementMap: w.image(st.DisplacementMap),
	})
	return id
}

func (w *sceneWriter) image(img *Image) string {
	if img == nil {
		return ""
	}
	if id, ok := w.images[img]; ok {
		return id
	}
	id := img.ID.String()
	w.images[img] = id
	w.file.Images = append(w.file.Images, imageRecord{
		ID:     id,
		Path:   img.Path,
		Width:  img.Width,
		Height: img.Height,
	})
	return id
}

// EncodeScene serialises the graph in the format named by ext (".json",
// ".yaml", ".yml" or ".toml").
func EncodeScene(root Node, ext string) ([]byte, error) {
	w := newSceneWriter()
	w.file.Root = w.node(root)

	switch strings.ToLower(ext) {
	case ".json":
		data, err := json.MarshalIndent(w.file, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		data, err := yaml.Marshal(w.file)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(w.file); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// WriteScene writes the graph to filename, choosing the format from its
// extension.
func WriteScene(root Node, filename string, options *Options) error {
	data, err := EncodeScene(root, filepath.Ext(filename))
	if err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	options.logger().Infof("wrote scene to %s", filename)
	return nil
}
