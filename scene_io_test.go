package gekko

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testScene() *Group {
	builder := NewBuilder(nil)
	builder.Segments = 4
	info := NewGeometryInfo()
	info.CullNode = true
	info.Positions = Vec3Array{{1, 2, 3}, {4, 5, 6}}
	info.Colors = UByteVec4Array{{255, 0, 0, 255}, {0, 255, 0, 255}}

	scene := NewGroup()
	scene.AddChild(builder.CreateCylinder(info, NewStateInfo()))
	return scene
}

func TestEncodeScene_JSON(t *testing.T) {
	data, err := EncodeScene(testScene(), ".json")
	require.NoError(t, err)

	var file sceneFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, sceneFormatVersion, file.Format)
	assert.Equal(t, "Group", file.Root.Type)

	require.Len(t, file.Root.Children, 1)
	cull := file.Root.Children[0]
	assert.Equal(t, "CullNode", cull.Type)
	require.NotNil(t, cull.Bound)
	assert.Greater(t, cull.Bound.Radius, 0.0)

	require.Len(t, cull.Children, 1)
	stateGroup := cull.Children[0]
	assert.Equal(t, "StateGroup", stateGroup.Type)
	require.Len(t, file.States, 1)
	assert.Equal(t, file.States[0].ID, stateGroup.State)
	assert.Equal(t, "phong", file.States[0].Shader)

	require.Len(t, stateGroup.Children, 1)
	geometry := stateGroup.Children[0].Geometry
	require.NotNil(t, geometry)
	assert.Equal(t, "triangles", geometry.Topology)
	assert.Equal(t, uint32(2), geometry.InstanceCount)

	arrays := map[string]arrayRecord{}
	for _, a := range file.Arrays {
		arrays[a.ID] = a
	}
	assert.Len(t, arrays, 5)
	assert.Equal(t, "vec3", arrays[geometry.InstancePositions].Format)
	assert.Equal(t, [][]float32{{1, 2, 3}, {4, 5, 6}}, arrays[geometry.InstancePositions].Values)
	assert.Equal(t, "ubvec4", arrays[geometry.InstanceColors].Format)
	assert.Equal(t, [][]float32{{255, 0, 0, 255}, {0, 255, 0, 255}}, arrays[geometry.InstanceColors].Values)
	assert.Equal(t, "vec2", arrays[geometry.TexCoords].Format)
}

func TestEncodeScene_SharedArraysWrittenOnce(t *testing.T) {
	options := NewOptions()
	options.SharedObjects = NewSharedObjects()
	builder := NewBuilder(options)

	scene := NewGroup()
	scene.AddChild(builder.CreateCylinder(NewGeometryInfo(), NewStateInfo()))
	scene.AddChild(builder.CreateCylinder(NewGeometryInfo(), NewStateInfo()))

	data, err := EncodeScene(scene, ".json")
	require.NoError(t, err)

	var file sceneFile
	require.NoError(t, json.Unmarshal(data, &file))
	require.Len(t, file.Root.Children, 2)
	assert.Len(t, file.States, 1)
	assert.Len(t, file.Arrays, 3)

	first := file.Root.Children[0].Children[0].Geometry
	second := file.Root.Children[1].Children[0].Geometry
	assert.Equal(t, first.Vertices, second.Vertices)
}

func TestEncodeScene_YAMLAndTOML(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".YAML"} {
		data, err := EncodeScene(testScene(), ext)
		require.NoError(t, err, ext)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(data, &doc), ext)
		assert.Equal(t, sceneFormatVersion, doc["format"])
	}

	data, err := EncodeScene(testScene(), ".toml")
	require.NoError(t, err)
	var doc map[string]any
	_, err = toml.Decode(string(data), &doc)
	require.NoError(t, err)
	assert.Equal(t, sceneFormatVersion, doc["format"])
	root, ok := doc["root"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Group", root["type"])
}

func TestEncodeScene_UnsupportedFormat(t *testing.T) {
	_, err := EncodeScene(testScene(), ".vsgt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteScene(t *testing.T) {
	dir := t.TempDir()

	filename := filepath.Join(dir, "scene.json")
	require.NoError(t, WriteScene(testScene(), filename, nil))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), sceneFormatVersion)

	bad := filepath.Join(dir, "scene.abc")
	err = WriteScene(testScene(), bad, NewOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoFileExists(t, bad)
}
