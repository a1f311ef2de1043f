package gekko

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCommandLine_ReadFlags(t *testing.T) {
	cl := NewCommandLine([]string{"--cull", "-d", "file.vsgt"})

	assert.True(t, cl.Read("--debug", "-d"))
	assert.False(t, cl.Read("--debug", "-d"))
	assert.True(t, cl.Read("--cull"))
	assert.False(t, cl.Read("--api", "-a"))
	assert.Equal(t, []string{"file.vsgt"}, cl.Args())
	assert.Empty(t, cl.Errors())
}

func TestCommandLine_ReadValues(t *testing.T) {
	cl := NewCommandLine([]string{
		"-w", "800", "600",
		"--dx", "2", "-0.5", "1e1",
		"--specular", "1", "0.5", "0.25", "1",
		"-n", "10",
		"-o", "out.json",
	})

	var width, height int
	assert.True(t, cl.ReadInts([]*int{&width, &height}, "--window", "-w"))
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)

	var dx mgl32.Vec3
	assert.True(t, cl.ReadVec3(&dx, "--dx"))
	assert.Equal(t, mgl32.Vec3{2, -0.5, 10}, dx)

	var specular mgl32.Vec4
	assert.True(t, cl.ReadVec4(&specular, "--specular"))
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0.25, 1}, specular)

	var count uint32
	assert.True(t, cl.ReadUint32(&count, "-n"))
	assert.Equal(t, uint32(10), count)

	var output string
	assert.True(t, cl.ReadString(&output, "-o"))
	assert.Equal(t, "out.json", output)

	assert.Empty(t, cl.Args())
	cl.ReportUnknownOptions()
	assert.Empty(t, cl.Errors())
}

func TestCommandLine_MissingValues(t *testing.T) {
	cl := NewCommandLine([]string{"--window", "800"})

	width, height := 1, 2
	assert.False(t, cl.ReadInts([]*int{&width, &height}, "--window", "-w"))
	assert.Equal(t, 1, width)
	assert.Equal(t, 2, height)
	assert.Equal(t, []string{"--window/-w expects 2 value(s), got 1"}, cl.Errors())
	assert.Empty(t, cl.Args())
}

func TestCommandLine_InvalidValues(t *testing.T) {
	cl := NewCommandLine([]string{"-n", "-3", "--screen", "x", "--diffuse", "1", "a", "1", "1"})

	var count uint32
	assert.False(t, cl.ReadUint32(&count, "-n"))
	var screen int
	assert.False(t, cl.ReadInt(&screen, "--screen"))
	diffuse := mgl32.Vec4{9, 9, 9, 9}
	assert.False(t, cl.ReadVec4(&diffuse, "--diffuse"))
	assert.Equal(t, mgl32.Vec4{9, 9, 9, 9}, diffuse)

	assert.Equal(t, []string{
		`-n: invalid unsigned integer "-3"`,
		`--screen: invalid integer "x"`,
		`--diffuse: invalid number "a"`,
	}, cl.Errors())

	var buf bytes.Buffer
	assert.Equal(t, 1, cl.WriteErrorMessages(&buf))
	assert.Contains(t, buf.String(), `-n: invalid unsigned integer "-3"`+"\n")
}

func TestCommandLine_ReportUnknownOptions(t *testing.T) {
	cl := NewCommandLine([]string{"--bogus", "-1.5", "-", "model.obj", "-x"})
	cl.ReportUnknownOptions()
	assert.Equal(t, []string{"unknown option --bogus", "unknown option -x"}, cl.Errors())
}

func TestCommandLine_NoErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, NewCommandLine(nil).WriteErrorMessages(&buf))
	assert.Empty(t, buf.String())
}
