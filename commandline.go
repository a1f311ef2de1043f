package gekko

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// CommandLine consumes options from an argument list. Each successful read
// removes the option and its values, so whatever remains afterwards was not
// recognised. Options may take several space separated values, e.g.
// "--window 800 600".
type CommandLine struct {
	args   []string
	errors []string
}

// NewCommandLine copies args, which must not include the program name.
func NewCommandLine(args []string) *CommandLine {
	return &CommandLine{args: slices.Clone(args)}
}

// Args returns the arguments not consumed yet.
func (c *CommandLine) Args() []string {
	return slices.Clone(c.args)
}

func (c *CommandLine) find(names []string) int {
	return slices.IndexFunc(c.args, func(arg string) bool {
		return slices.Contains(names, arg)
	})
}

// Read reports whether any of names is present and removes it.
func (c *CommandLine) Read(names ...string) bool {
	idx := c.find(names)
	if idx < 0 {
		return false
	}
	c.args = slices.Delete(c.args, idx, idx+1)
	return true
}

// readValues removes the option and up to n following tokens. It returns
// nil when the option is absent or has too few values.
func (c *CommandLine) readValues(n int, names []string) []string {
	idx := c.find(names)
	if idx < 0 {
		return nil
	}
	end := min(idx+1+n, len(c.args))
	values := slices.Clone(c.args[idx+1 : end])
	c.args = slices.Delete(c.args, idx, end)
	if len(values) < n {
		c.addError("%s expects %d value(s), got %d", optionName(names), n, len(values))
		return nil
	}
	return values
}

func optionName(names []string) string {
	return strings.Join(names, "/")
}

func (c *CommandLine) addError(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

// ReadString reads one string value. It reports whether the option was
// present and valid.
func (c *CommandLine) ReadString(value *string, names ...string) bool {
	values := c.readValues(1, names)
	if values == nil {
		return false
	}
	*value = values[0]
	return true
}

// ReadInts reads len(values) integers following the option.
func (c *CommandLine) ReadInts(values []*int, names ...string) bool {
	tokens := c.readValues(len(values), names)
	if tokens == nil {
		return false
	}
	parsed := make([]int, len(values))
	for i, token := range tokens {
		v, err := strconv.Atoi(token)
		if err != nil {
			c.addError("%s: invalid integer %q", optionName(names), token)
			return false
		}
		parsed[i] = v
	}
	for i, v := range parsed {
		*values[i] = v
	}
	return true
}

func (c *CommandLine) ReadInt(value *int, names ...string) bool {
	return c.ReadInts([]*int{value}, names...)
}

func (c *CommandLine) ReadUint32(value *uint32, names ...string) bool {
	tokens := c.readValues(1, names)
	if tokens == nil {
		return false
	}
	v, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		c.addError("%s: invalid unsigned integer %q", optionName(names), tokens[0])
		return false
	}
	*value = uint32(v)
	return true
}

// ReadFloat32s fills values from the tokens following the option.
func (c *CommandLine) ReadFloat32s(values []float32, names ...string) bool {
	tokens := c.readValues(len(values), names)
	if tokens == nil {
		return false
	}
	parsed := make([]float32, len(values))
	for i, token := range tokens {
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			c.addError("%s: invalid number %q", optionName(names), token)
			return false
		}
		parsed[i] = float32(v)
	}
	copy(values, parsed)
	return true
}

func (c *CommandLine) ReadVec3(value *mgl32.Vec3, names ...string) bool {
	return c.ReadFloat32s(value[:], names...)
}

func (c *CommandLine) ReadVec4(value *mgl32.Vec4, names ...string) bool {
	return c.ReadFloat32s(value[:], names...)
}

// ReportUnknownOptions records an error for every remaining token that
// looks like an option. Negative numbers are not options.
func (c *CommandLine) ReportUnknownOptions() {
	for _, arg := range c.args {
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}
		if _, err := strconv.ParseFloat(arg, 64); err == nil {
			continue
		}
		c.addError("unknown option %s", arg)
	}
}

// Errors returns the collected error messages.
func (c *CommandLine) Errors() []string {
	return slices.Clone(c.errors)
}

// WriteErrorMessages prints the errors to w and returns the exit status to
// use: 1 when there were errors, 0 otherwise.
func (c *CommandLine) WriteErrorMessages(w io.Writer) int {
	if len(c.errors) == 0 {
		return 0
	}
	for _, msg := range c.errors {
		fmt.Fprintln(w, msg)
	}
	return 1
}
