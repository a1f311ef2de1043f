package shaders

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed shape.wgsl.tmpl
var shapeTemplateSource string

var shapeTemplate = template.Must(template.New("shape").Parse(shapeTemplateSource))

// Features selects a variant of the shape shader.
type Features struct {
	Lighting              bool
	Billboard             bool
	InstancePositionsVec3 bool
	Texture               bool
	Displacement          bool
}

// Name is a short label used for shader modules and pipelines.
func (f Features) Name() string {
	parts := []string{"shape"}
	if f.Lighting {
		parts = append(parts, "phong")
	} else {
		parts = append(parts, "flat")
	}
	if f.Billboard {
		parts = append(parts, "billboard")
	}
	if f.InstancePositionsVec3 {
		parts = append(parts, "instanced")
	}
	if f.Texture {
		parts = append(parts, "textured")
	}
	if f.Displacement {
		parts = append(parts, "displaced")
	}
	return strings.Join(parts, "_")
}

// Generate returns the WGSL source for the given features.
func Generate(f Features) (string, error) {
	var sb strings.Builder
	if err := shapeTemplate.Execute(&sb, f); err != nil {
		return "", fmt.Errorf("generate %s: %w", f.Name(), err)
	}
	return sb.String(), nil
}
