package render

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/relatable/relatable/infer"
	"github.com/relatable/relatable/schema"
)

// OpenAPI renders the schema tree as an object schema, relationships
// included as nested objects. Array columns surface with their fallback
// scalar type; the histogram does not track element types.
func OpenAPI(n *schema.Node) *openapi3.Schema {
	ps := make(map[string]*openapi3.SchemaRef, len(n.Fields)+len(n.Relationships))
	rs := make([]string, 0, len(n.Fields)+len(n.Relationships))

	for name, spec := range n.Fields {
		ps[name] = scalarSchema(spec.Inferred).NewRef()
		rs = append(rs, name)
	}
	for name, child := range n.Relationships {
		ps[name] = OpenAPI(child).NewRef()
		rs = append(rs, name)
	}
	sort.Strings(rs)

	return &openapi3.Schema{
		Type:       openapi3.TypeObject,
		Required:   rs,
		Properties: ps,
	}
}

func scalarSchema(t infer.ScalarType) *openapi3.Schema {
	switch t {
	case infer.TypeInteger:
		return &openapi3.Schema{Type: openapi3.TypeInteger}
	case infer.TypeFloat:
		return &openapi3.Schema{Type: openapi3.TypeNumber}
	default:
		return &openapi3.Schema{Type: openapi3.TypeString}
	}
}
