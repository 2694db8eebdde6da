package parser

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

var formMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// requestFields lists the top-level properties of the request body schema:
// required properties in declaration order, then the rest sorted.
func requestFields(body *openapi3.RequestBodyRef) []string {
	if body == nil || body.Value == nil {
		return nil
	}
	schema := requestSchema(body.Value.Content)
	if schema == nil {
		return nil
	}

	properties := make(map[string]struct{})
	collectProperties(schema, properties, make(map[*openapi3.Schema]bool))
	if len(properties) == 0 {
		return nil
	}

	fields := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))
	for _, name := range collectRequired(schema, make(map[*openapi3.Schema]bool)) {
		if _, ok := properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}

	rest := make([]string, 0, len(properties))
	for name := range properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(fields, rest...)
}

func requestSchema(content openapi3.Content) *openapi3.Schema {
	for _, mediaType := range formMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// collectProperties merges properties from allOf members.
func collectProperties(schema *openapi3.Schema, into map[string]struct{}, visited map[*openapi3.Schema]bool) {
	if schema == nil || visited[schema] {
		return
	}
	visited[schema] = true
	for name := range schema.Properties {
		into[name] = struct{}{}
	}
	for _, ref := range schema.AllOf {
		if ref != nil {
			collectProperties(ref.Value, into, visited)
		}
	}
}

func collectRequired(schema *openapi3.Schema, visited map[*openapi3.Schema]bool) []string {
	if schema == nil || visited[schema] {
		return nil
	}
	visited[schema] = true
	out := append([]string(nil), schema.Required...)
	for _, ref := range schema.AllOf {
		if ref != nil {
			out = append(out, collectRequired(ref.Value, visited)...)
		}
	}
	return out
}
