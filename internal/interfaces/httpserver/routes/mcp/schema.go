package mcp

import (
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

var schemaReflector = &jsonschema.Reflector{
	Anonymous:                  true,
	DoNotReference:             true,
	ExpandedStruct:             true,
	RequiredFromJSONSchemaTags: true,
}

// inputSchema reflects the tool argument struct T into an inline JSON schema object.
// Field docs come from `jsonschema:"required,description=...,default=..."` tags.
func inputSchema[T any]() map[string]any {
	schema := schemaReflector.Reflect(new(T))

	data, err := json.Marshal(schema)
	if err != nil {
		panic("mcp: marshal input schema: " + err.Error())
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic("mcp: unmarshal input schema: " + err.Error())
	}
	delete(out, "$schema")
	delete(out, "$id")
	out["type"] = "object"
	return out
}
