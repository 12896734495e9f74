package openapi

import (
	"fmt"

	opts "github.com/imchaeyun/wallet-options"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs an OpenAPI-compatible schema generator for the
// option catalogue.
func NewGenerator(options ...GeneratorOption) opts.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option returns an opts.Option that wires the OpenAPI schema generator into
// a Model.
func Option(options ...GeneratorOption) opts.Option {
	return opts.WithSchemaGenerator(NewGenerator(options...))
}

func (g generator) Generate(defs []opts.Definition) (opts.SchemaDocument, error) {
	properties := make(map[string]any, len(defs))
	for _, def := range defs {
		if def.Local && !g.config.includeLocal {
			continue
		}
		property, err := propertySchema(def)
		if err != nil {
			return opts.SchemaDocument{}, err
		}
		properties[def.Key] = property
	}
	settings := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	document, err := newDocumentBuilder(g.config, settings).build()
	if err != nil {
		return opts.SchemaDocument{}, err
	}
	return opts.SchemaDocument{
		Format:   opts.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}

func propertySchema(def opts.Definition) (map[string]any, error) {
	schema := map[string]any{
		"title":    def.Name,
		"default":  def.Default.Interface(),
		"x-option": def.Name,
	}
	switch def.Kind {
	case opts.KindBool:
		schema["type"] = "boolean"
	case opts.KindInt:
		schema["type"] = "integer"
		if lo, hi, ok := ruleBounds(def.Rule); ok {
			schema["minimum"] = lo
			schema["maximum"] = hi
		}
	case opts.KindString:
		schema["type"] = "string"
	default:
		return nil, fmt.Errorf("openapi: option %s has unsupported kind %s", def.Name, def.Kind)
	}
	if def.Rule != "" {
		schema["x-rule"] = def.Rule
	}
	if def.Arg != "" {
		schema["x-override-arg"] = def.Arg
	}
	if def.RequiresRestart {
		schema["x-requires-restart"] = true
	}
	if def.Local {
		schema["x-local"] = true
	}
	return schema, nil
}

// ruleBounds extracts the inclusive range of rules written as
// "value >= lo && value <= hi".
func ruleBounds(rule string) (int, int, bool) {
	var lo, hi int
	if _, err := fmt.Sscanf(rule, "value >= %d && value <= %d", &lo, &hi); err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
