package opts

// FieldDescriptor describes one option as persisted.
type FieldDescriptor struct {
	Path            string `json:"path"`
	Type            string `json:"type"`
	Option          string `json:"option"`
	Default         any    `json:"default"`
	Arg             string `json:"arg,omitempty"`
	RequiresRestart bool   `json:"requires_restart,omitempty"`
	Local           bool   `json:"local,omitempty"`
	Rule            string `json:"rule,omitempty"`
}

// DefaultSchemaGenerator returns the built-in descriptor-based schema
// generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(defs []Definition) (SchemaDocument, error) {
	descriptors := make([]FieldDescriptor, 0, len(defs))
	for _, def := range defs {
		descriptors = append(descriptors, FieldDescriptor{
			Path:            def.Key,
			Type:            def.Kind.String(),
			Option:          def.Name,
			Default:         def.Default.Interface(),
			Arg:             def.Arg,
			RequiresRestart: def.RequiresRestart,
			Local:           def.Local,
			Rule:            def.Rule,
		})
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}
