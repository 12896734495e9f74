package opts

import (
	"encoding/json"
)

// Trace captures how the effective value of one option was resolved across
// the override, settings and defaults layers.
type Trace struct {
	Option string       `json:"option"`
	Key    string       `json:"key"`
	Layers []Provenance `json:"layers"`
}

// Provenance details what a single layer holds for the traced option.
type Provenance struct {
	Scope     Scope `json:"scope"`
	Value     any   `json:"value,omitempty"`
	Found     bool  `json:"found"`
	Effective bool  `json:"effective,omitempty"`
}

// Effective returns the layer that supplied the effective value.
func (t Trace) Effective() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Effective {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace for logging or CLI output.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

func traceFromStack(def Definition, stack *Stack) Trace {
	trace := Trace{Option: def.Name, Key: def.Key}
	effective, ok := stack.Effective()
	for _, layer := range stack.Layers() {
		p := Provenance{Scope: layer.Scope, Found: layer.Found}
		if layer.Found {
			p.Value = layer.Value.Interface()
			p.Effective = ok && layer.Scope == effective.Scope
		}
		trace.Layers = append(trace.Layers, p)
	}
	return trace
}
