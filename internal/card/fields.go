package card

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Fields is an insertion-ordered collection of name/value pairs.
// Metric columns, evaluation results and hyperparameters all render in the
// order the training harness emitted them, which plain Go maps lose.
type Fields struct {
	names  []string
	values map[string]any
}

// NewFields returns an empty ordered collection.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores value under name. A new name is appended at the end; setting an
// existing name replaces its value but keeps its original position.
func (f *Fields) Set(name string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Get returns the value stored under name.
func (f *Fields) Get(name string) (any, bool) {
	if f == nil || f.values == nil {
		return nil, false
	}
	v, ok := f.values[name]
	return v, ok
}

// Has reports whether name is present.
func (f *Fields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Names returns the field names in insertion order.
func (f *Fields) Names() []string {
	if f == nil {
		return nil
	}
	return f.names
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// String renders the collection the way a Python training harness would have
// printed the same mapping, e.g. {'name': 'Adam', 'learning_rate': 0.001}.
// Existing model cards show optimizer configs in exactly this form, so the
// renderer depends on it.
func (f *Fields) String() string {
	if f == nil {
		return "None"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range f.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(name)
		b.WriteString("': ")
		b.WriteString(reprValue(f.values[name]))
	}
	b.WriteByte('}')
	return b.String()
}

// UnmarshalYAML decodes a mapping node while preserving key order.
// It also handles JSON input since YAML is a superset of JSON, which is how
// harness state files (trainer_state.json and friends) are loaded.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got yaml kind %d (line %d)", node.Kind, node.Line)
	}
	f.names = f.names[:0]
	f.values = make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		v, err := decodeNode(node.Content[i+1])
		if err != nil {
			return err
		}
		f.Set(name, v)
	}
	return nil
}

// MarshalYAML encodes the collection as a mapping with keys in insertion
// order, so a header read from an existing card serializes back unchanged.
func (f *Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if f == nil {
		return node, nil
	}
	for _, name := range f.names {
		var k yaml.Node
		if err := k.Encode(name); err != nil {
			return nil, err
		}
		var v yaml.Node
		if err := v.Encode(f.values[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}

// decodeNode converts a YAML node to a Go value, turning nested mappings into
// *Fields so order survives at every level.
func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		nested := NewFields()
		if err := nested.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return nested, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
