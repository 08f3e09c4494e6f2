package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type typeProbe struct {
	Type FormType `json:"type" yaml:"type"`
}

// newField allocates the variant for t. Unknown types get an *Unknown so the
// entry survives decoding and is skipped at render time.
func newField(t FormType) Field {
	switch t {
	case FormTypeTextInput:
		return &TextInput{}
	case FormTypeSecretInput:
		return &SecretInput{}
	case FormTypeRadio:
		return &Radio{}
	case FormTypeSelect:
		return &Select{}
	default:
		return &Unknown{Type: t}
	}
}

// UnmarshalJSON decodes the tagged union using the `type` discriminator.
func (s *Schemas) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("schema: decode list: %w", err)
	}

	out := make(Schemas, 0, len(raw))
	for idx, item := range raw {
		var probe typeProbe
		if err := json.Unmarshal(item, &probe); err != nil {
			return fmt.Errorf("schema: decode entry %d: %w", idx, err)
		}
		field := newField(probe.Type)
		if err := json.Unmarshal(item, field); err != nil {
			return fmt.Errorf("schema: decode %s entry %d: %w", probe.Type, idx, err)
		}
		normalize(field)
		out = append(out, field)
	}
	*s = out
	return nil
}

// UnmarshalYAML decodes the tagged union from a YAML sequence node.
func (s *Schemas) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("schema: line %d: expected a sequence of fields", node.Line)
	}

	out := make(Schemas, 0, len(node.Content))
	for idx, item := range node.Content {
		var probe typeProbe
		if err := item.Decode(&probe); err != nil {
			return fmt.Errorf("schema: decode entry %d: %w", idx, err)
		}
		field := newField(probe.Type)
		if err := item.Decode(field); err != nil {
			return fmt.Errorf("schema: decode %s entry %d: %w", probe.Type, idx, err)
		}
		normalize(field)
		out = append(out, field)
	}
	*s = out
	return nil
}

// normalize replaces nil condition slices with empty ones so that callers can
// rely on len() checks regardless of how the entry was written.
func normalize(field Field) {
	base := field.Base()
	if base.ShowOn == nil {
		base.ShowOn = []ShowOnItem{}
	}
	switch f := field.(type) {
	case *Radio:
		normalizeOptions(f.Options)
	case *Select:
		normalizeOptions(f.Options)
	}
}

func normalizeOptions(options []Option) {
	for i := range options {
		if options[i].ShowOn == nil {
			options[i].ShowOn = []ShowOnItem{}
		}
	}
}
