package graph

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// wire is the serialized shape of a Graph. Nodes are kept as an ordered list
// so that serialize -> deserialize reproduces the graph exactly, including
// iteration order.
type wire struct {
	Name    string       `json:"name" yaml:"name"`
	Nodes   []*Node      `json:"nodes" yaml:"nodes"`
	Outputs []OutputDecl `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

func (g *Graph) toWire() wire {
	return wire{
		Name:    g.Name,
		Nodes:   g.Nodes(),
		Outputs: g.Outputs,
	}
}

func fromWire(w wire) (*Graph, error) {
	g := newBare(w.Name)
	for _, n := range w.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	g.Outputs = w.Outputs
	return g, nil
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.toWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := fromWire(w)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}

// DecodeJSON deserializes a graph definition from its JSON form.
func DecodeJSON(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph JSON: %w", err)
	}
	return &g, nil
}

// EncodeJSON serializes a graph definition to its canonical JSON form.
func EncodeJSON(g *Graph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph JSON: %w", err)
	}
	return data, nil
}

// DecodeYAML deserializes a graph definition from its YAML form.
func DecodeYAML(data []byte) (*Graph, error) {
	var w wire
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode graph YAML: %w", err)
	}
	return fromWire(w)
}

// EncodeYAML serializes a graph definition to YAML.
func EncodeYAML(g *Graph) ([]byte, error) {
	data, err := yaml.Marshal(g.toWire())
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph YAML: %w", err)
	}
	return data, nil
}
