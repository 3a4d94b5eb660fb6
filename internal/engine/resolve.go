package engine

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/registry"
)

// resolveInput produces the value for one declared parameter of a node. A
// port-role parameter resolves its binding against the run's current state;
// a field-role parameter reads the node's literal fields. A parameter with
// no resolvable value yields nil, leaving the behavior's zero value in
// place.
func (rs *runState) resolveInput(node *graph.Node, param registry.Param) any {
	switch param.Role {
	case registry.RoleField:
		if v, ok := node.Fields[param.Name]; ok {
			return v
		}
		if b, ok := node.Binding(param.Name); ok && b.IsLiteral() {
			return b.Value
		}
		return nil
	default:
		b, ok := node.Binding(param.Name)
		if !ok {
			if v, ok := node.Fields[param.Name]; ok {
				return v
			}
			return nil
		}
		if b.IsLiteral() {
			return b.Value
		}
		return rs.resolveSource(b)
	}
}

// resolveSource reads a "node.path" data edge. Data edges are pure reads of
// the run state, never execution triggers: the upstream value exists only if
// flow has already reached that node in this run. A missing, cleared, or
// errored upstream resolves to nil.
func (rs *runState) resolveSource(b graph.Binding) any {
	result, ok := rs.state(b.SourceNode()).value()
	if !ok {
		return nil
	}
	if path := b.SourcePath(); path != "" {
		return extractPath(result, path)
	}
	return result
}

// extractPath digs a dotted path out of a result value. Results round-trip
// through JSON so paths address exported struct fields by their JSON names as
// well as map keys and slice indices. An unmatched path yields nil.
func extractPath(result any, path string) any {
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil
	}
	match := gjson.GetBytes(raw, path)
	if !match.Exists() {
		return nil
	}
	return match.Value()
}
