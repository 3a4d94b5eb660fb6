package graph

import "strings"

// Connection is a directed edge from an output port to a downstream node.
// Port optionally names the input parameter on the target that the edge
// feeds; the engine tolerates it being empty since data travels through
// bindings, not edges.
type Connection struct {
	Node string `json:"node" yaml:"node"`
	Port string `json:"port,omitempty" yaml:"port,omitempty"`
}

// Port is a named output connection point on a node.
type Port struct {
	Name        string       `json:"name" yaml:"name"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Binding supplies one input parameter of a node. Exactly one of Source and
// Value is meaningful: a non-empty Source is a path expression into an
// upstream node's result ("nodeID" or "nodeID.path.to.value"), otherwise
// Value is a literal.
type Binding struct {
	Param  string `json:"param" yaml:"param"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsLiteral reports whether the binding carries a literal value.
func (b Binding) IsLiteral() bool { return b.Source == "" }

// SourceNode returns the upstream node id portion of the source expression.
func (b Binding) SourceNode() string {
	node, _ := splitSource(b.Source)
	return node
}

// SourcePath returns the path portion of the source expression, or "" when
// the binding references the upstream result as a whole.
func (b Binding) SourcePath() string {
	_, path := splitSource(b.Source)
	return path
}

// splitSource splits "nodeID.path.to.value" at the first dot. Node ids must
// not contain dots.
func splitSource(source string) (node, path string) {
	if i := strings.IndexByte(source, '.'); i >= 0 {
		return source[:i], source[i+1:]
	}
	return source, ""
}

// Node is one vertex of a workflow graph: a reference to a registered
// behavior plus the concrete parameter bindings and outgoing connections of
// this particular use of it.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Behavior string         `json:"behavior" yaml:"behavior"`
	Fields   map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
	Inputs   []Binding      `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Ports    []Port         `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// Port returns the named output port, if present.
func (n *Node) Port(name string) (*Port, bool) {
	for i := range n.Ports {
		if n.Ports[i].Name == name {
			return &n.Ports[i], true
		}
	}
	return nil, false
}

// ensurePort returns the named output port, declaring it if needed.
func (n *Node) ensurePort(name string) *Port {
	if p, ok := n.Port(name); ok {
		return p
	}
	n.Ports = append(n.Ports, Port{Name: name})
	return &n.Ports[len(n.Ports)-1]
}

// Binding returns the input binding for the named parameter, if present.
func (n *Node) Binding(param string) (Binding, bool) {
	for _, b := range n.Inputs {
		if b.Param == param {
			return b, true
		}
	}
	return Binding{}, false
}

// SetField records a literal-field value on the node.
func (n *Node) SetField(name string, value any) {
	if n.Fields == nil {
		n.Fields = make(map[string]any)
	}
	n.Fields[name] = value
}

// BindLiteral adds an input binding carrying a literal value.
func (n *Node) BindLiteral(param string, value any) {
	n.Inputs = append(n.Inputs, Binding{Param: param, Value: value})
}

// BindSource adds an input binding resolved from an upstream result path.
func (n *Node) BindSource(param, source string) {
	n.Inputs = append(n.Inputs, Binding{Param: param, Source: source})
}
