package graph

import (
	"fmt"
)

// StartNode is the id of the implicit trigger node synthesized into every
// graph created through New.
const StartNode = "start"

// StartBehavior is the behavior identity bound to the implicit trigger node.
// The registered behavior must be event-classified.
const StartBehavior = "trigger.manual"

// OutputDecl projects one node result (or a sub-value of it) into the run's
// output object under a declared name.
type OutputDecl struct {
	Name string `json:"name" yaml:"name"`
	Node string `json:"node" yaml:"node"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Graph is an owned collection of nodes addressed by id, plus the declared
// workflow outputs. See the package documentation for the mutability
// contract.
type Graph struct {
	Name    string
	Outputs []OutputDecl

	nodes map[string]*Node
	// order preserves insertion order for deterministic serialization and
	// iteration; identity remains the only addressing key.
	order []string
}

// New creates an empty graph containing only the implicit start trigger.
func New(name string) *Graph {
	g := newBare(name)
	g.EnsureStart()
	return g
}

// EnsureStart synthesizes the implicit start trigger node if the graph does
// not already define a node with that id.
func (g *Graph) EnsureStart() {
	if _, ok := g.nodes[StartNode]; ok {
		return
	}
	g.nodes[StartNode] = &Node{ID: StartNode, Behavior: StartBehavior}
	g.order = append([]string{StartNode}, g.order...)
}

// FromNodes builds a graph from a prepared node list, preserving order.
func FromNodes(name string, nodes []*Node) (*Graph, error) {
	g := newBare(name)
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// newBare creates a graph with no nodes at all. The codec uses it so that
// deserialization reproduces exactly what was serialized.
func newBare(name string) *Graph {
	return &Graph{
		Name:  name,
		nodes: make(map[string]*Node),
	}
}

// AddNode inserts a node into the graph. The id must be non-empty, unique,
// and must not contain '.', which is reserved for result path expressions.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("node id cannot be empty")
	}
	for _, r := range n.ID {
		if r == '.' {
			return fmt.Errorf("node id '%s' must not contain '.'", n.ID)
		}
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("node '%s' already exists", n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Connect creates a directed edge from an output port of one node to another
// node, declaring the port on the source node if it does not exist yet.
// toPort optionally names the input parameter the edge feeds. Back-edges are
// legal; self-edges are not.
func (g *Graph) Connect(fromID, port, toID, toPort string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential connection not allowed: %s -> %s", fromID, toID)
	}
	from, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return fmt.Errorf("target node not found: %s", toID)
	}
	if port == "" {
		return fmt.Errorf("port name cannot be empty")
	}
	p := from.ensurePort(port)
	p.Connections = append(p.Connections, Connection{Node: toID, Port: toPort})
	return nil
}

// AddOutput declares a workflow output projected from a node result. path
// may be empty to project the whole result.
func (g *Graph) AddOutput(name, node, path string) error {
	if name == "" {
		return fmt.Errorf("output name cannot be empty")
	}
	if _, ok := g.nodes[node]; !ok {
		return fmt.Errorf("output '%s' references unknown node '%s'", name, node)
	}
	g.Outputs = append(g.Outputs, OutputDecl{Name: name, Node: node, Path: path})
	return nil
}

// Reachable returns the ids of every node reachable from the named output
// port of the given node, following connections transitively across all
// ports of the nodes encountered. The origin node itself is excluded even
// when a back-edge returns to it, so clearing a loop body never wipes the
// loop node's own state. Traversal is cycle-safe. The result order is
// deterministic (breadth-first, connection order).
func (g *Graph) Reachable(fromID, port string) []string {
	from, ok := g.nodes[fromID]
	if !ok {
		return nil
	}
	p, ok := from.Port(port)
	if !ok {
		return nil
	}

	visited := map[string]bool{fromID: true}
	var out []string
	queue := make([]string, 0, len(p.Connections))
	for _, c := range p.Connections {
		queue = append(queue, c.Node)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		out = append(out, id)
		for _, np := range n.Ports {
			for _, c := range np.Connections {
				queue = append(queue, c.Node)
			}
		}
	}
	return out
}

// Validate checks the structural invariants of the definition: every
// connection, binding source, and output declaration must reference a node
// that exists in the graph. It does not check behavior identities; that
// requires the registry and happens in the engine.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		n := g.nodes[id]
		if n.Behavior == "" {
			return fmt.Errorf("node '%s' has no behavior", id)
		}
		for _, p := range n.Ports {
			for _, c := range p.Connections {
				if _, ok := g.nodes[c.Node]; !ok {
					return fmt.Errorf("node '%s' port '%s' connects to unknown node '%s'", id, p.Name, c.Node)
				}
			}
		}
		for _, b := range n.Inputs {
			if b.Param == "" {
				return fmt.Errorf("node '%s' has a binding with no parameter name", id)
			}
			if !b.IsLiteral() {
				if _, ok := g.nodes[b.SourceNode()]; !ok {
					return fmt.Errorf("node '%s' input '%s' references unknown node '%s'", id, b.Param, b.SourceNode())
				}
			}
		}
	}
	for _, o := range g.Outputs {
		if _, ok := g.nodes[o.Node]; !ok {
			return fmt.Errorf("output '%s' references unknown node '%s'", o.Name, o.Node)
		}
	}
	return nil
}
