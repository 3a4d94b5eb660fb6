// Package hclgraph defines the HCL authoring dialect for workflow
// definitions and its decoder into the graph model.
//
// A definition file contains one or more workflow blocks:
//
//	workflow "adder" {
//	  node "add" {
//	    behavior = "math.add"
//	    fields {
//	      a = 2
//	    }
//	    input "b" {
//	      from = "other.value"
//	    }
//	    connect "action" {
//	      to = ["print"]
//	    }
//	  }
//	  output "sum" {
//	    from = "add"
//	  }
//	}
//
// Field and input values are literal HCL expressions; references into
// upstream results are written as `from = "node.path"` strings, matching the
// binding model, so no evaluation context is needed.
package hclgraph

import "github.com/hashicorp/hcl/v2"

// File is the top-level structure of a workflow definition file.
type File struct {
	Workflows []*Workflow `hcl:"workflow,block"`
}

// Workflow is a single `workflow` block: a named graph definition.
type Workflow struct {
	Name    string    `hcl:"name,label"`
	Nodes   []*Node   `hcl:"node,block"`
	Outputs []*Output `hcl:"output,block"`
}

// Node is a `node` block: one graph vertex bound to a registered behavior.
type Node struct {
	ID       string     `hcl:"id,label"`
	Behavior string     `hcl:"behavior"`
	Fields   *Fields    `hcl:"fields,block"`
	Inputs   []*Input   `hcl:"input,block"`
	Connects []*Connect `hcl:"connect,block"`
}

// Fields holds the literal-field attributes of a node. Attribute names are
// parameter names; values must be literal expressions.
type Fields struct {
	Body hcl.Body `hcl:",remain"`
}

// Input is an `input` block: one input binding of a node. Exactly one of
// `from` (upstream result path) and `value` (literal) should be set.
type Input struct {
	Param string         `hcl:"param,label"`
	From  string         `hcl:"from,optional"`
	Value hcl.Expression `hcl:"value,optional"`
}

// Connect is a `connect` block: the outgoing connections of one output
// port. Targets are node ids, optionally suffixed with ":param" to name the
// input parameter the edge feeds.
type Connect struct {
	Port string   `hcl:"port,label"`
	To   []string `hcl:"to"`
}

// Output is an `output` block: a declared workflow output projected from a
// node result, written as `from = "node"` or `from = "node.path"`.
type Output struct {
	Name string `hcl:"name,label"`
	From string `hcl:"from"`
}
