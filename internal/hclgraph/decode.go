package hclgraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/wireflow/internal/coerce"
	"github.com/vk/wireflow/internal/ctxlog"
	"github.com/vk/wireflow/internal/graph"
)

// DecodeFile parses and decodes a single HCL workflow definition file into
// graph definitions.
func DecodeFile(ctx context.Context, filePath string) ([]*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding workflow file.", "path", filePath)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filePath, diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filePath, diags.Error())
	}
	return buildGraphs(ctx, &cfg)
}

// Decode parses and decodes an in-memory HCL workflow definition. filename
// is used only for diagnostics.
func Decode(ctx context.Context, filename string, src []byte) ([]*graph.Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %s", filename, diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL %s: %s", filename, diags.Error())
	}
	return buildGraphs(ctx, &cfg)
}

func buildGraphs(ctx context.Context, cfg *File) ([]*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	graphs := make([]*graph.Graph, 0, len(cfg.Workflows))
	for _, wf := range cfg.Workflows {
		g, err := buildGraph(wf)
		if err != nil {
			return nil, fmt.Errorf("workflow '%s': %w", wf.Name, err)
		}
		logger.Debug("Decoded workflow.", "name", g.Name, "nodes", g.Len(), "outputs", len(g.Outputs))
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// buildGraph lowers one workflow block into a graph definition. Nodes are
// created first so connections can be wired in a second pass regardless of
// declaration order (back-edges included).
func buildGraph(wf *Workflow) (*graph.Graph, error) {
	nodes := make([]*graph.Node, 0, len(wf.Nodes))
	for _, nb := range wf.Nodes {
		n := &graph.Node{ID: nb.ID, Behavior: nb.Behavior}
		if err := decodeFields(nb, n); err != nil {
			return nil, err
		}
		if err := decodeInputs(nb, n); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	g, err := graph.FromNodes(wf.Name, nodes)
	if err != nil {
		return nil, err
	}
	g.EnsureStart()

	for _, nb := range wf.Nodes {
		for _, c := range nb.Connects {
			for _, target := range c.To {
				toNode, toPort := splitTarget(target)
				if err := g.Connect(nb.ID, c.Port, toNode, toPort); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, ob := range wf.Outputs {
		node, path := splitFrom(ob.From)
		if err := g.AddOutput(ob.Name, node, path); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeFields(nb *Node, n *graph.Node) error {
	if nb.Fields == nil {
		return nil
	}
	attrs, diags := nb.Fields.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("node '%s' fields: %s", nb.ID, diags.Error())
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("node '%s' field '%s': %s", nb.ID, name, diags.Error())
		}
		n.SetField(name, coerce.GoValue(val))
	}
	return nil
}

func decodeInputs(nb *Node, n *graph.Node) error {
	for _, ib := range nb.Inputs {
		if ib.From != "" {
			n.BindSource(ib.Param, ib.From)
			continue
		}
		if ib.Value == nil {
			return fmt.Errorf("node '%s' input '%s' needs either 'from' or 'value'", nb.ID, ib.Param)
		}
		val, diags := ib.Value.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("node '%s' input '%s': %s", nb.ID, ib.Param, diags.Error())
		}
		n.BindLiteral(ib.Param, coerce.GoValue(val))
	}
	return nil
}

// splitTarget splits a connection target "node" or "node:param".
func splitTarget(target string) (node, param string) {
	if i := strings.IndexByte(target, ':'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}

// splitFrom splits an output source "node" or "node.path".
func splitFrom(from string) (node, path string) {
	if i := strings.IndexByte(from, '.'); i >= 0 {
		return from[:i], from[i+1:]
	}
	return from, ""
}
