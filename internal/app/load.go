package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/hclgraph"
)

// loadWorkflow reads one workflow definition from disk, dispatching on the
// file extension. An .hcl file may define several workflows; only a file
// defining exactly one is runnable directly.
func loadWorkflow(ctx context.Context, path string) (*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		graphs, err := hclgraph.DecodeFile(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(graphs) != 1 {
			return nil, fmt.Errorf("file '%s' defines %d workflows, expected exactly one", path, len(graphs))
		}
		return graphs[0], nil
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return graph.DecodeJSON(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return graph.DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported workflow file extension '%s'", filepath.Ext(path))
	}
}
