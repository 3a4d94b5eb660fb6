package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/hclgraph"
)

// workflowExtensions are the definition formats the filesystem store
// understands, in lookup order.
var workflowExtensions = []string{".hcl", ".json", ".yaml", ".yml"}

// FS is a Store backed by a directory of workflow definition files. A
// workflow id maps to "<dir>/<id>.<ext>" where ext is one of .hcl, .json,
// .yaml, or .yml; saving always writes the canonical JSON form.
type FS struct {
	dir string
}

// NewFS creates a filesystem store rooted at dir.
func NewFS(dir string) *FS {
	return &FS{dir: dir}
}

// Load implements Store.
func (s *FS) Load(ctx context.Context, id string) (*graph.Graph, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	for _, ext := range workflowExtensions {
		path := filepath.Join(s.dir, id+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow '%s': %w", id, err)
		}
		return decodeByExtension(ctx, path, data, id)
	}
	return nil, fmt.Errorf("workflow '%s': %w", id, ErrNotFound)
}

// Save implements Store.
func (s *FS) Save(ctx context.Context, id string, g *graph.Graph) error {
	if err := validID(id); err != nil {
		return err
	}
	data, err := graph.EncodeJSON(g)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workflow directory: %w", err)
	}
	path := filepath.Join(s.dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workflow '%s': %w", id, err)
	}
	return nil
}

// List implements Store.
func (s *FS) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workflow directory: %w", err)
	}
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, ext := range workflowExtensions {
			if strings.HasSuffix(name, ext) {
				seen[strings.TrimSuffix(name, ext)] = struct{}{}
				break
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// decodeByExtension picks the decoder matching the file's extension. HCL
// files may define several workflows; the one named after the id wins, with
// a single-workflow file accepted under any name.
func decodeByExtension(ctx context.Context, path string, data []byte, id string) (*graph.Graph, error) {
	switch filepath.Ext(path) {
	case ".hcl":
		graphs, err := hclgraph.Decode(ctx, path, data)
		if err != nil {
			return nil, err
		}
		for _, g := range graphs {
			if g.Name == id {
				return g, nil
			}
		}
		if len(graphs) == 1 {
			return graphs[0], nil
		}
		return nil, fmt.Errorf("workflow '%s' not defined in %s: %w", id, path, ErrNotFound)
	case ".json":
		return graph.DecodeJSON(data)
	case ".yaml", ".yml":
		return graph.DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported workflow file format: %s", path)
	}
}

// validID rejects ids that would escape the store directory.
func validID(id string) error {
	if id == "" {
		return fmt.Errorf("workflow id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid workflow id '%s'", id)
	}
	return nil
}
