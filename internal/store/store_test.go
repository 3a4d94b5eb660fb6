package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/graph"
)

func sampleGraph(t *testing.T, name string) *graph.Graph {
	t.Helper()
	g := graph.New(name)
	n := &graph.Node{ID: "n", Behavior: "print.value"}
	n.SetField("label", name)
	require.NoError(t, g.AddNode(n))
	require.NoError(t, g.Connect(graph.StartNode, "action", "n", ""))
	return g
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("load missing", func(t *testing.T) {
		_, err := m.Load(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		g := sampleGraph(t, "wf")
		require.NoError(t, m.Save(ctx, "wf", g))
		loaded, err := m.Load(ctx, "wf")
		require.NoError(t, err)
		assert.Same(t, g, loaded)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		assert.Error(t, m.Save(ctx, "", sampleGraph(t, "x")))
	})

	t.Run("list is sorted", func(t *testing.T) {
		require.NoError(t, m.Save(ctx, "b", sampleGraph(t, "b")))
		require.NoError(t, m.Save(ctx, "a", sampleGraph(t, "a")))
		ids, err := m.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "wf"}, ids)
	})
}

func TestFS(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFS(dir)

	t.Run("save writes json and load round-trips", func(t *testing.T) {
		g := sampleGraph(t, "wf")
		require.NoError(t, s.Save(ctx, "wf", g))

		_, err := os.Stat(filepath.Join(dir, "wf.json"))
		require.NoError(t, err)

		loaded, err := s.Load(ctx, "wf")
		require.NoError(t, err)
		assert.Equal(t, g.Name, loaded.Name)
		assert.Equal(t, g.Len(), loaded.Len())
	})

	t.Run("loads hcl definitions", func(t *testing.T) {
		src := `
workflow "greeter" {
  node "n" {
    behavior = "print.value"
  }
}
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "greeter.hcl"), []byte(src), 0o644))
		loaded, err := s.Load(ctx, "greeter")
		require.NoError(t, err)
		assert.Equal(t, "greeter", loaded.Name)
	})

	t.Run("loads yaml definitions", func(t *testing.T) {
		data, err := graph.EncodeYAML(sampleGraph(t, "yml-wf"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "yml-wf.yaml"), data, 0o644))
		loaded, err := s.Load(ctx, "yml-wf")
		require.NoError(t, err)
		assert.Equal(t, "yml-wf", loaded.Name)
	})

	t.Run("missing workflow", func(t *testing.T) {
		_, err := s.Load(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("path escapes rejected", func(t *testing.T) {
		_, err := s.Load(ctx, "../etc/passwd")
		assert.Error(t, err)
		assert.Error(t, s.Save(ctx, "a/b", sampleGraph(t, "x")))
	})

	t.Run("list covers all formats", func(t *testing.T) {
		ids, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"greeter", "wf", "yml-wf"}, ids)
	})
}
