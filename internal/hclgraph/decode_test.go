package hclgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/graph"
)

const sampleHCL = `
workflow "adder" {
  node "start" {
    behavior = "trigger.manual"

    connect "action" {
      to = ["add"]
    }
  }

  node "add" {
    behavior = "math.add"

    fields {
      note = "two plus three"
    }

    input "a" {
      value = 2
    }

    input "b" {
      from = "other.value"
    }
  }

  node "other" {
    behavior = "math.add"

    input "a" {
      value = 3
    }
  }

  output "sum" {
    from = "add.sum"
  }
}
`

func TestDecode(t *testing.T) {
	graphs, err := Decode(context.Background(), "sample.hcl", []byte(sampleHCL))
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	g := graphs[0]

	assert.Equal(t, "adder", g.Name)
	assert.Equal(t, 3, g.Len())

	t.Run("explicit start node is kept", func(t *testing.T) {
		start, ok := g.Node(graph.StartNode)
		require.True(t, ok)
		assert.Equal(t, graph.StartBehavior, start.Behavior)
		p, ok := start.Port("action")
		require.True(t, ok)
		require.Len(t, p.Connections, 1)
		assert.Equal(t, "add", p.Connections[0].Node)
	})

	t.Run("fields and inputs decode", func(t *testing.T) {
		add, ok := g.Node("add")
		require.True(t, ok)
		assert.Equal(t, "math.add", add.Behavior)
		assert.Equal(t, "two plus three", add.Fields["note"])

		a, ok := add.Binding("a")
		require.True(t, ok)
		assert.True(t, a.IsLiteral())
		assert.Equal(t, float64(2), a.Value)

		b, ok := add.Binding("b")
		require.True(t, ok)
		assert.Equal(t, "other", b.SourceNode())
		assert.Equal(t, "value", b.SourcePath())
	})

	t.Run("outputs decode", func(t *testing.T) {
		require.Len(t, g.Outputs, 1)
		assert.Equal(t, graph.OutputDecl{Name: "sum", Node: "add", Path: "sum"}, g.Outputs[0])
	})
}

func TestDecodeSynthesizesStart(t *testing.T) {
	graphs, err := Decode(context.Background(), "bare.hcl", []byte(`
workflow "bare" {
  node "only" {
    behavior = "print.value"
  }
}
`))
	require.NoError(t, err)
	g := graphs[0]
	_, ok := g.Node(graph.StartNode)
	assert.True(t, ok)
	assert.Equal(t, 2, g.Len())
}

func TestDecodeErrors(t *testing.T) {
	t.Run("connection to unknown node", func(t *testing.T) {
		_, err := Decode(context.Background(), "bad.hcl", []byte(`
workflow "bad" {
  node "a" {
    behavior = "x"
    connect "action" {
      to = ["ghost"]
    }
  }
}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("input with neither from nor value", func(t *testing.T) {
		_, err := Decode(context.Background(), "bad.hcl", []byte(`
workflow "bad" {
  node "a" {
    behavior = "x"
    input "v" {
    }
  }
}
`))
		require.Error(t, err)
	})

	t.Run("malformed syntax", func(t *testing.T) {
		_, err := Decode(context.Background(), "bad.hcl", []byte(`workflow "bad" {`))
		require.Error(t, err)
	})

	t.Run("target with param suffix", func(t *testing.T) {
		graphs, err := Decode(context.Background(), "ok.hcl", []byte(`
workflow "ok" {
  node "a" {
    behavior = "x"
    connect "action" {
      to = ["b:value"]
    }
  }
  node "b" {
    behavior = "y"
  }
}
`))
		require.NoError(t, err)
		a, _ := graphs[0].Node("a")
		p, ok := a.Port("action")
		require.True(t, ok)
		assert.Equal(t, graph.Connection{Node: "b", Port: "value"}, p.Connections[0])
	})
}
