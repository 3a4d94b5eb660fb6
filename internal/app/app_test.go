package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/testutil"
)

const adderHCL = `
workflow "adder" {
  node "start" {
    behavior = "trigger.manual"

    connect "action" {
      to = ["add"]
    }
  }

  node "add" {
    behavior = "math.add"

    input "a" {
      value = 2
    }

    input "b" {
      value = 3
    }
  }

  output "sum" {
    from = "add.sum"
  }
}
`

func writeWorkflow(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAppRunsWorkflowEndToEnd(t *testing.T) {
	out := &testutil.SafeBuffer{}
	cfg, err := NewConfig(Config{
		WorkflowPath: writeWorkflow(t, "adder.hcl", adderHCL),
		LogFormat:    "json",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	a := NewApp(out, cfg)
	require.NoError(t, a.Run(context.Background()))

	// The output object is the last JSON document printed.
	var outputs map[string]any
	decoder := json.NewDecoder(strings.NewReader(out.String()))
	for decoder.More() {
		outputs = nil
		require.NoError(t, decoder.Decode(&outputs))
	}
	assert.Equal(t, float64(5), outputs["sum"])
}

func TestAppRunsCompositionAcrossStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "child.hcl"), []byte(`
workflow "child" {
  node "start" {
    behavior = "trigger.manual"

    connect "action" {
      to = ["base"]
    }
  }

  node "base" {
    behavior = "workflow.param"

    fields {
      name = "base"
    }

    connect "action" {
      to = ["add"]
    }
  }

  node "add" {
    behavior = "math.add"

    input "a" {
      from = "base.value"
    }

    input "b" {
      value = 10
    }
  }

  output "total" {
    from = "add.sum"
  }
}
`), 0o644))

	parentPath := writeWorkflow(t, "parent.hcl", `
workflow "parent" {
  node "start" {
    behavior = "trigger.manual"

    connect "action" {
      to = ["runner"]
    }
  }

  node "runner" {
    behavior = "workflow.run"

    fields {
      workflow = "child"
    }

    input "params" {
      value = { base = 32 }
    }
  }

  output "total" {
    from = "runner.total"
  }
}
`)

	out := &testutil.SafeBuffer{}
	cfg, err := NewConfig(Config{
		WorkflowPath: parentPath,
		WorkflowsDir: dir,
		LogFormat:    "json",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	a := NewApp(out, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), `"total": 42`)
}

func TestAppRejectsMissingWorkflowFile(t *testing.T) {
	out := &testutil.SafeBuffer{}
	cfg, err := NewConfig(Config{WorkflowPath: "does-not-exist.hcl", LogLevel: "error"})
	require.NoError(t, err)

	a := NewApp(out, cfg)
	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load workflow")
}

func TestNewConfigRequiresWorkflowPath(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
}
