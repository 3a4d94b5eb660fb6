package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/cli"
)

func TestRun(t *testing.T) {
	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		err := run(&out, nil)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("invalid flag value returns exit error", func(t *testing.T) {
		var out bytes.Buffer
		err := run(&out, []string{"-log-level", "loud", "wf.hcl"})
		require.Error(t, err)
		var exitErr *cli.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("runs a workflow end to end", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wf.hcl")
		require.NoError(t, os.WriteFile(path, []byte(`
workflow "double" {
  node "start" {
    behavior = "trigger.manual"

    connect "action" {
      to = ["mul"]
    }
  }

  node "mul" {
    behavior = "math.multiply"

    input "a" {
      value = 21
    }

    input "b" {
      value = 2
    }
  }

  output "answer" {
    from = "mul.product"
  }
}
`), 0o644))

		var out bytes.Buffer
		err := run(&out, []string{"-log-level", "error", "-workflow", path})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"answer": 42`)
	})
}
