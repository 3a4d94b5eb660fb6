package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("full flag set", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{
			"-workflow", "wf.hcl",
			"-workflows-dir", "defs",
			"-param", "count=3",
			"-param", "name=alice",
			"-param", "dry=true",
			"-env", "REGION=eu",
			"-log-format", "text",
			"-log-level", "debug",
			"-seed", "42",
		}, &out)
		require.NoError(t, err)
		require.False(t, exit)

		assert.Equal(t, "wf.hcl", cfg.WorkflowPath)
		assert.Equal(t, "defs", cfg.WorkflowsDir)
		assert.Equal(t, float64(3), cfg.Params["count"])
		assert.Equal(t, "alice", cfg.Params["name"])
		assert.Equal(t, true, cfg.Params["dry"])
		assert.Equal(t, map[string]string{"REGION": "eu"}, cfg.Env)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, uint64(42), cfg.RandSeed)
	})

	t.Run("positional path", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"wf.yaml"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "wf.yaml", cfg.WorkflowPath)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-w", "wf.json"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "wf.json", cfg.WorkflowPath)
	})

	t.Run("no path prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("invalid values", func(t *testing.T) {
		cases := [][]string{
			{"-log-format", "xml", "wf.hcl"},
			{"-log-level", "loud", "wf.hcl"},
			{"-seed", "not-a-number", "wf.hcl"},
			{"-param", "missing-equals", "wf.hcl"},
		}
		for _, args := range cases {
			var out bytes.Buffer
			_, _, err := Parse(args, &out)
			require.Error(t, err, "args: %v", args)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		}
	})
}
