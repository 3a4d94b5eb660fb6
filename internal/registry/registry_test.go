package registry

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Value   any    `wf:"value"`
	Label   string `wf:"label,field"`
	hidden  int
	Ignored string
}

type sampleResult struct {
	Echo any `json:"echo"`
}

func sampleFn(ctx context.Context, input *sampleInput) (*sampleResult, error) {
	return &sampleResult{Echo: input.Value}, nil
}

func newSample() *Behavior {
	return &Behavior{
		Category:  "test",
		Kind:      KindFunction,
		NewInput:  func() any { return new(sampleInput) },
		InputType: reflect.TypeOf(sampleInput{}),
		Fn:        sampleFn,
	}
}

func TestRegisterBehavior(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		r := New()
		r.RegisterBehavior("test.sample", newSample())

		b, ok := r.Lookup("test.sample")
		require.True(t, ok)
		assert.Equal(t, "test.sample", b.Name())
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, []string{"test.sample"}, r.Names())
	})

	t.Run("duplicate name panics", func(t *testing.T) {
		r := New()
		r.RegisterBehavior("test.sample", newSample())
		assert.Panics(t, func() {
			r.RegisterBehavior("test.sample", newSample())
		})
	})
}

func TestParamDerivation(t *testing.T) {
	r := New()
	r.RegisterBehavior("test.sample", newSample())
	b, _ := r.Lookup("test.sample")

	params := b.Params()
	require.Len(t, params, 2, "untagged and unexported fields must be invisible")

	value, ok := b.Param("value")
	require.True(t, ok)
	assert.Equal(t, RolePort, value.Role)

	label, ok := b.Param("label")
	require.True(t, ok)
	assert.Equal(t, RoleField, label.Role)

	require.Len(t, b.PortParams(), 1)
	require.Len(t, b.FieldParams(), 1)

	_, ok = b.Param("Ignored")
	assert.False(t, ok)
}

func TestPortDerivation(t *testing.T) {
	t.Run("function defaults to action", func(t *testing.T) {
		r := New()
		r.RegisterBehavior("test.fn", newSample())
		b, _ := r.Lookup("test.fn")
		assert.Equal(t, []string{DefaultPort}, b.OutputPorts())
		assert.True(t, b.HasPort("action"))
	})

	t.Run("event without function defaults to action", func(t *testing.T) {
		r := New()
		r.RegisterBehavior("test.event", &Behavior{Kind: KindEvent})
		b, _ := r.Lookup("test.event")
		assert.Equal(t, []string{DefaultPort}, b.OutputPorts())
		assert.False(t, b.HasResult())
	})

	t.Run("branch ports follow bool result fields", func(t *testing.T) {
		type routed struct {
			Yes   bool   `wf:"yes"`
			No    bool   // field name used as-is
			Extra string // not a port
		}
		r := New()
		r.RegisterBehavior("test.branch", &Behavior{
			Kind: KindBooleanBranch,
			Fn: func(ctx context.Context) (*routed, error) {
				return &routed{}, nil
			},
		})
		b, _ := r.Lookup("test.branch")
		assert.Equal(t, []string{"yes", "No"}, b.OutputPorts())
	})

	t.Run("declared ports win", func(t *testing.T) {
		r := New()
		r.RegisterBehavior("test.loop", &Behavior{
			Kind:  KindLoop,
			Ports: []string{"body", "done"},
			Fn: func(ctx context.Context, h Handle) error {
				return nil
			},
		})
		b, _ := r.Lookup("test.loop")
		assert.Equal(t, []string{"body", "done"}, b.OutputPorts())
	})
}

func TestSignatureValidation(t *testing.T) {
	register := func(b *Behavior) (err any) {
		defer func() { err = recover() }()
		New().RegisterBehavior("test.bad", b)
		return nil
	}

	t.Run("missing context", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{
			Kind: KindFunction,
			Fn:   func() error { return nil },
		}))
	})

	t.Run("uninjectable argument", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{
			Kind: KindFunction,
			Fn:   func(ctx context.Context, s string) error { return nil },
		}))
	})

	t.Run("loop without handle", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{
			Kind:  KindLoop,
			Ports: []string{"body", "done"},
			Fn:    func(ctx context.Context) error { return nil },
		}))
	})

	t.Run("loop without ports", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{
			Kind: KindLoop,
			Fn:   func(ctx context.Context, h Handle) error { return nil },
		}))
	})

	t.Run("non-error return", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{
			Kind: KindFunction,
			Fn:   func(ctx context.Context) string { return "" },
		}))
	})

	t.Run("function without fn", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{Kind: KindFunction}))
	})

	t.Run("branch without result", func(t *testing.T) {
		assert.NotNil(t, register(&Behavior{
			Kind: KindBooleanBranch,
			Fn:   func(ctx context.Context) error { return nil },
		}))
	})

	t.Run("injected arguments accepted", func(t *testing.T) {
		assert.Nil(t, register(&Behavior{
			Kind: KindFunction,
			Fn: func(ctx context.Context, inv *Invocation) error {
				return nil
			},
		}))
	})
}
