package math

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/registry"
)

func TestArithmetic(t *testing.T) {
	ctx := context.Background()

	add, err := Add(ctx, &PairInput{A: 2, B: 3})
	require.NoError(t, err)
	assert.Equal(t, float64(5), add.Sum)

	sub, err := Subtract(ctx, &PairInput{A: 2, B: 3})
	require.NoError(t, err)
	assert.Equal(t, float64(-1), sub.Difference)

	mul, err := Multiply(ctx, &PairInput{A: 6, B: 7})
	require.NoError(t, err)
	assert.Equal(t, float64(42), mul.Product)

	div, err := Divide(ctx, &PairInput{A: 10, B: 4})
	require.NoError(t, err)
	assert.Equal(t, 2.5, div.Quotient)
}

func TestDivideByZero(t *testing.T) {
	_, err := Divide(context.Background(), &PairInput{A: 1, B: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestRandom(t *testing.T) {
	inv := &registry.Invocation{Rand: rand.New(rand.NewPCG(1, 2))}

	t.Run("stays within range", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			res, err := Random(context.Background(), inv, &RandomInput{Min: 5, Max: 10})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Value, float64(5))
			assert.Less(t, res.Value, float64(10))
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := Random(context.Background(), inv, &RandomInput{Min: 10, Max: 5})
		require.Error(t, err)
	})

	t.Run("seeded draws are reproducible", func(t *testing.T) {
		a := &registry.Invocation{Rand: rand.New(rand.NewPCG(7, 7))}
		b := &registry.Invocation{Rand: rand.New(rand.NewPCG(7, 7))}
		ra, err := Random(context.Background(), a, &RandomInput{Min: 0, Max: 1})
		require.NoError(t, err)
		rb, err := Random(context.Background(), b, &RandomInput{Min: 0, Max: 1})
		require.NoError(t, err)
		assert.Equal(t, ra.Value, rb.Value)
	})
}
