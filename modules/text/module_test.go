package text

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcat(t *testing.T) {
	res, err := Concat(context.Background(), &ConcatInput{
		Parts:     []any{"a", 1, true},
		Separator: "-",
	})
	require.NoError(t, err)
	assert.Equal(t, "a-1-true", res.Text)
}

func TestUpper(t *testing.T) {
	res, err := Upper(context.Background(), &UpperInput{Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res.Text)
}

func TestFormat(t *testing.T) {
	res, err := Format(context.Background(), &FormatInput{
		Template: "%s is %v",
		Args:     []any{"x", 7},
	})
	require.NoError(t, err)
	assert.Equal(t, "x is 7", res.Text)
}
