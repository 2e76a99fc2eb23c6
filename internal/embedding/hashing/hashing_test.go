package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoder_DefaultDimension(t *testing.T) {
	assert.Equal(t, DefaultDimension, NewEncoder(0).Dimension())
	assert.Equal(t, 64, NewEncoder(64).Dimension())
	assert.Equal(t, "hashing", NewEncoder(8).Name())
}

func TestEncodeBatch_NormalizedAndDeterministic(t *testing.T) {
	e := NewEncoder(32)
	out, err := e.EncodeBatch(context.Background(), []string{"solar panel output", "solar panel output", "?!"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, out[0], out[1])

	var sum float64
	for _, x := range out[0] {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)

	for _, x := range out[2] {
		assert.Zero(t, x)
	}
}

func TestEncodeBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEncoder(8).EncodeBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}
