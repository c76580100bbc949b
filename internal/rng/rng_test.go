package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededSourceIsReproducible(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uniform(), b.Uniform())
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Normal(), b.Normal())
	}
}

func TestUniformRange(t *testing.T) {
	src := New(7)
	for i := 0; i < 10000; i++ {
		u := src.Uniform()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
}

func TestBoxMullerKnownValues(t *testing.T) {
	// u=v=0.5 gives sqrt(-2 ln 0.5) * cos(pi) = -sqrt(2 ln 2)
	src := NewScripted(0.5, 0.5)
	z := src.Normal()
	assert.InDelta(t, -math.Sqrt(2*math.Ln2), z, 1e-12)

	// cos(2*pi*0.25) = 0 regardless of the first uniform
	src = NewScripted(0.9, 0.25)
	assert.InDelta(t, 0.0, src.Normal(), 1e-12)
}

func TestBoxMullerSkipsZeroUniforms(t *testing.T) {
	src := NewScripted(0, 0, 0.5, 0.5)
	z := src.Normal()
	assert.InDelta(t, -math.Sqrt(2*math.Ln2), z, 1e-12)
}

func TestNormalMomentsRoughlyStandard(t *testing.T) {
	src := New(1)
	n := 50000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		z := src.Normal()
		sum += z
		sumSq += z * z
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	assert.InDelta(t, 0.0, mean, 0.03)
	assert.InDelta(t, 1.0, variance, 0.05)
}
