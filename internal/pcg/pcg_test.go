package pcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSeedDeterministic(t *testing.T) {
	a := WithDefaultSeed()
	b := WithDefaultSeed()
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSeededStreamsDiffer(t *testing.T) {
	a := WithSeed(1, 1)
	b := WithSeed(1, 2)
	same := true
	for i := 0; i < 16; i++ {
		if a.Next() != b.Next() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestNextFloatRange(t *testing.T) {
	r := WithDefaultSeed()
	for i := 0; i < 1000; i++ {
		v := r.NextFloat()
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
}
