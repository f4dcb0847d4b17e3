package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinHelpers(t *testing.T) {
	assert.Equal(t, 1.0, Min3(3, 1, 2))
	assert.Equal(t, 1.0, Min3(1, 2, 3))
	assert.Equal(t, 1.0, Min3(2, 3, 1))
	assert.Equal(t, 1.0, Min2(1, 2))
	assert.Equal(t, 1.0, Min2(2, 1))
}

func TestPickOne(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, "only", PickOne([]string{"only"}, rng))

	xs := []int{10, 20, 30}
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		seen[PickOne(xs, rng)] = true
	}
	assert.Len(t, seen, 3)
}
