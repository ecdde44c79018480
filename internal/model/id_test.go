package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIDStrictlyIncreasing(t *testing.T) {
	prev := NextID()
	for i := 0; i < 1000; i++ {
		id := NextID()
		assert.Greater(t, id, prev)
		prev = id
	}
}
