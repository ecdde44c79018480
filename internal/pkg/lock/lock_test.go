package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLock_SerializesSameUser(t *testing.T) {
	ul := NewUserLock()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, ul.WithLock("42", func() error {
				counter++
				return nil
			}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestUserLock_IndependentUsers(t *testing.T) {
	ul := NewUserLock()

	ul.Lock("a")
	defer ul.Unlock("a")

	// A different user's lock is not held.
	assert.True(t, ul.TryLock("b"))
	ul.Unlock("b")

	// The same user's lock is.
	assert.False(t, ul.TryLock("a"))
}

func TestUserLock_WithLockReleasesOnError(t *testing.T) {
	ul := NewUserLock()

	wantErr := assert.AnError
	err := ul.WithLock("a", func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	// The lock is free again after the callback failed.
	assert.True(t, ul.TryLock("a"))
	ul.Unlock("a")
}
