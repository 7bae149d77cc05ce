package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFloodGuard_LimitPerKey(t *testing.T) {
	guard := newFloodGuard(2, time.Minute)

	assert.True(t, guard.Allow(1))
	assert.True(t, guard.Allow(1))
	assert.False(t, guard.Allow(1))

	// Other keys are unaffected.
	assert.True(t, guard.Allow(2))
}

func TestFloodGuard_WindowSlides(t *testing.T) {
	now := time.Now()
	guard := newFloodGuard(1, time.Minute)
	guard.now = func() time.Time { return now }

	assert.True(t, guard.Allow(1))
	assert.False(t, guard.Allow(1))

	now = now.Add(61 * time.Second)
	assert.True(t, guard.Allow(1))
}
