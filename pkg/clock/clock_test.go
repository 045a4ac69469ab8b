package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Clock(t *testing.T) {
	t.Run("Should advance a manual clock by whole seconds", func(t *testing.T) {
		c := NewManualClock(1_000)
		assert.Equal(t, uint64(1_000), c.Now())

		assert.Equal(t, uint64(1_000+86_400), c.Advance(24*time.Hour))
		c.Set(5)
		assert.Equal(t, uint64(5), c.Now())
	})
	t.Run("Should report a sensible system time", func(t *testing.T) {
		c := NewSystemClock()
		assert.InDelta(t, float64(time.Now().Unix()), float64(c.Now()), 2)
	})
}
