package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	t.Run("starts at zero with the first step", func(t *testing.T) {
		p := NewProgress(nil)
		percent, step := p.Snapshot()
		assert.Equal(t, 0, percent)
		assert.Equal(t, defaultSteps[0], step)
		assert.False(t, p.Running())
	})

	t.Run("advances on the timer and caps below completion", func(t *testing.T) {
		p := NewProgress([]string{"a", "b"})
		p.Start()
		defer p.Stop()

		assert.True(t, p.Running())
		assert.Eventually(t, func() bool {
			percent, _ := p.Snapshot()
			return percent > 0
		}, 3*time.Second, 50*time.Millisecond)

		percent, _ := p.Snapshot()
		assert.LessOrEqual(t, percent, 95)
	})

	t.Run("start while running is a no-op", func(t *testing.T) {
		p := NewProgress(nil)
		p.Start()
		defer p.Stop()
		p.Start()
		assert.True(t, p.Running())
	})

	t.Run("finish jumps to 100 with the last step", func(t *testing.T) {
		p := NewProgress([]string{"first", "last"})
		p.Start()
		p.Finish()

		percent, step := p.Snapshot()
		assert.Equal(t, 100, percent)
		assert.Equal(t, "last", step)
		assert.False(t, p.Running())
	})

	t.Run("fail resets to zero", func(t *testing.T) {
		p := NewProgress(nil)
		p.Start()
		p.Fail()

		percent, step := p.Snapshot()
		assert.Equal(t, 0, percent)
		assert.Equal(t, defaultSteps[0], step)
		assert.False(t, p.Running())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		p := NewProgress(nil)
		p.Start()
		p.Stop()
		p.Stop()
		assert.False(t, p.Running())
	})
}
