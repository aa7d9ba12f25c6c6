package messagebus

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type testEvent string

func (e testEvent) Type() string {
	return string(e)
}

func (e testEvent) PublishedAt() time.Time {
	return time.Time{}
}

func TestMessageBus_Publish(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var goals, meals atomic.Int32
	bus.Register("goal.updated", func(domain.Event) error {
		goals.Add(1)
		return nil
	})
	bus.Register("goal.updated", func(domain.Event) error {
		goals.Add(1)
		return errors.New("handler failed")
	})
	bus.Register("meal.item_added", func(domain.Event) error {
		meals.Add(1)
		return nil
	})

	err := bus.PublishEvents(testEvent("goal.updated"), testEvent("meal.item_added"), testEvent("meal.item_added"), testEvent("unknown"))
	assert.NoError(t, err)

	bus.Close()
	assert.Equal(t, int32(2), goals.Load())
	assert.Equal(t, int32(2), meals.Load())
}
