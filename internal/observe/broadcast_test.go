package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// subscribe registers a subscriber and drains the initial value.
func subscribe(t *testing.T, b *Broadcaster[int]) (<-chan int, func()) {
	t.Helper()
	ch, cancel := b.SubscribeWith(0)
	assert.Equal(t, 0, <-ch)
	return ch, cancel
}

func TestBroadcaster_PublishReachesAllSubscribers(t *testing.T) {
	b := New[int]()
	first, cancelFirst := subscribe(t, b)
	defer cancelFirst()
	second, cancelSecond := subscribe(t, b)
	defer cancelSecond()

	b.Publish(7)

	assert.Equal(t, 7, <-first)
	assert.Equal(t, 7, <-second)
}

func TestBroadcaster_SlowSubscriberKeepsLatest(t *testing.T) {
	b := New[int]()
	ch, cancel := subscribe(t, b)
	defer cancel()

	b.Publish(1)
	b.Publish(2)
	b.Publish(3)

	assert.Equal(t, 3, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestBroadcaster_SubscribeWithSeedsChannel(t *testing.T) {
	b := New[string]()
	ch, cancel := b.SubscribeWith("current")
	defer cancel()

	assert.Equal(t, "current", <-ch)

	b.Publish("next")
	assert.Equal(t, "next", <-ch)
}

func TestBroadcaster_UnseenSeedIsReplaced(t *testing.T) {
	b := New[string]()
	ch, cancel := b.SubscribeWith("current")
	defer cancel()

	b.Publish("next")

	assert.Equal(t, "next", <-ch)
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := New[int]()
	ch, cancel := subscribe(t, b)

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Empty(t, b.subs)

	// Publishing with nobody listening is a no-op.
	b.Publish(1)
}

func TestBroadcaster_Close(t *testing.T) {
	b := New[int]()
	ch, cancel := subscribe(t, b)
	defer cancel()

	b.Close()
	_, ok := <-ch
	assert.False(t, ok)

	late, lateCancel := b.SubscribeWith(1)
	defer lateCancel()
	_, ok = <-late
	assert.False(t, ok)
}
