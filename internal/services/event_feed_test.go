package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFeedBroadcast(t *testing.T) {
	feed := NewEventFeed(nil)

	ch1, cancel1 := feed.Subscribe()
	ch2, cancel2 := feed.Subscribe()
	defer cancel1()
	defer cancel2()

	ev := FeedEvent{Collection: "releases", Operation: "update", DocumentID: "r1"}
	feed.broadcast(ev)

	for _, ch := range []<-chan FeedEvent{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, ev, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestEventFeedCancelClosesChannel(t *testing.T) {
	feed := NewEventFeed(nil)

	ch, cancel := feed.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Second cancel is a no-op.
	cancel()

	// Broadcasting after cancel must not panic or block.
	feed.broadcast(FeedEvent{Collection: "notifications", Operation: "insert"})
}

func TestEventFeedSlowSubscriberDropsEvents(t *testing.T) {
	feed := NewEventFeed(nil)

	ch, cancel := feed.Subscribe()
	defer cancel()

	// Overfill the buffer; the surplus is dropped, not blocked on.
	for i := 0; i < 100; i++ {
		feed.broadcast(FeedEvent{Collection: "releases", Operation: "update"})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	require.Greater(t, received, 0)
	assert.LessOrEqual(t, received, 16)
}
