package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/os2357/fuels-wallet/pkg/types"
)

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Publish(types.RestartedEvent())

	require.Len(t, ch1, 1)
	require.Len(t, ch2, 1)
	ev := <-ch1
	assert.Equal(t, types.DBEventType, ev.Type)
	assert.Equal(t, types.DBEventRestarted, ev.Payload.Event)
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()

	b.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)

	// A second unsubscribe of the same channel is a no-op.
	b.Unsubscribe(ch)
}

func TestBroadcaster_PublishNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()

	// Overflow the subscriber's buffer; the extra events are dropped.
	for i := 0; i < 10; i++ {
		b.Publish(types.RestartedEvent())
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestBroadcaster_PublishWithoutSubscribers(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(types.RestartedEvent())
}
