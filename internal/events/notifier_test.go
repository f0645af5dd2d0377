package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewNotifier(client)
}

func TestNotifierPublishSubscribe(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	renterEvents, err := n.Subscribe(ctx, 11)
	require.NoError(t, err)
	ownerEvents, err := n.Subscribe(ctx, 22)
	require.NoError(t, err)

	n.Publish(ctx, BookingEvent{
		Type:      EventBookingApproved,
		BookingID: 7,
		RenterID:  11,
		OwnerID:   22,
		Status:    "approved",
	})

	for name, ch := range map[string]<-chan BookingEvent{"renter": renterEvents, "owner": ownerEvents} {
		t.Run(name, func(t *testing.T) {
			select {
			case ev := <-ch:
				assert.Equal(t, EventBookingApproved, ev.Type)
				assert.Equal(t, int32(7), ev.BookingID)
				assert.Equal(t, "approved", ev.Status)
				assert.False(t, ev.At.IsZero())
			case <-ctx.Done():
				t.Fatal("timed out waiting for event")
			}
		})
	}
}

func TestNotifierIgnoresOtherUsers(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bystander, err := n.Subscribe(ctx, 99)
	require.NoError(t, err)

	n.Publish(ctx, BookingEvent{Type: EventBookingCreated, BookingID: 1, RenterID: 11, OwnerID: 22})

	select {
	case ev := <-bystander:
		t.Fatalf("unexpected event for bystander: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNotifierNilSafe(t *testing.T) {
	var n *Notifier
	n.Publish(context.Background(), BookingEvent{Type: EventBookingCreated})
}
