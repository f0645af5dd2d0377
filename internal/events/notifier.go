// Package events pushes row-change notifications to interested clients over
// Redis pub/sub. Delivery is best-effort: the engine's correctness never
// depends on a notification arriving, only UI responsiveness does.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gearshare-backend/internal/logger"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingApproved  = "booking_approved"
	EventBookingDeclined  = "booking_declined"
	EventBookingActivated = "booking_activated"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventReturnRecorded   = "return_recorded"
	EventPaymentCaptured  = "payment_captured"
	EventPaymentRefunded  = "payment_refunded"
	EventDepositReleased  = "deposit_released"
	EventClaimFiled       = "claim_filed"
)

// BookingEvent is the minimal snapshot consumers need to refresh a view.
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID int32     `json:"booking_id"`
	RenterID  int32     `json:"renter_id"`
	OwnerID   int32     `json:"owner_id"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

type Notifier struct {
	client *redis.Client
}

func NewRedisClient(address, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// userChannel is the per-user channel a client subscribes to.
func userChannel(userID int32) string {
	return fmt.Sprintf("user:%d:events", userID)
}

// Publish fans the event out to both parties of the booking. Errors are
// logged and swallowed: a missed notification must never roll back the
// transition that produced it.
func (n *Notifier) Publish(ctx context.Context, ev BookingEvent) {
	if n == nil || n.client == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to encode booking event", "type", ev.Type, "booking_id", ev.BookingID, "error", err)
		return
	}

	for _, userID := range []int32{ev.RenterID, ev.OwnerID} {
		if err := n.client.Publish(ctx, userChannel(userID), payload).Err(); err != nil {
			logger.WarnContext(ctx, "Failed to publish booking event",
				"type", ev.Type, "booking_id", ev.BookingID, "user_id", userID, "error", err)
		}
	}
}

// Subscribe returns a channel of decoded events for a user. The caller owns
// cancellation through ctx.
func (n *Notifier) Subscribe(ctx context.Context, userID int32) (<-chan BookingEvent, error) {
	if n == nil || n.client == nil {
		return nil, fmt.Errorf("notifier is not configured")
	}

	sub := n.client.Subscribe(ctx, userChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("subscribe user %d events: %w", userID, err)
	}

	out := make(chan BookingEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var ev BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn("Dropping undecodable booking event", "error", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
