package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
)

type intentState struct {
	bookingID int32
	amount    decimal.Decimal
	confirmed bool
	refunded  decimal.Decimal
}

// SimulatedGateway is an in-memory gateway for development and tests. It
// honors the real contract: unknown intents error, refunds cannot exceed
// the captured amount, and FailRefunds lets tests exercise the
// compensating-action path.
type SimulatedGateway struct {
	mu          sync.Mutex
	intents     map[string]*intentState
	FailRefunds bool
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{intents: make(map[string]*intentState)}
}

func (g *SimulatedGateway) CreateIntent(ctx context.Context, bookingID int32, amount decimal.Decimal) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intentID := "pi_" + uuid.NewString()
	g.intents[intentID] = &intentState{bookingID: bookingID, amount: amount}

	logger.ExternalServiceCall("payment-gateway", "CreateIntent", "booking_id", bookingID, "intent_id", intentID)
	return &Intent{
		IntentID:     intentID,
		ClientSecret: intentID + "_secret_" + uuid.NewString()[:8],
	}, nil
}

func (g *SimulatedGateway) Confirm(ctx context.Context, intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.intents[intentID]
	if !ok {
		return domain.Collaboratorf("gateway has no intent %s", intentID)
	}
	state.confirmed = true
	return nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, intentID string, amount decimal.Decimal, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailRefunds {
		return domain.Collaboratorf("gateway refused refund for intent %s", intentID)
	}

	state, ok := g.intents[intentID]
	if !ok {
		return domain.Collaboratorf("gateway has no intent %s", intentID)
	}
	if !state.confirmed {
		return domain.Conflictf("intent %s was never confirmed", intentID)
	}
	if state.refunded.Add(amount).GreaterThan(state.amount) {
		return domain.Conflictf("refund %s exceeds captured amount %s", amount, state.amount)
	}
	state.refunded = state.refunded.Add(amount)

	logger.ExternalServiceResult("payment-gateway", "Refund", nil,
		"intent_id", intentID, "amount", amount.String(), "reason", reason)
	return nil
}

// Confirmed reports whether an intent was confirmed, for tests.
func (g *SimulatedGateway) Confirmed(intentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	state, ok := g.intents[intentID]
	return ok && state.confirmed
}

// RefundedTotal returns the amount refunded on an intent, for tests.
func (g *SimulatedGateway) RefundedTotal(intentID string) (decimal.Decimal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	state, ok := g.intents[intentID]
	if !ok {
		return decimal.Zero, fmt.Errorf("no intent %s", intentID)
	}
	return state.refunded, nil
}
