// Package payment defines the narrow contract to the hosted payment
// processor. The engine never touches raw card data; it only creates
// intents, confirms them, and requests refunds by reference.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Intent is the gateway's handle for a payment attempt. The client secret
// goes to the paying client; the intent id is what the backend reconciles on.
type Intent struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, bookingID int32, amount decimal.Decimal) (*Intent, error)
	Confirm(ctx context.Context, intentID string) error
	Refund(ctx context.Context, intentID string, amount decimal.Decimal, reason string) error
}
