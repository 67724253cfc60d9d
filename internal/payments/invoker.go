package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// TokenAmount pairs a currency with an amount inside a payment command.
type TokenAmount struct {
	Symbol enums.TokenSymbol `json:"symbol"`
	Amount decimal.Decimal   `json:"amount"`
}

// PaymentCommand is handed to the external wallet to perform the actual
// value transfer.
type PaymentCommand struct {
	Reference        string        `json:"reference"`
	RecipientAddress string        `json:"recipientAddress"`
	Tokens           []TokenAmount `json:"tokens"`
	Description      string        `json:"description"`
}

// Invocation acknowledges that the wallet accepted a payment command. The
// final result arrives out of band via the confirm endpoint.
type Invocation struct {
	CommandID string `json:"commandId"`
	Reference string `json:"reference"`
}

// CommandInvoker is the boundary to the user's mobile wallet. An
// unavailable wallet surfaces as a dependency error, the wizard must not
// enter processing in that case.
type CommandInvoker interface {
	Invoke(ctx context.Context, command PaymentCommand) (*Invocation, error)
}
