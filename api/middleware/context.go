package middleware

import "context"

type contextKey string

const ctxWalletAddress contextKey = "wallet_address"

// WalletFromContext returns the authenticated wallet address, if any.
func WalletFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxWalletAddress).(string); ok {
		return v
	}
	return ""
}

// WithWalletAddress injects the wallet address into the context.
func WithWalletAddress(ctx context.Context, walletAddress string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxWalletAddress, walletAddress)
}
