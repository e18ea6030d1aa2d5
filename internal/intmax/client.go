// internal/intmax/client.go
package intmax

import "context"

// Transaction is a single entry of the payment network's transaction history
// as reported by the wallet node. Amount is a decimal string in base units
// (18 decimals on the default network).
type Transaction struct {
	Digest    string `json:"digest"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Client is the payment-network session consumed by the reconciler. The
// underlying wallet SDK is an opaque dependency; only the login/logout/
// history surface is modeled. Sessions are acquired with Login and must be
// released with Logout on every path.
type Client interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	FetchTransactionHistory(ctx context.Context) ([]Transaction, error)
}
