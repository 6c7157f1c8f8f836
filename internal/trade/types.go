// internal/trade/types.go
package trade

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Action is the side of an order.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// OrderRequest is the body sent to the trade-construction service.
// DenominatedInSol is a string on the wire ("true").
type OrderRequest struct {
	PublicKey        string  `json:"publicKey"`
	Action           Action  `json:"action"`
	Mint             string  `json:"mint"`
	DenominatedInSol string  `json:"denominatedInSol"`
	Amount           float64 `json:"amount"`
	Slippage         float64 `json:"slippage"`
	PriorityFee      float64 `json:"priorityFee"`
	Pool             string  `json:"pool"`
}

// FailureKind classifies where an order failed.
type FailureKind string

const (
	FailureHTTP      FailureKind = "http"
	FailureTransport FailureKind = "transport"
	FailureDecode    FailureKind = "decode"
	FailureSign      FailureKind = "sign"
	FailureSubmit    FailureKind = "submit"
)

// Failure describes a failed order.
type Failure struct {
	Kind FailureKind
	// Status is the HTTP status code for FailureHTTP.
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Kind == FailureHTTP {
		return fmt.Sprintf("Trade request failed: %s", f.Message)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// OrderResult holds either a signature or a Failure.
type OrderResult struct {
	Request   OrderRequest
	Signature solana.Signature
	Failure   *Failure
}

// OK reports whether the order was submitted.
func (r OrderResult) OK() bool {
	return r.Failure == nil
}

// ExplorerURL returns the solscan link for the submitted transaction.
func (r OrderResult) ExplorerURL() string {
	return "https://solscan.io/tx/" + r.Signature.String()
}
