package gateway

import (
	"context"
)

// IntentRequest describes the payment intent to open with the provider.
// Amount is in paise; conversion to a provider-specific format happens
// inside the adapter, never in the caller.
type IntentRequest struct {
	LocalOrderID string
	Amount       int64
	Currency     string
	Receipt      string
	Notes        map[string]string
}

// Intent is the provider-side record plus the parameters the browser SDK
// needs to collect the payment. It never contains the shared secret.
type Intent struct {
	GatewayOrderID string
	Amount         int64
	Currency       string
	KeyID          string
	Extra          map[string]string
}

// Gateway is the polymorphic payment capability. Each provider variant
// implements intent creation and result-signature verification; the
// verification step is mandatory regardless of what status the client
// reports.
type Gateway interface {
	// Name returns the provider key used in order rows and config.
	Name() string

	// CreateIntent opens a provider-side payment intent. Failures are
	// retryable by the caller; no local state is written here.
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)

	// VerifySignature checks that the claimed result was produced by the
	// provider for this (order, payment) pair.
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}
