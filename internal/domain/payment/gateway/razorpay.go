package gateway

import (
	"context"
	"errors"
	"fmt"

	"studylib/internal/pkg/config"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway creates orders through the Razorpay SDK and verifies
// the checkout signature with the key secret.
type RazorpayGateway struct {
	client *razorpay.Client
	config config.RazorpayConfig
}

func NewRazorpayGateway() (*RazorpayGateway, error) {
	cfg := config.GlobalConfig.Razorpay
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay config missing")
	}

	return &RazorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		config: cfg,
	}, nil
}

func (g *RazorpayGateway) Name() string {
	return "razorpay"
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := make(map[string]interface{}, len(req.Notes)+1)
	for k, v := range req.Notes {
		notes[k] = v
	}
	notes["local_order_id"] = req.LocalOrderID

	data := map[string]interface{}{
		"amount":   req.Amount, // paise, native to the API
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, errors.New("razorpay order create: missing order id in response")
	}

	return &Intent{
		GatewayOrderID: orderID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		KeyID:          g.config.KeyID,
	}, nil
}

func (g *RazorpayGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return verifySignature(g.config.KeySecret, gatewayOrderID, gatewayPaymentID, signature)
}

var _ Gateway = (*RazorpayGateway)(nil)
