package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"studylib/internal/pkg/config"
)

// CashfreeGateway talks to the Cashfree PG REST API. Cashfree has no Go
// SDK, so this is a thin client with a bounded timeout.
type CashfreeGateway struct {
	httpClient *http.Client
	config     config.CashfreeConfig
}

func NewCashfreeGateway() (*CashfreeGateway, error) {
	cfg := config.GlobalConfig.Cashfree
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("cashfree config missing")
	}

	return &CashfreeGateway{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		config: cfg,
	}, nil
}

func (g *CashfreeGateway) Name() string {
	return "cashfree"
}

type cashfreeOrderRequest struct {
	OrderID         string                   `json:"order_id"`
	OrderAmount     string                   `json:"order_amount"`
	OrderCurrency   string                   `json:"order_currency"`
	OrderNote       string                   `json:"order_note,omitempty"`
	CustomerDetails cashfreeCustomerDetails  `json:"customer_details"`
	OrderTags       map[string]string        `json:"order_tags,omitempty"`
}

type cashfreeCustomerDetails struct {
	CustomerID string `json:"customer_id"`
}

type cashfreeOrderResponse struct {
	OrderID          string `json:"order_id"`
	CFOrderID        string `json:"cf_order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	OrderStatus      string `json:"order_status"`
	Message          string `json:"message"`
}

func (g *CashfreeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	payload := cashfreeOrderRequest{
		OrderID: req.Receipt,
		// The API takes a rupee decimal; paise stay integral until this edge.
		OrderAmount:   fmt.Sprintf("%d.%02d", req.Amount/100, req.Amount%100),
		OrderCurrency: req.Currency,
		CustomerDetails: cashfreeCustomerDetails{
			CustomerID: req.Notes["user_id"],
		},
		OrderTags: map[string]string{
			"local_order_id": req.LocalOrderID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.config.BaseURL+"/pg/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cashfree new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-version", g.config.APIVersion)
	httpReq.Header.Set("x-client-id", g.config.ClientID)
	httpReq.Header.Set("x-client-secret", g.config.ClientSecret)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cashfree order create: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cashfree read response: %w", err)
	}

	var result cashfreeOrderResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("cashfree decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cashfree order create: status %d: %s", resp.StatusCode, result.Message)
	}
	if result.OrderID == "" {
		return nil, errors.New("cashfree order create: missing order id in response")
	}

	return &Intent{
		GatewayOrderID: result.OrderID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Extra: map[string]string{
			"payment_session_id": result.PaymentSessionID,
		},
	}, nil
}

func (g *CashfreeGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return verifySignature(g.config.ClientSecret, gatewayOrderID, gatewayPaymentID, signature)
}

var _ Gateway = (*CashfreeGateway)(nil)
