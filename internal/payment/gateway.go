package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SessionRequest is the payload sent to a gateway to open a payment session.
// OrderPayload is opaque to the gateway; it is echoed back on confirmation.
type SessionRequest struct {
	TenantID     string          `json:"tenant_id"`
	Method       string          `json:"method"`
	Amount       string          `json:"amount"`
	OrderPayload json.RawMessage `json:"order_payload"`
}

type SessionResponse struct {
	SessionID    string    `json:"session_id"`
	QROrRedirect string    `json:"qr_or_redirect_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type GatewayClient interface {
	CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error)
}

// HTTPGateway talks to one of the two interchangeable payment providers.
type HTTPGateway struct {
	Name    string
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPGateway(name, baseURL string) *HTTPGateway {
	return &HTTPGateway{
		Name:    name,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *HTTPGateway) CreateSession(ctx context.Context, in SessionRequest) (*SessionResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway %s: session creation failed: %s", g.Name, res.Status)
	}

	var out SessionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
