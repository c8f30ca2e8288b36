package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOnlinePaymentsDisabled = errors.New("online payments are not enabled for this store")
	ErrPixDisabled            = errors.New("pix is not enabled for this store")
	ErrGatewayUnknown         = errors.New("no such payment gateway configured")
)

// StoreFlags is the subset of store settings the dispatcher branches on.
type StoreFlags struct {
	OnlinePaymentsEnabled bool
	PixEnabled            bool
	Gateway               string
}

type DispatchInput struct {
	TenantID string
	Method   Method
	Flags    StoreFlags
	Amount   decimal.Decimal
	// Payload is the frozen resolved order, committed as-is on confirmation.
	Payload []byte
}

// Decision is the dispatcher outcome: either proceed straight to the order
// commit, or suspend on a freshly created payment session.
type Decision struct {
	Commit  bool
	Session *Session
}

type Dispatcher struct {
	Gateways map[string]GatewayClient
	Sessions SessionRepository
}

func NewDispatcher(gateways map[string]GatewayClient, sessions SessionRepository) *Dispatcher {
	return &Dispatcher{Gateways: gateways, Sessions: sessions}
}

// Dispatch branches on the payment method. Feature-flag rejections happen
// before any write; transitions are one-way, and a failed or expired session
// is never retried here -- the customer resubmits and gets a new session.
func (d *Dispatcher) Dispatch(ctx context.Context, in DispatchInput) (*Decision, error) {
	if in.Method.PayOnFulfillment() {
		return &Decision{Commit: true}, nil
	}

	if !in.Flags.OnlinePaymentsEnabled {
		return nil, ErrOnlinePaymentsDisabled
	}
	if in.Method == MethodPix && !in.Flags.PixEnabled {
		return nil, ErrPixDisabled
	}

	gw, ok := d.Gateways[in.Flags.Gateway]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGatewayUnknown, in.Flags.Gateway)
	}

	resp, err := gw.CreateSession(ctx, SessionRequest{
		TenantID:     in.TenantID,
		Method:       in.Method.String(),
		Amount:       in.Amount.StringFixed(2),
		OrderPayload: in.Payload,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:           uuid.NewString(),
		TenantID:     in.TenantID,
		Gateway:      in.Flags.Gateway,
		Method:       in.Method,
		Reference:    resp.SessionID,
		QROrRedirect: resp.QROrRedirect,
		Amount:       in.Amount.StringFixed(2),
		Payload:      in.Payload,
		ExpiresAt:    resp.ExpiresAt,
	}
	if err := d.Sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	return &Decision{Session: s}, nil
}
