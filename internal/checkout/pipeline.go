// Package checkout sequences a checkout attempt: validate, resolve discount
// and customer identity, resolve address, branch by payment method, commit
// the order, fire post-commit side effects, and compensate partial writes.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pratodigital/checkout/internal/address"
	"github.com/pratodigital/checkout/internal/cart"
	"github.com/pratodigital/checkout/internal/customer"
	"github.com/pratodigital/checkout/internal/discount"
	"github.com/pratodigital/checkout/internal/order"
	"github.com/pratodigital/checkout/internal/payment"
	"github.com/pratodigital/checkout/internal/store"
)

type Pipeline struct {
	Stores    store.Repository
	Customers *customer.Resolver
	Addresses *address.Resolver
	Coupons   discount.CouponRepository
	Referrals discount.ReferralRepository
	Credits   discount.CreditRepository
	Orders    order.Repository
	Sessions  payment.SessionRepository
	Dispatch  *payment.Dispatcher
	Inventory InventoryValidator
	Effects   *SideEffects
}

// sessionPayload is the commit-ready state frozen into a payment session at
// creation time. Confirmation commits exactly this: the amount the gateway
// charged is the amount the order records, no matter what changed in between.
type sessionPayload struct {
	Order        order.Order   `json:"order"`
	Items        []order.Item  `json:"items"`
	Kind         discount.Kind `json:"discount_kind"`
	CouponID     string        `json:"coupon_id,omitempty"`
	GrantID      string        `json:"grant_id,omitempty"`
	CustomerName string        `json:"customer_name"`
	ContactPhone string        `json:"contact_phone,omitempty"`
}

func (sp sessionPayload) discountContext() discount.Context {
	amount, _ := decimal.NewFromString(sp.Order.Discount)
	dctx := discount.Context{Kind: sp.Kind, Amount: amount}
	switch sp.Kind {
	case discount.KindCoupon:
		dctx.Coupon = &discount.Coupon{ID: sp.CouponID}
	case discount.KindReferral:
		dctx.Referral = &discount.ReferralGrant{ID: sp.GrantID}
	}
	return dctx
}

// Run executes one checkout attempt end to end.
//
// There is no idempotency key: a client retry after a timeout can create a
// duplicate order. Known gap, carried over from the current platform.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	st, err := p.Stores.GetByTenant(ctx, req.TenantID)
	if err != nil {
		return nil, validationf("store unavailable")
	}
	if !st.Open {
		return nil, validationf("store is closed")
	}
	if req.Cart.Empty() {
		return nil, validationf("cart is empty")
	}
	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		return nil, validationf("unsupported payment method %q", req.Method)
	}

	subtotal := req.Cart.Subtotal()
	if !req.Delivery.TableOrder && subtotal.LessThan(st.MinOrder) {
		return nil, validationf("minimum order is %s", st.MinOrder.StringFixed(2))
	}

	// The inventory check is the sole unconditional pre-commit gate: nothing
	// is written before it passes.
	ok, msg, err := p.Inventory.ValidateInventory(ctx, req.TenantID, FlattenForInventory(req.Cart))
	if err != nil {
		return nil, &StockError{Reason: "could not verify item availability, please try again"}
	}
	if !ok {
		if msg == "" {
			msg = "some items are no longer available"
		}
		return nil, &StockError{Reason: msg}
	}

	customerID, err := p.Customers.Resolve(ctx, customer.Input{
		TenantID:  req.TenantID,
		SessionID: req.SessionID,
		Name:      req.Customer.Name,
		Email:     req.Customer.Email,
		Phone:     req.Customer.Phone,
	})
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("resolve customer: %w", err)}
	}

	dctx, err := p.resolveDiscount(ctx, req, subtotal, customerID)
	if err != nil {
		return nil, err
	}

	addressID := ""
	if !req.Delivery.TableOrder {
		addressID, err = p.resolveAddress(ctx, req, customerID)
		if err != nil {
			return nil, err
		}
	}

	deliveryFee := st.DeliveryFee
	if req.Delivery.TableOrder {
		deliveryFee = decimal.Zero
	}
	total := subtotal.Sub(dctx.Amount).Add(deliveryFee)

	o := p.buildOrder(req, method, customerID, addressID, subtotal, dctx, deliveryFee, total)
	items := freezeItems(o.ID, req.Cart)

	if method.Online() {
		return p.suspend(ctx, st, o, items, dctx, req, total)
	}

	if err := p.commit(ctx, o, items, req.Customer.Name, customer.NormalizePhone(req.Customer.Phone)); err != nil {
		return nil, err
	}

	p.Effects.Run(ctx, st, o, dctx, subtotal, req.Customer.Name)
	return &Result{OrderID: o.ID, Total: o.Total}, nil
}

// suspend freezes the fully resolved order into a gateway payment session.
// The order is not written; confirmation commits the frozen payload.
func (p *Pipeline) suspend(ctx context.Context, st *store.Store, o *order.Order, items []order.Item, dctx discount.Context, req Request, total decimal.Decimal) (*Result, error) {
	frozen := sessionPayload{
		Order:        *o,
		Items:        items,
		Kind:         dctx.Kind,
		CustomerName: req.Customer.Name,
		ContactPhone: customer.NormalizePhone(req.Customer.Phone),
	}
	switch dctx.Kind {
	case discount.KindCoupon:
		frozen.CouponID = dctx.Coupon.ID
	case discount.KindReferral:
		frozen.GrantID = dctx.Referral.ID
	}
	payload, err := json.Marshal(frozen)
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("freeze session payload: %w", err)}
	}

	decision, err := p.Dispatch.Dispatch(ctx, payment.DispatchInput{
		TenantID: req.TenantID,
		Method:   payment.Method(o.PaymentMethod),
		Flags: payment.StoreFlags{
			OnlinePaymentsEnabled: st.OnlinePaymentsEnabled,
			PixEnabled:            st.PixEnabled,
			Gateway:               st.Gateway,
		},
		Amount:  total,
		Payload: payload,
	})
	if err != nil {
		if errors.Is(err, payment.ErrOnlinePaymentsDisabled) || errors.Is(err, payment.ErrPixDisabled) {
			return nil, &ValidationError{Reason: err.Error()}
		}
		return nil, &GatewayError{Err: err}
	}
	return &Result{Suspended: true, Session: decision.Session}, nil
}

// Confirm commits the order frozen into a settled payment session. The
// session is claimed before the write so concurrent confirmations cannot
// commit twice; a failed commit releases the claim, because the money has
// already settled and the confirmation must stay retryable.
func (p *Pipeline) Confirm(ctx context.Context, sessionID string) (*Result, error) {
	s, err := p.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.ConsumedAt != nil {
		return nil, payment.ErrSessionConsumed
	}
	if time.Now().After(s.ExpiresAt) {
		return nil, payment.ErrSessionExpired
	}

	var frozen sessionPayload
	if err := json.Unmarshal(s.Payload, &frozen); err != nil {
		return nil, &InternalError{Err: fmt.Errorf("session payload: %w", err)}
	}

	if err := p.Sessions.MarkConsumed(ctx, sessionID); err != nil {
		return nil, err
	}

	o := frozen.Order
	if err := p.commit(ctx, &o, frozen.Items, frozen.CustomerName, frozen.ContactPhone); err != nil {
		if rerr := p.Sessions.Reopen(ctx, sessionID); rerr != nil {
			log.Printf("[checkout] session reopen failed for %s: %v", sessionID, rerr)
		}
		return nil, err
	}

	p.runFrozenEffects(ctx, frozen, &o)
	return &Result{OrderID: o.ID, Total: o.Total}, nil
}

// runFrozenEffects fires post-commit side effects for a confirmed session.
// The store lookup only feeds loyalty flags; its failure never blocks.
func (p *Pipeline) runFrozenEffects(ctx context.Context, frozen sessionPayload, o *order.Order) {
	st, err := p.Stores.GetByTenant(ctx, o.TenantID)
	if err != nil {
		log.Printf("[checkout] store lookup for side effects failed tenant=%s: %v", o.TenantID, err)
		st = &store.Store{TenantID: o.TenantID}
	}
	subtotal, _ := decimal.NewFromString(o.Subtotal)
	p.Effects.Run(ctx, st, o, frozen.discountContext(), subtotal, frozen.CustomerName)
}

func (p *Pipeline) resolveDiscount(ctx context.Context, req Request, subtotal decimal.Decimal, customerID string) (discount.Context, error) {
	var coupon *discount.Coupon
	if req.CouponCode != "" {
		c, err := p.Coupons.GetByCode(ctx, req.TenantID, req.CouponCode)
		if err != nil {
			if errors.Is(err, discount.ErrCouponNotFound) {
				return discount.Context{}, validationf("invalid coupon code")
			}
			return discount.Context{}, &InternalError{Err: err}
		}
		coupon = c
	}

	var grant *discount.ReferralGrant
	if coupon == nil && req.ReferralCode != "" && customerID != "" {
		g, err := p.Referrals.GetGrant(ctx, req.TenantID, req.ReferralCode, customerID)
		if err == nil {
			grant = g
		} else if !errors.Is(err, discount.ErrGrantNotFound) {
			log.Printf("[checkout] referral grant lookup failed: %v", err)
		}
	}

	credit := decimal.Zero
	if coupon == nil && grant == nil && req.UseStoreCredit && customerID != "" {
		balance, err := p.Credits.Balance(ctx, req.TenantID, customerID)
		if err != nil {
			log.Printf("[checkout] store credit balance lookup failed: %v", err)
		} else {
			credit = balance
		}
	}

	dctx, err := discount.Resolve(subtotal, coupon, grant, credit, time.Now())
	if err != nil {
		return discount.Context{}, &ValidationError{Reason: err.Error()}
	}
	return dctx, nil
}

func (p *Pipeline) resolveAddress(ctx context.Context, req Request, customerID string) (string, error) {
	id, err := p.Addresses.Resolve(ctx, address.Input{
		TenantID:       req.TenantID,
		CustomerID:     customerID,
		GuestSessionID: req.SessionID,
		SavedID:        req.Delivery.SavedAddressID,
		EditingSaved:   req.Delivery.EditingSaved,
		Fields:         req.Delivery.Address,
	})
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, address.ErrIncomplete):
		return "", validationf("delivery address is missing required fields")
	case errors.Is(err, address.ErrNotFound):
		return "", validationf("selected address no longer exists")
	default:
		return "", &InternalError{Err: fmt.Errorf("resolve address: %w", err)}
	}
}

func (p *Pipeline) buildOrder(req Request, method payment.Method, customerID, addressID string, subtotal decimal.Decimal, dctx discount.Context, deliveryFee, total decimal.Decimal) *order.Order {
	notes := req.Notes
	kind := ""
	if dctx.Kind != discount.KindNone {
		kind = string(dctx.Kind)
	}
	if req.Delivery.TableOrder {
		marker := fmt.Sprintf("[table %d]", req.Delivery.TableNumber)
		if notes != "" {
			notes = marker + " " + notes
		} else {
			notes = marker
		}
	}
	return &order.Order{
		ID:             uuid.NewString(),
		TenantID:       req.TenantID,
		CustomerID:     customerID,
		AddressID:      addressID,
		TableSessionID: req.Delivery.TableSessionID,
		TableNumber:    req.Delivery.TableNumber,
		PaymentMethod:  method.String(),
		Channel:        req.Channel,
		Status:         order.StatusPending,
		Subtotal:       subtotal.StringFixed(2),
		Discount:       dctx.Amount.StringFixed(2),
		DiscountKind:   kind,
		DeliveryFee:    deliveryFee.StringFixed(2),
		Total:          total.StringFixed(2),
		Notes:          notes,
		NeedsChange:    req.NeedsChange,
		ChangeFor:      req.ChangeFor,
	}
}

// freezeItems copies names and prices out of the cart snapshot so later
// catalog edits cannot alter the committed order.
func freezeItems(orderID string, s cart.Snapshot) []order.Item {
	items := make([]order.Item, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, order.Item{
			ID:           uuid.NewString(),
			OrderID:      orderID,
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitTotal().StringFixed(2),
			Total:        l.Total().StringFixed(2),
			Notes:        l.Notes,
			RequiresPrep: l.RequiresPrep,
		})
	}
	return items
}

// commit writes the header, then the items, then the table contact where one
// applies. Every fatal error after the header write compensates.
func (p *Pipeline) commit(ctx context.Context, o *order.Order, items []order.Item, contactName, contactPhone string) error {
	if err := p.Orders.InsertHeader(ctx, o); err != nil {
		return &CommitError{Err: fmt.Errorf("insert order header: %w", err)}
	}
	if err := p.Orders.InsertItems(ctx, o.ID, items); err != nil {
		return p.compensate(ctx, o.ID, fmt.Errorf("insert order items: %w", err))
	}
	if o.TableSessionID != "" {
		if err := p.Orders.UpdateTableContact(ctx, o.TableSessionID, contactName, contactPhone); err != nil {
			return p.compensate(ctx, o.ID, fmt.Errorf("update table contact: %w", err))
		}
	}
	return nil
}

// compensate deletes the partially written order (items then header). A
// secondary deletion failure is logged only, so the original failure is the
// one surfaced to the customer.
func (p *Pipeline) compensate(ctx context.Context, orderID string, cause error) error {
	if err := p.Orders.Delete(ctx, orderID); err != nil {
		log.Printf("[checkout] compensation failed for order %s: %v", orderID, err)
	}
	return &CommitError{Err: cause}
}
