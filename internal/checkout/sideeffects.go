package checkout

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/pratodigital/checkout/internal/discount"
	"github.com/pratodigital/checkout/internal/notify"
	"github.com/pratodigital/checkout/internal/order"
	"github.com/pratodigital/checkout/internal/store"
)

type Notifier interface {
	PublishOrderConfirmed(ctx context.Context, c notify.OrderConfirmation) error
}

// SideEffects runs the dependent effects of a committed order. Every effect
// is independent and non-fatal: a failure is logged, never surfaced to the
// customer, never rolled back.
type SideEffects struct {
	Coupons   discount.CouponRepository
	Referrals discount.ReferralRepository
	Credits   discount.CreditRepository
	Notifier  Notifier
	Loyalty   TicketComputer
}

func (s *SideEffects) Run(ctx context.Context, st *store.Store, o *order.Order, dctx discount.Context, subtotal decimal.Decimal, customerName string) {
	switch dctx.Kind {
	case discount.KindCoupon:
		if err := s.Coupons.IncrementUsage(ctx, dctx.Coupon.ID); err != nil {
			log.Printf("[checkout] coupon usage increment failed order=%s coupon=%s: %v", o.ID, dctx.Coupon.ID, err)
		}
	case discount.KindReferral:
		total, _ := decimal.NewFromString(o.Total)
		if err := s.Referrals.Settle(ctx, dctx.Referral.ID, o.ID, total); err != nil {
			log.Printf("[checkout] referral settlement failed order=%s grant=%s: %v", o.ID, dctx.Referral.ID, err)
		}
	case discount.KindCredit:
		if err := s.Credits.Consume(ctx, o.TenantID, o.CustomerID, dctx.Amount, o.ID); err != nil {
			log.Printf("[checkout] store credit consumption failed order=%s: %v", o.ID, err)
		}
	}

	if s.Notifier != nil {
		err := s.Notifier.PublishOrderConfirmed(ctx, notify.OrderConfirmation{
			OrderID:      o.ID,
			TenantID:     o.TenantID,
			CustomerName: customerName,
			Total:        o.Total,
			Method:       o.PaymentMethod,
			TableNumber:  o.TableNumber,
		})
		if err != nil {
			log.Printf("[checkout] confirmation publish failed order=%s: %v", o.ID, err)
		}
	}

	if st.LoyaltyEnabled {
		tickets := LoyaltyTickets(subtotal, st.LoyaltyFlatTickets, st.LoyaltyBonusThreshold)
		if s.Loyalty != nil {
			if remote, err := s.Loyalty.ComputeTickets(ctx, o.TenantID, subtotal.StringFixed(2)); err == nil {
				tickets = remote
			} else {
				log.Printf("[checkout] loyalty service unavailable, using local accrual: %v", err)
			}
		}
		log.Printf("[checkout] loyalty accrual order=%s tickets=%d", o.ID, tickets)
	}
}
