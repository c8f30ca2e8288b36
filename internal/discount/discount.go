// Package discount resolves which single discount source applies to a checkout.
package discount

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCouponInactive   = errors.New("coupon is not active")
	ErrCouponExpired    = errors.New("coupon has expired")
	ErrCouponMinNotMet  = errors.New("order subtotal is below the coupon minimum")
	ErrCouponCapReached = errors.New("coupon usage limit reached")
)

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

type Coupon struct {
	ID          string
	TenantID    string
	Code        string
	Type        CouponType
	Rate        decimal.Decimal // percent, for percentage coupons
	Amount      decimal.Decimal // fixed amount, for fixed coupons
	MinSubtotal decimal.Decimal
	UsageCount  int
	UsageCap    int
	Active      bool
	ExpiresAt   *time.Time
}

// Validate checks the coupon against a subtotal at a point in time.
func (c *Coupon) Validate(subtotal decimal.Decimal, now time.Time) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if subtotal.LessThan(c.MinSubtotal) {
		return ErrCouponMinNotMet
	}
	if c.UsageCap > 0 && c.UsageCount >= c.UsageCap {
		return ErrCouponCapReached
	}
	return nil
}

// ReferralGrant is a one-time percentage discount granted to a referred
// customer, validated server-side against the customer's verified email.
type ReferralGrant struct {
	ID                 string
	TenantID           string
	Code               string
	ReferrerCustomerID string
	ReferredCustomerID string
	Percent            decimal.Decimal
	Settled            bool
}

type Kind string

const (
	KindNone     Kind = "none"
	KindCoupon   Kind = "coupon"
	KindReferral Kind = "referral"
	KindCredit   Kind = "credit"
)

// Context is the resolved discount: a tagged value with exactly one active
// source. Amount is always the applied discount, zero for KindNone.
type Context struct {
	Kind     Kind
	Amount   decimal.Decimal
	Coupon   *Coupon        // set only for KindCoupon
	Referral *ReferralGrant // set only for KindReferral
}

var hundred = decimal.NewFromInt(100)

// Resolve picks exactly one discount source. Precedence is coupon over
// referral over store credit; a present-but-invalid coupon fails the whole
// resolution rather than falling through to the next source.
func Resolve(subtotal decimal.Decimal, coupon *Coupon, grant *ReferralGrant, creditBalance decimal.Decimal, now time.Time) (Context, error) {
	if coupon != nil {
		if err := coupon.Validate(subtotal, now); err != nil {
			return Context{}, err
		}
		amount := coupon.Amount
		if coupon.Type == CouponPercentage {
			amount = subtotal.Mul(coupon.Rate).DivRound(hundred, 2)
		}
		return Context{Kind: KindCoupon, Amount: amount, Coupon: coupon}, nil
	}
	if grant != nil {
		amount := subtotal.Mul(grant.Percent).DivRound(hundred, 2)
		return Context{Kind: KindReferral, Amount: amount, Referral: grant}, nil
	}
	if creditBalance.IsPositive() {
		amount := decimal.Min(creditBalance, subtotal)
		return Context{Kind: KindCredit, Amount: amount}, nil
	}
	return Context{Kind: KindNone, Amount: decimal.Zero}, nil
}
