package discount

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrGrantNotFound  = errors.New("referral grant not found")
)

type CouponRepository interface {
	GetByCode(ctx context.Context, tenantID, code string) (*Coupon, error)
	IncrementUsage(ctx context.Context, id string) error
}

type ReferralRepository interface {
	GetGrant(ctx context.Context, tenantID, code, referredCustomerID string) (*ReferralGrant, error)
	// Settle credits the referrer once per order id.
	Settle(ctx context.Context, grantID, orderID string, orderTotal decimal.Decimal) error
}

type CreditRepository interface {
	Balance(ctx context.Context, tenantID, customerID string) (decimal.Decimal, error)
	// Consume debits up to the applied amount against an order id.
	Consume(ctx context.Context, tenantID, customerID string, amount decimal.Decimal, orderID string) error
}

type PGCouponRepo struct{ db *pgxpool.Pool }

func NewPGCouponRepo(db *pgxpool.Pool) *PGCouponRepo { return &PGCouponRepo{db: db} }

func (r *PGCouponRepo) GetByCode(ctx context.Context, tenantID, code string) (*Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		c                 Coupon
		rate, amount, min string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, code, type, rate::text, amount::text, min_subtotal::text,
		       usage_count, usage_cap, active, expires_at
		FROM coupons WHERE tenant_id=$1 AND code=$2
	`, tenantID, code).Scan(&c.ID, &c.TenantID, &c.Code, &c.Type, &rate, &amount, &min,
		&c.UsageCount, &c.UsageCap, &c.Active, &c.ExpiresAt)
	if err != nil {
		return nil, ErrCouponNotFound
	}
	if c.Rate, err = decimal.NewFromString(rate); err != nil {
		return nil, err
	}
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if c.MinSubtotal, err = decimal.NewFromString(min); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCouponRepo) IncrementUsage(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE coupons SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

type PGReferralRepo struct{ db *pgxpool.Pool }

func NewPGReferralRepo(db *pgxpool.Pool) *PGReferralRepo { return &PGReferralRepo{db: db} }

func (r *PGReferralRepo) GetGrant(ctx context.Context, tenantID, code, referredCustomerID string) (*ReferralGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		g       ReferralGrant
		percent string
	)
	// A grant is usable only while unsettled and only for the customer whose
	// verified email it was issued against.
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, code, referrer_customer_id, referred_customer_id, percent::text, settled
		FROM referral_grants
		WHERE tenant_id=$1 AND code=$2 AND referred_customer_id=$3 AND settled=false
	`, tenantID, code, referredCustomerID).Scan(&g.ID, &g.TenantID, &g.Code,
		&g.ReferrerCustomerID, &g.ReferredCustomerID, &percent, &g.Settled)
	if err != nil {
		return nil, ErrGrantNotFound
	}
	if g.Percent, err = decimal.NewFromString(percent); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PGReferralRepo) Settle(ctx context.Context, grantID, orderID string, orderTotal decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// ON CONFLICT keeps the settlement idempotent per order id.
	_, err := r.db.Exec(ctx, `
		INSERT INTO referral_credit_entries (grant_id, order_id, order_total, created_at)
		VALUES ($1,$2,$3,NOW())
		ON CONFLICT (order_id) DO NOTHING
	`, grantID, orderID, orderTotal.StringFixed(2))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE referral_grants SET settled = true WHERE id = $1
	`, grantID)
	return err
}

type PGCreditRepo struct{ db *pgxpool.Pool }

func NewPGCreditRepo(db *pgxpool.Pool) *PGCreditRepo { return &PGCreditRepo{db: db} }

func (r *PGCreditRepo) Balance(ctx context.Context, tenantID, customerID string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var balance string
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(balance, 0)::text FROM store_credits
		WHERE tenant_id=$1 AND customer_id=$2
	`, tenantID, customerID).Scan(&balance)
	if err != nil {
		// No row means no credit accumulated yet.
		return decimal.Zero, nil
	}
	return decimal.NewFromString(balance)
}

func (r *PGCreditRepo) Consume(ctx context.Context, tenantID, customerID string, amount decimal.Decimal, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE store_credits SET balance = balance - $3, updated_at = NOW()
		WHERE tenant_id=$1 AND customer_id=$2
	`, tenantID, customerID, amount.StringFixed(2))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO store_credit_entries (tenant_id, customer_id, order_id, amount, created_at)
		VALUES ($1,$2,$3,$4,NOW())
	`, tenantID, customerID, orderID, amount.Neg().StringFixed(2))
	return err
}
