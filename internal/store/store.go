// Package store exposes per-tenant storefront settings and feature flags.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("store not found")

type Store struct {
	TenantID              string
	Name                  string
	Open                  bool
	OnlinePaymentsEnabled bool
	PixEnabled            bool
	Gateway               string // which payment provider this store uses
	LoyaltyEnabled        bool
	LoyaltyFlatTickets    int
	LoyaltyBonusThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	MinOrder              decimal.Decimal
}

type Repository interface {
	GetByTenant(ctx context.Context, tenantID string) (*Store, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByTenant(ctx context.Context, tenantID string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		s                        Store
		threshold, fee, minOrder string
	)
	err := r.db.QueryRow(ctx, `
		SELECT tenant_id, name, open, online_payments_enabled, pix_enabled, gateway,
		       loyalty_enabled, loyalty_flat_tickets, loyalty_bonus_threshold::text,
		       delivery_fee::text, min_order::text
		FROM stores WHERE tenant_id=$1
	`, tenantID).Scan(&s.TenantID, &s.Name, &s.Open, &s.OnlinePaymentsEnabled, &s.PixEnabled,
		&s.Gateway, &s.LoyaltyEnabled, &s.LoyaltyFlatTickets, &threshold, &fee, &minOrder)
	if err != nil {
		return nil, ErrNotFound
	}
	if s.LoyaltyBonusThreshold, err = decimal.NewFromString(threshold); err != nil {
		return nil, err
	}
	if s.DeliveryFee, err = decimal.NewFromString(fee); err != nil {
		return nil, err
	}
	if s.MinOrder, err = decimal.NewFromString(minOrder); err != nil {
		return nil, err
	}
	return &s, nil
}
