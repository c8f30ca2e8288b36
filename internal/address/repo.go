package address

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	GetByID(ctx context.Context, id string) (*Address, error)
	// FindExact matches all seven typed fields for a known customer.
	FindExact(ctx context.Context, tenantID, customerID string, f Fields) (*Address, error)
	Create(ctx context.Context, a *Address) error
	AttachCustomer(ctx context.Context, addressID, customerID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, COALESCE(customer_id,''), COALESCE(guest_session_id,''),
		       street, number, neighborhood, city, state, postal_code, COALESCE(complement,''), created_at
		FROM addresses WHERE id=$1
	`, id)
	var a Address
	if err := row.Scan(&a.ID, &a.TenantID, &a.CustomerID, &a.GuestSessionID,
		&a.Street, &a.Number, &a.Neighborhood, &a.City, &a.State, &a.PostalCode, &a.Complement, &a.CreatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) FindExact(ctx context.Context, tenantID, customerID string, f Fields) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, COALESCE(customer_id,''), COALESCE(guest_session_id,''),
		       street, number, neighborhood, city, state, postal_code, COALESCE(complement,''), created_at
		FROM addresses
		WHERE tenant_id=$1 AND customer_id=$2
		  AND street=$3 AND number=$4 AND neighborhood=$5
		  AND city=$6 AND state=$7 AND postal_code=$8 AND COALESCE(complement,'')=$9
		LIMIT 1
	`, tenantID, customerID, f.Street, f.Number, f.Neighborhood, f.City, f.State, f.PostalCode, f.Complement)
	var a Address
	if err := row.Scan(&a.ID, &a.TenantID, &a.CustomerID, &a.GuestSessionID,
		&a.Street, &a.Number, &a.Neighborhood, &a.City, &a.State, &a.PostalCode, &a.Complement, &a.CreatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) Create(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO addresses (id, tenant_id, customer_id, guest_session_id,
		                       street, number, neighborhood, city, state, postal_code, complement, created_at)
		VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,$8,$9,$10,NULLIF($11,''),NOW())
	`, a.ID, a.TenantID, a.CustomerID, a.GuestSessionID,
		a.Street, a.Number, a.Neighborhood, a.City, a.State, a.PostalCode, a.Complement)
	return err
}

func (r *PGRepo) AttachCustomer(ctx context.Context, addressID, customerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE addresses SET customer_id = $2, guest_session_id = NULL
		WHERE id = $1 AND customer_id IS NULL
	`, addressID, customerID)
	return err
}
