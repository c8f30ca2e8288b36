package customer

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrAlreadyExist = errors.New("customer already exists")
)

type Repository interface {
	GetByEmail(ctx context.Context, tenantID, email string) (*Customer, error)
	GetByPhone(ctx context.Context, tenantID, phone string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByEmail(ctx context.Context, tenantID, email string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, name, COALESCE(email,''), COALESCE(phone,''), created_at, updated_at
		FROM customers WHERE tenant_id=$1 AND email=$2
	`, tenantID, email)
	var c Customer
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *PGRepo) GetByPhone(ctx context.Context, tenantID, phone string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, name, COALESCE(email,''), COALESCE(phone,''), created_at, updated_at
		FROM customers WHERE tenant_id=$1 AND phone=$2
	`, tenantID, phone)
	var c Customer
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *PGRepo) Create(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, tenant_id, name, email, phone, created_at, updated_at)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),NOW(),NOW())
	`, c.ID, c.TenantID, c.Name, c.Email, c.Phone)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: a concurrent checkout won the UNIQUE (tenant_id, email/phone) race.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExist
		}
		return err
	}
	return nil
}

func (r *PGRepo) Update(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name  = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email),
		    phone = COALESCE(NULLIF($4, ''), phone),
		    updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone)
	return err
}
