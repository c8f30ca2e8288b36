package payment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSessionNotFound = errors.New("payment session not found")
	ErrSessionExpired  = errors.New("payment session has expired")
	ErrSessionConsumed = errors.New("payment session already consumed")
)

// Session is the ephemeral record for an in-flight online payment. It always
// precedes the order: Payload carries the fully resolved order, frozen at
// dispatch time, that the confirmation step commits once the payment settles.
type Session struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	Gateway      string     `json:"gateway"`
	Method       Method     `json:"method"`
	Reference    string     `json:"reference"` // gateway-side session id
	QROrRedirect string     `json:"qr_or_redirect_url"`
	Amount       string     `json:"amount"`
	Payload      []byte     `json:"-"`
	ExpiresAt    time.Time  `json:"expires_at"`
	ConsumedAt   *time.Time `json:"consumed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// MarkConsumed succeeds at most once per session.
	MarkConsumed(ctx context.Context, id string) error
	// Reopen releases a consumed session whose order commit failed, so the
	// settled payment can be confirmed again.
	Reopen(ctx context.Context, id string) error
}

type PGSessionRepo struct{ db *pgxpool.Pool }

func NewPGSessionRepo(db *pgxpool.Pool) *PGSessionRepo { return &PGSessionRepo{db: db} }

func (r *PGSessionRepo) Create(ctx context.Context, s *Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_sessions (id, tenant_id, gateway, method, reference,
		                              qr_or_redirect_url, amount, payload, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
	`, s.ID, s.TenantID, s.Gateway, string(s.Method), s.Reference,
		s.QROrRedirect, s.Amount, s.Payload, s.ExpiresAt)
	return err
}

func (r *PGSessionRepo) GetByID(ctx context.Context, id string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		s      Session
		method string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, gateway, method, reference, qr_or_redirect_url,
		       amount::text, payload, expires_at, consumed_at, created_at
		FROM payment_sessions WHERE id=$1
	`, id).Scan(&s.ID, &s.TenantID, &s.Gateway, &method, &s.Reference, &s.QROrRedirect,
		&s.Amount, &s.Payload, &s.ExpiresAt, &s.ConsumedAt, &s.CreatedAt)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	s.Method = Method(method)
	return &s, nil
}

func (r *PGSessionRepo) MarkConsumed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE payment_sessions SET consumed_at = NOW()
		WHERE id = $1 AND consumed_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionConsumed
	}
	return nil
}

func (r *PGSessionRepo) Reopen(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE payment_sessions SET consumed_at = NULL
		WHERE id = $1
	`, id)
	return err
}
