package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// Repository writes the order aggregate in two deliberate steps. Header and
// items are separate network calls, so a failed items write leaves a header
// behind that Delete must clean up (the checkout pipeline owns that
// compensation).
type Repository interface {
	InsertHeader(ctx context.Context, o *Order) error
	InsertItems(ctx context.Context, orderID string, items []Item) error
	// Delete removes items first, then the header.
	Delete(ctx context.Context, orderID string) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	UpdateTableContact(ctx context.Context, tableSessionID, name, phone string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) InsertHeader(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, tenant_id, customer_id, address_id, table_session_id, table_number,
		                    payment_method, channel, status, subtotal, discount, discount_kind,
		                    delivery_fee, total, notes, needs_change, change_for, created_at, updated_at)
		VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),$6,
		        $7,$8,$9,$10,$11,NULLIF($12,''),$13,$14,NULLIF($15,''),$16,NULLIF($17,''),NOW(),NOW())
	`, o.ID, o.TenantID, o.CustomerID, o.AddressID, o.TableSessionID, o.TableNumber,
		o.PaymentMethod, o.Channel, o.Status, o.Subtotal, o.Discount, o.DiscountKind,
		o.DeliveryFee, o.Total, o.Notes, o.NeedsChange, o.ChangeFor)
	return err
}

func (r *PGRepo) InsertItems(ctx context.Context, orderID string, items []Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, it := range items {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity,
			                         unit_price, total, notes, requires_prep)
			VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),$9)
		`, it.ID, orderID, it.ProductID, it.ProductName, it.Quantity,
			it.UnitPrice, it.Total, it.Notes, it.RequiresPrep); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	var o Order
	if err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, COALESCE(customer_id,''), COALESCE(address_id,''),
		       COALESCE(table_session_id,''), table_number, payment_method, channel, status,
		       subtotal::text, discount::text, COALESCE(discount_kind,''), delivery_fee::text,
		       total::text, COALESCE(notes,''), needs_change, COALESCE(change_for::text,''),
		       created_at, updated_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.AddressID, &o.TableSessionID, &o.TableNumber,
		&o.PaymentMethod, &o.Channel, &o.Status, &o.Subtotal, &o.Discount, &o.DiscountKind,
		&o.DeliveryFee, &o.Total, &o.Notes, &o.NeedsChange, &o.ChangeFor, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity,
		       unit_price::text, total::text, COALESCE(notes,''), requires_prep
		FROM order_items WHERE order_id=$1
	`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Total, &it.Notes, &it.RequiresPrep); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return &o, items, rows.Err()
}

func (r *PGRepo) UpdateTableContact(ctx context.Context, tableSessionID, name, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE table_sessions
		SET contact_name = COALESCE(NULLIF($2,''), contact_name),
		    contact_phone = COALESCE(NULLIF($3,''), contact_phone),
		    updated_at = NOW()
		WHERE id = $1
	`, tableSessionID, name, phone)
	return err
}
