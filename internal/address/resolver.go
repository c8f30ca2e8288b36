package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrIncomplete = errors.New("delivery address is missing required fields")

// Input describes how the customer picked an address: a previously saved one
// (possibly being edited), or freshly typed fields.
type Input struct {
	TenantID       string
	CustomerID     string // empty for guests
	GuestSessionID string
	SavedID        string
	EditingSaved   bool
	Fields         Fields
}

type Resolver struct {
	Repo Repository
}

func NewResolver(repo Repository) *Resolver { return &Resolver{Repo: repo} }

// Resolve returns the address id a delivery order should reference. Table
// orders never reach this point; the pipeline skips address resolution
// entirely for them.
func (r *Resolver) Resolve(ctx context.Context, in Input) (string, error) {
	if in.SavedID != "" && !in.EditingSaved {
		return r.reuseSaved(ctx, in)
	}

	if !in.Fields.Complete() {
		return "", ErrIncomplete
	}

	if in.CustomerID != "" {
		// Look for an exact field match before inserting a duplicate.
		if existing, err := r.Repo.FindExact(ctx, in.TenantID, in.CustomerID, in.Fields); err == nil {
			return existing.ID, nil
		} else if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}

	a := &Address{
		ID:           uuid.NewString(),
		TenantID:     in.TenantID,
		CustomerID:   in.CustomerID,
		Street:       in.Fields.Street,
		Number:       in.Fields.Number,
		Neighborhood: in.Fields.Neighborhood,
		City:         in.Fields.City,
		State:        in.Fields.State,
		PostalCode:   in.Fields.PostalCode,
		Complement:   in.Fields.Complement,
	}
	if in.CustomerID == "" {
		// Guest addresses are tagged to the disposable session and never
		// deduplicated.
		a.GuestSessionID = in.GuestSessionID
	}
	if err := r.Repo.Create(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (r *Resolver) reuseSaved(ctx context.Context, in Input) (string, error) {
	a, err := r.Repo.GetByID(ctx, in.SavedID)
	if err != nil {
		return "", err
	}
	// Backfill the customer link on an address saved while anonymous.
	if a.CustomerID == "" && in.CustomerID != "" {
		if err := r.Repo.AttachCustomer(ctx, a.ID, in.CustomerID); err != nil {
			return "", err
		}
	}
	return a.ID, nil
}
