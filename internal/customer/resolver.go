package customer

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// Input is the identity triple typed during checkout, plus the tenant and
// browser session the hint cache is keyed on.
type Input struct {
	TenantID  string
	SessionID string
	Name      string
	Email     string
	Phone     string
}

type Resolver struct {
	Repo  Repository
	Cache IdentityCache
}

func NewResolver(repo Repository, cache IdentityCache) *Resolver {
	return &Resolver{Repo: repo, Cache: cache}
}

// Resolve returns the canonical customer id for the typed identity, creating
// the record on first order. The empty id is returned only when no
// identifying field was supplied at all (guest table orders).
func (r *Resolver) Resolve(ctx context.Context, in Input) (string, error) {
	email := NormalizeEmail(in.Email)
	phone := NormalizePhone(in.Phone)
	if email == "" && phone == "" {
		return "", nil
	}

	if id := r.fromHint(ctx, in, email, phone); id != "" {
		return id, nil
	}

	c, err := r.lookup(ctx, in.TenantID, email, phone)
	switch {
	case err == nil:
		r.refreshDiverged(ctx, c, in.Name, email, phone)
	case errors.Is(err, ErrNotFound):
		c = &Customer{
			ID:       uuid.NewString(),
			TenantID: in.TenantID,
			Name:     in.Name,
			Email:    email,
			Phone:    phone,
		}
		if err := r.Repo.Create(ctx, c); err != nil {
			if !errors.Is(err, ErrAlreadyExist) {
				return "", err
			}
			// Lost the race against a concurrent checkout: adopt the winner.
			if c, err = r.lookup(ctx, in.TenantID, email, phone); err != nil {
				return "", err
			}
		}
	default:
		return "", err
	}

	r.remember(ctx, in, c.ID, email, phone)
	return c.ID, nil
}

// fromHint reuses the cached identity when its identifiers match the typed
// ones. A divergent hint is discarded: it belongs to a different person.
func (r *Resolver) fromHint(ctx context.Context, in Input, email, phone string) string {
	if r.Cache == nil || in.SessionID == "" {
		return ""
	}
	hint, err := r.Cache.Get(ctx, in.TenantID, in.SessionID)
	if err != nil || hint == nil || hint.CustomerID == "" {
		return ""
	}
	emailMatch := email == "" || NormalizeEmail(hint.Email) == email
	phoneMatch := phone == "" || NormalizePhone(hint.Phone) == phone
	if !emailMatch || !phoneMatch {
		if err := r.Cache.Delete(ctx, in.TenantID, in.SessionID); err != nil {
			log.Printf("[customer] hint cache delete failed: %v", err)
		}
		return ""
	}
	if in.Name != "" && in.Name != hint.Name {
		if err := r.Repo.Update(ctx, &Customer{ID: hint.CustomerID, Name: in.Name}); err != nil {
			log.Printf("[customer] name refresh failed for %s: %v", hint.CustomerID, err)
		}
		r.remember(ctx, in, hint.CustomerID, email, phone)
	}
	return hint.CustomerID
}

// lookup prefers email over phone when both identifiers are present.
func (r *Resolver) lookup(ctx context.Context, tenantID, email, phone string) (*Customer, error) {
	if email != "" {
		c, err := r.Repo.GetByEmail(ctx, tenantID, email)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrNotFound) || phone == "" {
			return nil, err
		}
	}
	return r.Repo.GetByPhone(ctx, tenantID, phone)
}

// refreshDiverged updates a returning customer whose typed details no longer
// match the stored record.
func (r *Resolver) refreshDiverged(ctx context.Context, c *Customer, name, email, phone string) {
	diverged := (name != "" && name != c.Name) ||
		(email != "" && email != c.Email) ||
		(phone != "" && phone != c.Phone)
	if !diverged {
		return
	}
	upd := &Customer{ID: c.ID, Name: name, Email: email, Phone: phone}
	if err := r.Repo.Update(ctx, upd); err != nil {
		log.Printf("[customer] profile refresh failed for %s: %v", c.ID, err)
	}
}

func (r *Resolver) remember(ctx context.Context, in Input, id, email, phone string) {
	if r.Cache == nil || in.SessionID == "" {
		return
	}
	ident := &Identity{CustomerID: id, Name: in.Name, Email: email, Phone: phone}
	if err := r.Cache.Set(ctx, in.TenantID, in.SessionID, ident); err != nil {
		log.Printf("[customer] hint cache set failed: %v", err)
	}
}
