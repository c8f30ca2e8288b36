// Package address finds or creates the delivery address for an order.
package address

import "time"

type Address struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	CustomerID     string    `json:"customer_id,omitempty"`
	GuestSessionID string    `json:"guest_session_id,omitempty"`
	Street         string    `json:"street"`
	Number         string    `json:"number"`
	Neighborhood   string    `json:"neighborhood"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	PostalCode     string    `json:"postal_code"`
	Complement     string    `json:"complement,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Fields is the typed-in address, before it is attached to anyone.
type Fields struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Complement   string `json:"complement,omitempty"`
}

// Complete reports whether the mandatory delivery fields are present.
func (f Fields) Complete() bool {
	return f.Street != "" && f.Number != "" && f.Neighborhood != "" && f.City != "" && f.State != ""
}
