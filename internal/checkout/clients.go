package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pratodigital/checkout/internal/cart"
)

// InventoryItem is the flattened shape the inventory validator checks.
type InventoryItem struct {
	ProductID    string   `json:"product_id"`
	Quantity     int      `json:"quantity"`
	Composite    bool     `json:"composite,omitempty"`
	ComponentIDs []string `json:"component_ids,omitempty"`
}

// FlattenForInventory maps cart lines into the validator's request shape.
func FlattenForInventory(s cart.Snapshot) []InventoryItem {
	items := make([]InventoryItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, InventoryItem{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			Composite:    l.Composite,
			ComponentIDs: l.ComponentIDs,
		})
	}
	return items
}

type InventoryValidator interface {
	ValidateInventory(ctx context.Context, tenantID string, items []InventoryItem) (ok bool, message string, err error)
}

// TicketComputer asks the loyalty service how many tickets an order earns.
// The local accrual rule is the fallback when the service is unreachable.
type TicketComputer interface {
	ComputeTickets(ctx context.Context, tenantID, subtotal string) (int, error)
}

// Ext holds the HTTP collaborators the pipeline consumes.
type Ext struct {
	HTTP             *http.Client
	InventoryBaseURL string
	LoyaltyBaseURL   string
}

func NewExt(inventoryBaseURL, loyaltyBaseURL string) *Ext {
	return &Ext{
		HTTP:             &http.Client{Timeout: 5 * time.Second},
		InventoryBaseURL: inventoryBaseURL,
		LoyaltyBaseURL:   loyaltyBaseURL,
	}
}

func (e *Ext) ValidateInventory(ctx context.Context, tenantID string, items []InventoryItem) (bool, string, error) {
	body, err := json.Marshal(map[string]any{"tenant_id": tenantID, "items": items})
	if err != nil {
		return false, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.InventoryBaseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.HTTP.Do(req)
	if err != nil {
		return false, "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("inventory validator: %s", res.Status)
	}

	var out struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, "", err
	}
	return out.OK, out.Message, nil
}

func (e *Ext) ComputeTickets(ctx context.Context, tenantID, subtotal string) (int, error) {
	body, err := json.Marshal(map[string]string{"tenant_id": tenantID, "subtotal": subtotal})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.LoyaltyBaseURL+"/tickets/compute", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("loyalty service: %s", res.Status)
	}

	var out struct {
		Tickets int `json:"tickets"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Tickets, nil
}
