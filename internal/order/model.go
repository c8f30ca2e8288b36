package order

import "time"

// Order is the committed order header. Monetary fields hold NUMERIC values as
// strings; all arithmetic happens in the checkout pipeline before commit.
type Order struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	CustomerID     string    `json:"customer_id,omitempty"`
	AddressID      string    `json:"address_id,omitempty"`
	TableSessionID string    `json:"table_session_id,omitempty"`
	TableNumber    int       `json:"table_number,omitempty"`
	PaymentMethod  string    `json:"payment_method"`
	Channel        string    `json:"channel"`
	Status         string    `json:"status"`
	Subtotal       string    `json:"subtotal"`
	Discount       string    `json:"discount"`
	DiscountKind   string    `json:"discount_kind,omitempty"`
	DeliveryFee    string    `json:"delivery_fee"`
	Total          string    `json:"total"`
	Notes          string    `json:"notes,omitempty"`
	NeedsChange    bool      `json:"needs_change,omitempty"`
	ChangeFor      string    `json:"change_for,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Item is a line frozen at commit time: name and prices are copied from the
// cart snapshot so later catalog edits cannot alter a historical order.
type Item struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Total        string `json:"total"`
	Notes        string `json:"notes,omitempty"`
	RequiresPrep bool   `json:"requires_prep"`
}

const StatusPending = "pending"
