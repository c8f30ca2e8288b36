package checkout

import (
	"github.com/pratodigital/checkout/internal/address"
	"github.com/pratodigital/checkout/internal/cart"
	"github.com/pratodigital/checkout/internal/payment"
)

// CustomerInput is the identity triple typed at checkout.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DeliveryInput describes where the order goes: a table session for
// on-premises orders, otherwise a saved or freshly typed delivery address.
type DeliveryInput struct {
	TableOrder     bool           `json:"table_order,omitempty"`
	TableSessionID string         `json:"table_session_id,omitempty"`
	TableNumber    int            `json:"table_number,omitempty"`
	SavedAddressID string         `json:"saved_address_id,omitempty"`
	EditingSaved   bool           `json:"editing_saved,omitempty"`
	Address        address.Fields `json:"address,omitempty"`
}

// Request is one checkout attempt. For online payment methods the resolved
// order built from it is frozen into the payment session; the request itself
// is not replayed on confirmation.
type Request struct {
	TenantID       string        `json:"tenant_id"`
	SessionID      string        `json:"session_id"`
	Channel        string        `json:"channel,omitempty"`
	Method         string        `json:"method"`
	Cart           cart.Snapshot `json:"cart"`
	Customer       CustomerInput `json:"customer"`
	Delivery       DeliveryInput `json:"delivery"`
	CouponCode     string        `json:"coupon_code,omitempty"`
	ReferralCode   string        `json:"referral_code,omitempty"`
	UseStoreCredit bool          `json:"use_store_credit,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	NeedsChange    bool          `json:"needs_change,omitempty"`
	ChangeFor      string        `json:"change_for,omitempty"`
}

// Result is the pipeline outcome: a committed order, or a suspension on a
// payment session waiting for external confirmation.
type Result struct {
	OrderID   string           `json:"order_id,omitempty"`
	Total     string           `json:"total,omitempty"`
	Suspended bool             `json:"suspended,omitempty"`
	Session   *payment.Session `json:"session,omitempty"`
}
