// Package payment branches a checkout by payment method: pay-on-fulfillment
// methods commit immediately, online methods open a gateway session first.
package payment

import (
	"errors"
	"fmt"
)

type Method string

const (
	MethodCash           Method = "cash"
	MethodCardOnDelivery Method = "card_on_delivery"
	MethodCounter        Method = "counter"
	MethodPix            Method = "pix"
	MethodOnlineCard     Method = "online_card"
)

var ErrUnknownMethod = errors.New("unknown payment method")

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodCardOnDelivery, MethodCounter, MethodPix, MethodOnlineCard:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// PayOnFulfillment reports whether the order is paid at delivery or at the
// counter, so no gateway session is needed.
func (m Method) PayOnFulfillment() bool {
	switch m {
	case MethodCash, MethodCardOnDelivery, MethodCounter:
		return true
	}
	return false
}

func (m Method) Online() bool { return m == MethodPix || m == MethodOnlineCard }

func (m Method) String() string { return string(m) }
