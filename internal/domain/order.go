package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Order metadata keys persisted on the WooCommerce order.
const (
	MetaPaymentID     = "_brdge_payment_id"
	MetaPaymentAction = "_brdge_payment_action"
)

// OrderStatus mirrors the WooCommerce order status slugs the bridge
// reads and writes. The full WooCommerce set is larger; anything not
// listed here passes through untouched.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderOnHold     OrderStatus = "on-hold"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderFailed     OrderStatus = "failed"
	OrderRefunded   OrderStatus = "refunded"
)

// IsPaid reports whether the order already reflects a captured payment.
// Both the synchronous response path and the webhook path guard on this
// before attempting the terminal paid transition.
func (s OrderStatus) IsPaid() bool {
	return s == OrderProcessing || s == OrderCompleted
}

// OrderID is a WooCommerce order identifier. Webhook metadata encodes it
// as either a JSON number or a string depending on the serializer, so it
// unmarshals from both.
type OrderID int64

func (id OrderID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts both 42 and "42".
func (id *OrderID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = OrderID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("order id is neither number nor string: %s", data)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", s, err)
	}
	*id = OrderID(n)
	return nil
}

// OrderAddress is the store-side address shape before conversion to the
// processor's wire format.
type OrderAddress struct {
	FirstName string
	LastName  string
	Line1     string
	Line2     string
	City      string
	State     string
	PostCode  string
	Country   string
	Email     string
	Phone     string
}

// IsEmpty reports whether no address fields are populated.
func (a OrderAddress) IsEmpty() bool {
	return a == OrderAddress{}
}

// Order is a local snapshot of a WooCommerce order. The store owns the
// order; the bridge mutates it only through the OrderStore port.
type Order struct {
	ID            OrderID
	Number        string
	Key           string
	Status        OrderStatus
	Total         decimal.Decimal
	Currency      string
	Billing       OrderAddress
	Shipping      OrderAddress
	NeedsShipping bool
	Metadata      map[string]string
}

// PaymentID returns the stored processor payment id, if any.
func (o *Order) PaymentID() string {
	return o.Metadata[MetaPaymentID]
}

// BillingAddress converts the billing snapshot to the processor shape.
func (o *Order) BillingAddress() Address {
	return wireAddress(o.Billing)
}

// ShippingAddress converts the shipping snapshot to the processor shape.
// When the order needs no shipping address the billing address is used;
// otherwise empty shipping fields fall back per-field to billing.
func (o *Order) ShippingAddress() Address {
	if !o.NeedsShipping || o.Shipping.IsEmpty() {
		return o.BillingAddress()
	}
	return Address{
		FirstName:  fallback(o.Shipping.FirstName, o.Billing.FirstName),
		LastName:   fallback(o.Shipping.LastName, o.Billing.LastName),
		Line1:      fallback(o.Shipping.Line1, o.Billing.Line1),
		Line2:      fallback(o.Shipping.Line2, o.Billing.Line2),
		City:       fallback(o.Shipping.City, o.Billing.City),
		State:      fallback(o.Shipping.State, o.Billing.State),
		PostalCode: fallback(o.Shipping.PostCode, o.Billing.PostCode),
		Country:    fallback(o.Shipping.Country, o.Billing.Country),
	}
}

// CustomerInfo returns the buyer contact snapshot from billing details.
func (o *Order) CustomerInfo() Customer {
	return Customer{
		Email:     o.Billing.Email,
		FirstName: o.Billing.FirstName,
		LastName:  o.Billing.LastName,
		Phone:     o.Billing.Phone,
	}
}

// Amount returns the order total in processor minor units.
func (o *Order) Amount() Amount {
	return Amount{
		Value:    MinorUnits(o.Total),
		Currency: o.Currency,
	}
}

func wireAddress(a OrderAddress) Address {
	return Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostCode,
		Country:    a.Country,
	}
}

func fallback(value, alt string) string {
	if value != "" {
		return value
	}
	return alt
}
