package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testOrderFixture() *Order {
	return &Order{
		ID:       42,
		Number:   "42",
		Key:      "wc_order_abc",
		Status:   OrderPending,
		Total:    decimal.RequireFromString("49.99"),
		Currency: "GBP",
		Billing: OrderAddress{
			FirstName: "Jane",
			LastName:  "Doe",
			Line1:     "1 High St",
			City:      "London",
			PostCode:  "N1 1AA",
			Country:   "GB",
			Email:     "jane@example.com",
			Phone:     "07700900000",
		},
	}
}

func TestOrderStatusIsPaid(t *testing.T) {
	assert.True(t, OrderProcessing.IsPaid())
	assert.True(t, OrderCompleted.IsPaid())
	assert.False(t, OrderPending.IsPaid())
	assert.False(t, OrderOnHold.IsPaid())
	assert.False(t, OrderFailed.IsPaid())
}

func TestShippingAddress_FallsBackToBilling(t *testing.T) {
	order := testOrderFixture()

	// Digital order: no shipping needed at all.
	order.NeedsShipping = false
	order.Shipping = OrderAddress{FirstName: "Warehouse"}
	assert.Equal(t, "Jane", order.ShippingAddress().FirstName)

	// Physical order with empty shipping: billing wins.
	order.NeedsShipping = true
	order.Shipping = OrderAddress{}
	assert.Equal(t, "Jane", order.ShippingAddress().FirstName)

	// Partial shipping: per-field fallback.
	order.Shipping = OrderAddress{
		FirstName: "John",
		Line1:     "2 Low St",
	}
	addr := order.ShippingAddress()
	assert.Equal(t, "John", addr.FirstName)
	assert.Equal(t, "Doe", addr.LastName)
	assert.Equal(t, "2 Low St", addr.Line1)
	assert.Equal(t, "London", addr.City)
}

func TestOrderAmount(t *testing.T) {
	order := testOrderFixture()
	amount := order.Amount()
	assert.Equal(t, int64(4999), amount.Value)
	assert.Equal(t, "GBP", amount.Currency)
}

func TestCustomerInfo(t *testing.T) {
	order := testOrderFixture()
	customer := order.CustomerInfo()
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.Equal(t, "Jane", customer.FirstName)
	assert.Equal(t, "07700900000", customer.Phone)
}

func TestPaymentID(t *testing.T) {
	order := testOrderFixture()
	assert.Empty(t, order.PaymentID())

	order.Metadata = map[string]string{MetaPaymentID: "pay_123"}
	assert.Equal(t, "pay_123", order.PaymentID())
}
