package woocommerce

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/serioussystems/brdge-bridge/internal/domain"
)

// wire types for the WooCommerce REST API v3 (/wp-json/wc/v3)

type wooAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type wooMetaData struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type wooOrder struct {
	ID            int64         `json:"id"`
	Number        string        `json:"number"`
	OrderKey      string        `json:"order_key"`
	Status        string        `json:"status"`
	Total         string        `json:"total"`
	Currency      string        `json:"currency"`
	Billing       wooAddress    `json:"billing"`
	Shipping      wooAddress    `json:"shipping"`
	ShippingLines []interface{} `json:"shipping_lines"`
	MetaData      []wooMetaData `json:"meta_data"`
}

// orderUpdate is the PUT body for order mutations. Only set fields are
// serialized.
type orderUpdate struct {
	Status        string        `json:"status,omitempty"`
	SetPaid       bool          `json:"set_paid,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	MetaData      []metaKV      `json:"meta_data,omitempty"`
}

type metaKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type orderNote struct {
	Note string `json:"note"`
}

type wooError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toDomain converts a wire order to the domain snapshot.
func (o *wooOrder) toDomain() (*domain.Order, error) {
	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid order total %q: %w", o.Total, err)
	}

	meta := make(map[string]string, len(o.MetaData))
	for _, m := range o.MetaData {
		// Meta values can be any JSON; only string values matter to the
		// bridge, everything else is kept verbatim for round-tripping.
		var s string
		if err := json.Unmarshal(m.Value, &s); err != nil {
			s = string(m.Value)
		}
		meta[m.Key] = s
	}

	return &domain.Order{
		ID:            domain.OrderID(o.ID),
		Number:        o.Number,
		Key:           o.OrderKey,
		Status:        domain.OrderStatus(o.Status),
		Total:         total,
		Currency:      o.Currency,
		Billing:       toOrderAddress(o.Billing),
		Shipping:      toOrderAddress(o.Shipping),
		NeedsShipping: len(o.ShippingLines) > 0,
		Metadata:      meta,
	}, nil
}

func toOrderAddress(a wooAddress) domain.OrderAddress {
	return domain.OrderAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Line1:     a.Address1,
		Line2:     a.Address2,
		City:      a.City,
		State:     a.State,
		PostCode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}
