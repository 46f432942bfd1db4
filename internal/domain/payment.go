package domain

// PaymentStatus is the status enumeration returned by the BR-DGE API.
// Values outside this set are treated as unrecognized, never as terminal.
type PaymentStatus string

const (
	StatusCompleted      PaymentStatus = "COMPLETED"
	StatusCaptured       PaymentStatus = "CAPTURED"
	StatusPending        PaymentStatus = "PENDING"
	StatusAuthorized     PaymentStatus = "AUTHORIZED"
	StatusRequiresAction PaymentStatus = "REQUIRES_ACTION"
)

// ActionTypeRedirect is the only action type the bridge can complete:
// the buyer's browser is sent to the action URL (3-D Secure etc.) and
// returns through the order-received page.
const ActionTypeRedirect = "redirect"

// InstrumentTypeToken is the instrument type for SDK payment tokens.
const InstrumentTypeToken = "paymentToken"

// Amount is a monetary value in integer minor units with an ISO currency
// code, as the processor's wire format requires.
type Amount struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency"`
}

// PaymentInstrument carries the opaque single-use token produced by the
// client-side SDK. Raw card data never reaches this service.
type PaymentInstrument struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Address is a billing or shipping address snapshot in the processor's
// camelCase wire shape.
type Address struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Customer is the buyer contact snapshot sent with a payment.
type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// PaymentMetadata ties a processor payment back to the originating order.
// It round-trips through the processor and returns on webhook events.
type PaymentMetadata struct {
	OrderID     OrderID `json:"order_id"`
	OrderKey    string  `json:"order_key,omitempty"`
	WooCommerce bool    `json:"woocommerce,omitempty"`
}

// PaymentRequest is the payload for POST /payments. Constructed fresh per
// submission and never persisted.
type PaymentRequest struct {
	Amount            Amount            `json:"amount"`
	PaymentInstrument PaymentInstrument `json:"paymentInstrument"`
	Reference         string            `json:"reference"`
	Description       string            `json:"description"`
	BillingAddress    Address           `json:"billingAddress"`
	ShippingAddress   Address           `json:"shippingAddress"`
	Customer          Customer          `json:"customer"`
	Metadata          PaymentMetadata   `json:"metadata"`
}

// PaymentAction describes the follow-up the processor requires before a
// payment can complete, e.g. a 3-D Secure redirect.
type PaymentAction struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Payment is the processor's view of a payment, returned synchronously
// from POST /payments and asynchronously inside webhook events.
type Payment struct {
	ID       string          `json:"id"`
	Status   PaymentStatus   `json:"status"`
	Action   *PaymentAction  `json:"action,omitempty"`
	Message  string          `json:"message,omitempty"`
	Metadata PaymentMetadata `json:"metadata"`
}

// RedirectAction returns the redirect action when present and usable.
func (p *Payment) RedirectAction() *PaymentAction {
	if p.Action != nil && p.Action.Type == ActionTypeRedirect && p.Action.URL != "" {
		return p.Action
	}
	return nil
}

// RefundRequest is the payload for POST /payments/{id}/refund.
type RefundRequest struct {
	Amount Amount `json:"amount"`
	Reason string `json:"reason"`
}

// Refund is the processor's response to a refund request.
type Refund struct {
	ID      string        `json:"id"`
	Status  PaymentStatus `json:"status"`
	Message string        `json:"message,omitempty"`
}
