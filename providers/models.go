package providers

import "time"

// Balance is an account balance as reported by the vendor. Amount can be
// negative when the vendor reports an owed state.
type Balance struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DefaultCurrency is what the SMS-Activate-compatible vendors bill in
// unless stated otherwise.
const DefaultCurrency = "RUB"

// ServicePrice is the price/availability entry for one canonical service
// code within a country. Cost carries the full sorted price ladder when the
// vendor exposes one (free-price maps, per-upstream pricing); otherwise it
// holds a single element equal to MinPrice.
type ServicePrice struct {
	Service  string    `json:"service"`
	Cost     []float64 `json:"cost"`
	MinPrice float64   `json:"min_price"`
	MaxPrice float64   `json:"max_price"`
	Count    int       `json:"count"`
}

// PriceEntry groups service prices for one vendor country id. Service keys
// are canonical codes; vendor-specific codes are translated at the adapter
// boundary.
type PriceEntry struct {
	Country  int                     `json:"country"`
	Services map[string]ServicePrice `json:"services"`
}

// ActivationStatus is the closed set of normalized activation states.
// Vendor status vocabularies are mapped into it through explicit per-adapter
// lookup tables, never by matching free text at call sites.
type ActivationStatus string

const (
	// StatusPending: number rented, no code observed yet; keep polling
	StatusPending ActivationStatus = "pending"

	// StatusRetrySent: vendor accepted a resend request; keep polling
	StatusRetrySent ActivationStatus = "retry_sent"

	// StatusCompleted: a code was delivered; terminal (until reactivation)
	StatusCompleted ActivationStatus = "completed"

	// StatusCancelled: vendor- or caller-cancelled; terminal
	StatusCancelled ActivationStatus = "cancelled"

	// StatusTimedOut: vendor expired the activation; terminal (until reactivation)
	StatusTimedOut ActivationStatus = "timed_out"
)

// Terminal reports whether polling should stop on this status.
func (s ActivationStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusTimedOut:
		return true
	}
	return false
}

// Activation is one rented number tracked for an SMS-receiving session.
// The adapter never mutates it except through explicit status-changing calls.
type Activation struct {
	ActivationID string           `json:"activation_id" validate:"required"`
	PhoneNumber  string           `json:"phone_number" validate:"required"`
	Service      string           `json:"service"`
	Country      int              `json:"country"`
	Cost         float64          `json:"cost"`
	Status       ActivationStatus `json:"status"`
}

// SmsCode is a code observed by a poll call. Immutable once created; the
// ActivationID reference is lookup-only.
type SmsCode struct {
	ActivationID string    `json:"activation_id" validate:"required"`
	Code         string    `json:"code" validate:"required"`
	ReceivedAt   time.Time `json:"received_at"`
}
