// Package payments decides which payment path a booking takes. Gateway
// checkout and settlement callbacks live outside this service; only the
// decision (initial appointment state, credit consumption, checkout
// required) is made here.
package payments

import (
	"errors"
	"strings"

	"github.com/agendly/booking-platform/internal/tenants"
)

// Method enumerates how a client pays for an appointment.
type Method string

const (
	MethodAtLocation Method = "at_location"
	MethodOnline     Method = "online"
	MethodPlanCredit Method = "plan_credit"
)

var (
	// ErrUnknownMethod is returned for a payment method outside the enum.
	ErrUnknownMethod = errors.New("payments: unknown payment method")

	// ErrGatewayNotConfigured is returned when an online booking names a
	// gateway the tenant has not enabled.
	ErrGatewayNotConfigured = errors.New("payments: gateway not configured for tenant")
)

// ParseMethod normalizes a wire-format method string.
func ParseMethod(v string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(v))) {
	case MethodAtLocation:
		return MethodAtLocation, nil
	case MethodOnline:
		return MethodOnline, nil
	case MethodPlanCredit:
		return MethodPlanCredit, nil
	default:
		return "", ErrUnknownMethod
	}
}

// Decision captures the path a booking takes through payment.
type Decision struct {
	// ConfirmImmediately is true when no payment gate applies and the
	// appointment starts out confirmed.
	ConfirmImmediately bool
	// ConsumeCredit is true when one plan credit must be decremented
	// atomically with the appointment insert.
	ConsumeCredit bool
	// RequiresCheckout is true when the caller must initiate gateway
	// checkout with the returned appointment id.
	RequiresCheckout bool
	// Gateway is the validated gateway tag for online bookings.
	Gateway string
}

// Decide resolves the payment path for a booking request.
func Decide(method Method, gateway string, cfg *tenants.Config) (Decision, error) {
	switch method {
	case MethodPlanCredit:
		return Decision{ConfirmImmediately: true, ConsumeCredit: true}, nil
	case MethodOnline:
		gateway = strings.ToLower(strings.TrimSpace(gateway))
		if gateway == "" || !cfg.GatewayEnabled(gateway) {
			return Decision{}, ErrGatewayNotConfigured
		}
		return Decision{RequiresCheckout: true, Gateway: gateway}, nil
	case MethodAtLocation:
		return Decision{ConfirmImmediately: true}, nil
	default:
		return Decision{}, ErrUnknownMethod
	}
}
