package enums

import "fmt"

// PaymentMethod selects how a donation is paid for.
type PaymentMethod string

const (
	PaymentMethodStandard       PaymentMethod = "standard"
	PaymentMethodExternalWallet PaymentMethod = "external_wallet"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodStandard,
	PaymentMethodExternalWallet,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
