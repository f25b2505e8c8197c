package enums

import "fmt"

// CheckoutStep names one stage of the checkout wizard.
type CheckoutStep string

const (
	CheckoutStepCart         CheckoutStep = "cart"
	CheckoutStepShipping     CheckoutStep = "shipping"
	CheckoutStepPayment      CheckoutStep = "payment"
	CheckoutStepConfirmation CheckoutStep = "confirmation"
)

// CheckoutSteps is the fixed wizard order.
var CheckoutSteps = []CheckoutStep{
	CheckoutStepCart,
	CheckoutStepShipping,
	CheckoutStepPayment,
	CheckoutStepConfirmation,
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	return s.Ordinal() >= 0
}

// Ordinal returns the zero-based position in the wizard, or -1.
func (s CheckoutStep) Ordinal() int {
	for i, candidate := range CheckoutSteps {
		if candidate == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the step has no forward transition.
func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepConfirmation
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range CheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
