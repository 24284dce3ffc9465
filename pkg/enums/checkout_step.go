package enums

import "fmt"

// CheckoutStep is one stage of the order-placement flow. Steps are ordered;
// Confirmation is terminal.
type CheckoutStep string

const (
	StepReview       CheckoutStep = "review"
	StepShipping     CheckoutStep = "shipping"
	StepPayment      CheckoutStep = "payment"
	StepConfirmation CheckoutStep = "confirmation"
)

var orderedSteps = []CheckoutStep{
	StepReview,
	StepShipping,
	StepPayment,
	StepConfirmation,
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	for _, candidate := range orderedSteps {
		if candidate == s {
			return true
		}
	}
	return false
}

// Next returns the step that follows s, or an error when s is terminal.
func (s CheckoutStep) Next() (CheckoutStep, error) {
	for i, candidate := range orderedSteps {
		if candidate == s {
			if i == len(orderedSteps)-1 {
				return "", fmt.Errorf("checkout step %q is terminal", s)
			}
			return orderedSteps[i+1], nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", s)
}

// Prev returns the step before s. Review has no predecessor and Confirmation
// does not allow going back.
func (s CheckoutStep) Prev() (CheckoutStep, error) {
	if s == StepConfirmation {
		return "", fmt.Errorf("cannot go back from %q", s)
	}
	for i, candidate := range orderedSteps {
		if candidate == s {
			if i == 0 {
				return "", fmt.Errorf("checkout step %q has no predecessor", s)
			}
			return orderedSteps[i-1], nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", s)
}
