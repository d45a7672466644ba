package enums

import "fmt"

// CheckoutStep identifies a stop in the linear checkout wizard.
type CheckoutStep int

const (
	CheckoutStepGuestInfo CheckoutStep = 1
	CheckoutStepPayment   CheckoutStep = 2
	CheckoutStepReview    CheckoutStep = 3
)

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	return s >= CheckoutStepGuestInfo && s <= CheckoutStepReview
}

// Next returns the following step, capped at review.
func (s CheckoutStep) Next() CheckoutStep {
	if s >= CheckoutStepReview {
		return CheckoutStepReview
	}
	return s + 1
}

// Prev returns the preceding step, floored at guest info.
func (s CheckoutStep) Prev() CheckoutStep {
	if s <= CheckoutStepGuestInfo {
		return CheckoutStepGuestInfo
	}
	return s - 1
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value int) (CheckoutStep, error) {
	step := CheckoutStep(value)
	if !step.IsValid() {
		return 0, fmt.Errorf("invalid checkout step %d", value)
	}
	return step, nil
}
