package checkout

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
)

// GuestInfo is the lead traveler captured on step one.
type GuestInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// PaymentInput is the raw payment form from step two. Only a summary is
// ever persisted; the number and code are used for validation and dropped.
type PaymentInput struct {
	CardholderName string `json:"cardholderName" validate:"required"`
	CardNumber     string `json:"cardNumber" validate:"required,min=12,max=19"`
	Expiry         string `json:"expiry" validate:"required"`
	SecurityCode   string `json:"securityCode" validate:"required,min=3,max=4"`
}

// PaymentSummary is the persisted, non-sensitive view of the payment form.
type PaymentSummary struct {
	CardholderName string `json:"cardholderName"`
	LastFour       string `json:"lastFour"`
	Expiry         string `json:"expiry"`
}

// State is a session's checkout wizard position and collected data.
type State struct {
	Step      enums.CheckoutStep `json:"step"`
	Guest     *GuestInfo         `json:"guest,omitempty"`
	Payment   *PaymentSummary    `json:"payment,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// NewState starts a wizard at the guest info step.
func NewState() State {
	return State{Step: enums.CheckoutStepGuestInfo}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateGuestInfo(info GuestInfo) error {
	trimmed := GuestInfo{
		FirstName: strings.TrimSpace(info.FirstName),
		LastName:  strings.TrimSpace(info.LastName),
		Email:     strings.TrimSpace(info.Email),
		Phone:     strings.TrimSpace(info.Phone),
	}
	if err := validate.Struct(trimmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "guest info is incomplete")
	}
	return nil
}

func validatePayment(input PaymentInput) error {
	trimmed := PaymentInput{
		CardholderName: strings.TrimSpace(input.CardholderName),
		CardNumber:     strings.ReplaceAll(strings.TrimSpace(input.CardNumber), " ", ""),
		Expiry:         strings.TrimSpace(input.Expiry),
		SecurityCode:   strings.TrimSpace(input.SecurityCode),
	}
	if err := validate.Struct(trimmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment details are incomplete")
	}
	return nil
}

func summarizePayment(input PaymentInput) PaymentSummary {
	number := strings.ReplaceAll(strings.TrimSpace(input.CardNumber), " ", "")
	lastFour := number
	if len(number) > 4 {
		lastFour = number[len(number)-4:]
	}
	return PaymentSummary{
		CardholderName: strings.TrimSpace(input.CardholderName),
		LastFour:       lastFour,
		Expiry:         strings.TrimSpace(input.Expiry),
	}
}
