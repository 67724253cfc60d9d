package enums

import "fmt"

// DonationStep identifies the wizard position for an in-progress donation.
type DonationStep string

const (
	DonationStepAmount     DonationStep = "amount"
	DonationStepConfirm    DonationStep = "confirm"
	DonationStepProcessing DonationStep = "processing"
	DonationStepSuccess    DonationStep = "success"
)

var validDonationSteps = []DonationStep{
	DonationStepAmount,
	DonationStepConfirm,
	DonationStepProcessing,
	DonationStepSuccess,
}

// String implements fmt.Stringer.
func (d DonationStep) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DonationStep.
func (d DonationStep) IsValid() bool {
	for _, candidate := range validDonationSteps {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDonationStep converts raw input into a DonationStep.
func ParseDonationStep(value string) (DonationStep, error) {
	for _, candidate := range validDonationSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation step %q", value)
}
