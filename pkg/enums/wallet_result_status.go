package enums

import "fmt"

// WalletResultStatus is the final status the external wallet reports for a
// payment command.
type WalletResultStatus string

const (
	WalletResultSuccess   WalletResultStatus = "success"
	WalletResultFailed    WalletResultStatus = "failed"
	WalletResultCancelled WalletResultStatus = "cancelled"
)

var validWalletResultStatuses = []WalletResultStatus{
	WalletResultSuccess,
	WalletResultFailed,
	WalletResultCancelled,
}

// String implements fmt.Stringer.
func (w WalletResultStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WalletResultStatus.
func (w WalletResultStatus) IsValid() bool {
	for _, candidate := range validWalletResultStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWalletResultStatus converts raw input into a WalletResultStatus.
func ParseWalletResultStatus(value string) (WalletResultStatus, error) {
	for _, candidate := range validWalletResultStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet result status %q", value)
}
