package enums

import "fmt"

// DonationStatus tracks a donation through its transaction lifecycle.
// Applied donations are immutable; rejected donations stay on record
// for the audit trail.
type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "pending"
	DonationStatusApplied  DonationStatus = "applied"
	DonationStatusRejected DonationStatus = "rejected"
)

var validDonationStatuses = []DonationStatus{
	DonationStatusPending,
	DonationStatusApplied,
	DonationStatusRejected,
}

// String implements fmt.Stringer.
func (s DonationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DonationStatus.
func (s DonationStatus) IsValid() bool {
	for _, candidate := range validDonationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDonationStatus converts the raw string to a DonationStatus.
func ParseDonationStatus(value string) (DonationStatus, error) {
	for _, candidate := range validDonationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation status %q", value)
}
