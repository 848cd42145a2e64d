package enums

import "fmt"

// CartStatus tracks whether a cart is the owner's live cart or was superseded.
type CartStatus string

const (
	CartStatusActive   CartStatus = "active"
	CartStatusReplaced CartStatus = "replaced"
)

var validCartStatuses = []CartStatus{
	CartStatusActive,
	CartStatusReplaced,
}

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	for _, candidate := range validCartStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
