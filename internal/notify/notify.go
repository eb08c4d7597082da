// Package notify sends SMS notifications to requesters. Delivery failures
// are reported to the caller but are never allowed to fail the operation
// that triggered them.
package notify

import (
	"context"
	"fmt"
	"strings"
)

// Notifier delivers a text message to a phone number.
type Notifier interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

// NormalizePhone converts a local number into international form by
// prefixing the country code when no "+" prefix is present. The normalized
// number must be exactly 13 characters (e.g. "+919876543210").
func NormalizePhone(phoneNumber, countryCode string) (string, error) {
	formatted := phoneNumber
	if !strings.HasPrefix(formatted, "+") {
		formatted = countryCode + formatted
	}
	if len(formatted) != 13 {
		return "", fmt.Errorf("invalid phone number length: %q", formatted)
	}
	return formatted, nil
}
