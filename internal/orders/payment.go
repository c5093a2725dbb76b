package orders

import (
	"errors"
	"strings"
)

// Payment methods the storefront accepts. Card details are validated but
// never stored; "cod" needs no details at all.
const (
	MethodCard           = "card"
	MethodCashOnDelivery = "cod"
)

var (
	ErrMissingCardDetails = errors.New("card number, expiry, cvv and name are required")
	ErrInvalidCardNumber  = errors.New("card number must have at least 13 digits")
	ErrInvalidCVV         = errors.New("cvv must have at least 3 digits")
	ErrInvalidExpiry      = errors.New("expiry must be MM/YY")
	ErrUnknownMethod      = errors.New("unknown payment method")
)

// Card carries the details of a mock card payment.
type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

// Validate applies the storefront's card rules: all fields present, at least
// 13 digits of card number, at least 3 of cvv, expiry exactly MM/YY.
func (c Card) Validate() error {
	if c.Number == "" || c.Expiry == "" || c.CVV == "" || c.Name == "" {
		return ErrMissingCardDetails
	}
	if len(digitsOnly(c.Number)) < 13 {
		return ErrInvalidCardNumber
	}
	if len(digitsOnly(c.CVV)) < 3 {
		return ErrInvalidCVV
	}
	if len(c.Expiry) != 5 || !strings.Contains(c.Expiry, "/") {
		return ErrInvalidExpiry
	}
	return nil
}

// FormatCardNumber renders up to 16 digits in space-separated groups of
// four, the way the payment form displays them.
func FormatCardNumber(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var parts []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry renders up to four digits as MM/YY.
func FormatExpiry(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
