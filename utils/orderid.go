package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// OrderIDPrefix precedes the 7-digit sequence number in every order ID,
// e.g. GBG0000001.
const OrderIDPrefix = "GBG"

const orderIDDigits = 7

// FormatOrderID renders a sequence number as an order ID. Sequences beyond
// 9,999,999 widen past seven digits; that ceiling is a documented limit of
// the scheme, not something this function guards.
func FormatOrderID(seq int64) string {
	return fmt.Sprintf("%s%0*d", OrderIDPrefix, orderIDDigits, seq)
}

// ParseOrderID extracts the sequence number from an order ID.
func ParseOrderID(orderID string) (int64, error) {
	digits, found := strings.CutPrefix(orderID, OrderIDPrefix)
	if !found {
		return 0, fmt.Errorf("order ID %q missing %s prefix", orderID, OrderIDPrefix)
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("order ID %q has non-numeric sequence", orderID)
	}
	return seq, nil
}

// NextOrderID returns the ID following lastOrderID, or the first ID of the
// scheme when lastOrderID is empty.
func NextOrderID(lastOrderID string) (string, error) {
	if lastOrderID == "" {
		return FormatOrderID(1), nil
	}
	seq, err := ParseOrderID(lastOrderID)
	if err != nil {
		return "", err
	}
	return FormatOrderID(seq + 1), nil
}
