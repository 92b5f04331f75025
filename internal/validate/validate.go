package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reCode  = regexp.MustCompile(`^[A-Z0-9_-]{2,32}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID parses a positive integer entity id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n > 0
}

// Qty parses a positive item quantity.
func Qty(n int) bool { return n > 0 }

// PromoCode validates an uppercase promotion code.
func PromoCode(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return s, reCode.MatchString(s)
}

func Tier(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "standard", "bronze", "silver", "gold", "suspended":
		return s, true
	}
	return "", false
}

func ShippingMethod(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "standard", true
	}
	switch s {
	case "standard", "express", "overnight":
		return s, true
	}
	return "", false
}

func Segment(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "all", "gold", "silver", "bronze", "inactive":
		return s, true
	}
	return "", false
}

// Percent validates a manual discount percentage (0-100, exclusive of 0).
func Percent(v float64) bool { return v > 0 && v <= 100 }

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}
