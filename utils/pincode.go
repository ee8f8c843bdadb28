package utils

import (
	"strconv"
	"strings"
)

// ParsePincode returns the integer value of a pincode made only of ASCII
// digits. Anything else, including an empty string or a sign, is rejected.
func ParsePincode(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 12 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// WithinBand reports whether pincode lies in [center-radius, center+radius].
// Pincodes are compared as integers, a rough stand-in for distance.
func WithinBand(pincode string, center, radius int) bool {
	p, ok := ParsePincode(pincode)
	if !ok || radius < 0 {
		return false
	}
	d := p - center
	if d < 0 {
		d = -d
	}
	return d <= radius
}
