package core

import (
	"strings"
)

// ParseDateInput converts an ISO style YYYY-MM-DD string into the DD/MM/YYYY
// display form by reordering its components. Input that does not split into
// exactly three non-empty parts is rejected with ErrInvalidDate.
func ParseDateInput(rawISODate string) (string, error) {
	parts := strings.Split(strings.TrimSpace(rawISODate), "-")
	if len(parts) != 3 {
		return "", ErrInvalidDate
	}
	for _, p := range parts {
		if p == "" {
			return "", ErrInvalidDate
		}
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0], nil
}
