// Package timecodec converts wall-clock "HH:MM" strings to minutes since
// midnight and back. Both schedule slots and search instants go through
// ToMinutes so every comparison happens in the same unit.
package timecodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is returned when a value cannot be split into an hour and a minute.
var ErrFormat = errors.New("time must be formatted as HH:MM")

// ToMinutes returns HH*60+MM for a 24-hour "HH:MM" string. Ranges are not
// validated; callers decide what an acceptable minute-of-day is.
func ToMinutes(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, value)
	}
	return hours*60 + minutes, nil
}

// FromMinutes renders minutes since midnight as "HH:MM".
func FromMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
