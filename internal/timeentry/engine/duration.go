// Package engine holds the duration math for time entries.
//
// Functions here are pure: no clock access, no storage, fully deterministic.
package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrMalformedTime = errors.New("malformed time of day")

// ComputeDuration returns the elapsed hours between two HH:MM times of day,
// rounded to 2 decimals. A negative difference means the entry crossed
// midnight and gets 24 hours added back.
func ComputeDuration(startTime, endTime string) (float64, error) {
	start, err := parseMinutes(startTime)
	if err != nil {
		return 0, err
	}
	end, err := parseMinutes(endTime)
	if err != nil {
		return 0, err
	}

	diff := end - start
	if diff < 0 {
		diff += 24 * 60
	}
	return Round2(float64(diff) / 60.0), nil
}

// Round2 rounds to 2 decimal places, the storage precision for hours.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseMinutes(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	return hours*60 + minutes, nil
}
