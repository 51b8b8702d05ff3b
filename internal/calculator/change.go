package calculator

import "errors"

// PercentChange returns (cur - prev) / prev * 100.
func PercentChange(prev, cur float64) (float64, error) {
	if prev <= 0 {
		return 0, errors.New("previous price must be positive")
	}
	return (cur - prev) / prev * 100, nil
}

// CumulativeReturn returns the return of value relative to first, in percent.
// A non-positive first value yields 0.
func CumulativeReturn(first, value float64) float64 {
	if first <= 0 {
		return 0
	}
	return (value - first) / first * 100
}
