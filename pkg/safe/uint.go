// Package safe provides overflow-checked integer conversions.
package safe

import (
	"fmt"
	"math"
)

// Integer is the set of integer kinds the conversions accept.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint8 converts v to uint8, rejecting negatives and values above math.MaxUint8.
func Uint8[T Integer](v T) (uint8, error) {
	u, err := Uint64(v)
	if err != nil || u > math.MaxUint8 {
		return 0, fmt.Errorf("value %d out of uint8 range", v)
	}
	return uint8(u), nil
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}
