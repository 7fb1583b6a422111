package v4l1

import (
	"fmt"
	"math"
	"strconv"
)

// toUnsigned converts a setter argument to an unsigned value that fits in
// bits. Strings are parsed as base-10 integers.
func toUnsigned(v any, bits int) (uint64, error) {
	limit := uint64(1)<<bits - 1
	want := fmt.Sprintf("uint%d", bits)

	var n uint64
	switch x := v.(type) {
	case uint8:
		n = uint64(x)
	case uint16:
		n = uint64(x)
	case uint32:
		n = uint64(x)
	case uint64:
		n = x
	case uint:
		n = uint64(x)
	case int:
		if x < 0 {
			return 0, &TypeMismatchError{Want: want, Got: fmt.Sprintf("%d", x)}
		}
		n = uint64(x)
	case int32:
		if x < 0 {
			return 0, &TypeMismatchError{Want: want, Got: fmt.Sprintf("%d", x)}
		}
		n = uint64(x)
	case int64:
		if x < 0 {
			return 0, &TypeMismatchError{Want: want, Got: fmt.Sprintf("%d", x)}
		}
		n = uint64(x)
	case string:
		parsed, err := strconv.ParseUint(x, 10, bits)
		if err != nil {
			return 0, &TypeMismatchError{Want: want, Got: strconv.Quote(x)}
		}
		n = parsed
	default:
		return 0, &TypeMismatchError{Want: want, Got: fmt.Sprintf("%T", v)}
	}
	if n > limit {
		return 0, &TypeMismatchError{Want: want, Got: strconv.FormatUint(n, 10)}
	}
	return n, nil
}

// toInt32 converts a setter argument to an int32.
func toInt32(v any) (int32, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		return x, nil
	case int64:
		n = x
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case string:
		parsed, err := strconv.ParseInt(x, 10, 32)
		if err != nil {
			return 0, &TypeMismatchError{Want: "int32", Got: strconv.Quote(x)}
		}
		return int32(parsed), nil
	default:
		return 0, &TypeMismatchError{Want: "int32", Got: fmt.Sprintf("%T", v)}
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &TypeMismatchError{Want: "int32", Got: strconv.FormatInt(n, 10)}
	}
	return int32(n), nil
}
