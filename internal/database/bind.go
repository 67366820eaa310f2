package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/koustreak/LiteRi/internal/errs"
)

// BindKind is the storage class a value binds as.
type BindKind int

const (
	BindNull BindKind = iota
	BindInt
	BindReal
	BindText
	BindBlob
)

func (k BindKind) String() string {
	switch k {
	case BindInt:
		return "integer"
	case BindReal:
		return "real"
	case BindText:
		return "text"
	case BindBlob:
		return "blob"
	default:
		return "null"
	}
}

// BindValue is a value resolved to its storage class exactly once.
// Arg yields the driver-ready form.
type BindValue struct {
	Kind  BindKind
	value any
}

// Arg returns the value to hand the driver.
func (b BindValue) Arg() any {
	return b.value
}

// ResolveBind picks the storage class for v. The value's own runtime
// type decides first; only a string value consults declaredType: when
// the declared column type contains "INT" (any case) and the string
// parses as an integer, it binds numerically instead of as text.
// Unsigned values above the signed 64-bit range cannot be stored
// without changing sign and are rejected.
func ResolveBind(v any, declaredType string) (BindValue, error) {
	switch x := v.(type) {
	case nil:
		return BindValue{Kind: BindNull}, nil
	case bool:
		var n int64
		if x {
			n = 1
		}
		return BindValue{Kind: BindInt, value: n}, nil
	case int:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case int8:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case int16:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case int32:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case int64:
		return BindValue{Kind: BindInt, value: x}, nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return BindValue{}, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("unsigned value %d overflows the integer storage class", x))
		}
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case uint8:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case uint16:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case uint32:
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case uint64:
		if x > math.MaxInt64 {
			return BindValue{}, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("unsigned value %d overflows the integer storage class", x))
		}
		return BindValue{Kind: BindInt, value: int64(x)}, nil
	case float32:
		return BindValue{Kind: BindReal, value: float64(x)}, nil
	case float64:
		return BindValue{Kind: BindReal, value: x}, nil
	case []byte:
		return BindValue{Kind: BindBlob, value: x}, nil
	case time.Time:
		return BindValue{Kind: BindText, value: x.Format(time.RFC3339)}, nil
	case string:
		if strings.Contains(strings.ToUpper(declaredType), "INT") {
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				return BindValue{Kind: BindInt, value: n}, nil
			}
		}
		return BindValue{Kind: BindText, value: x}, nil
	default:
		return BindValue{Kind: BindText, value: fmt.Sprintf("%v", x)}, nil
	}
}
