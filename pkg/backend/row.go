package backend

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Row is one table row keyed by column name.
//
// Stores normalise column values before handing rows out: identifiers are
// uuid.UUID, numerics float64, integers int64 and timestamps time.Time.
type Row map[string]any

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// UUID reads column col as a uuid.UUID.
func (r Row) UUID(col string) (uuid.UUID, error) {
	switch v := r[col].(type) {
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("column %s: %w", col, err)
		}
		return id, nil
	case nil:
		return uuid.Nil, fmt.Errorf("column %s: missing", col)
	default:
		return uuid.Nil, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// String reads column col as a string. NULL reads as "".
func (r Row) String(col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

// OptString reads a nullable text column.
func (r Row) OptString(col string) *string {
	s, ok := r[col].(string)
	if !ok {
		return nil
	}
	return &s
}

// Bool reads column col as a bool. NULL reads as false.
func (r Row) Bool(col string) bool {
	b, _ := r[col].(bool)
	return b
}

// Float reads a numeric column.
func (r Row) Float(col string) (float64, error) {
	switch v := r[col].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// Int reads an integer column.
func (r Row) Int(col string) (int, error) {
	switch v := r[col].(type) {
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("column %s: non-integer value %v", col, v)
		}
		return int(v), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// OptTime reads a nullable timestamp column.
func (r Row) OptTime(col string) *time.Time {
	switch v := r[col].(type) {
	case time.Time:
		t := v.UTC()
		return &t
	case *time.Time:
		if v == nil {
			return nil
		}
		t := v.UTC()
		return &t
	default:
		return nil
	}
}

// normalizeValue converts driver-level values into the types Row accessors expect.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case [16]byte:
		return uuid.UUID(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC()
	case time.Time:
		return x.UTC()
	default:
		return v
	}
}
