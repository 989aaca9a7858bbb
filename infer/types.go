// Package infer decides how raw document values map onto relational columns:
// the tightest SQL-compatible scalar type for a value, and whether a nested
// composite is simple enough to flatten or should become a child table.
package infer

import (
	"math"
	"strconv"
	"strings"

	"github.com/relatable/relatable/document"
)

// ScalarType is one tier of the inference hierarchy, ordered tightest first.
type ScalarType int

const (
	TypeInteger ScalarType = iota
	TypeFloat
	TypeText
)

var hierarchy = [...]ScalarType{TypeInteger, TypeFloat, TypeText}

func (t ScalarType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	}
	panic("should be unreachable")
}

// MarshalText lets ScalarType serve as a JSON map key in histograms.
func (t ScalarType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// SQL is the column type a renderer would emit for this scalar type.
func (t ScalarType) SQL() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "REAL"
	case TypeText:
		return "TEXT"
	}
	panic("should be unreachable")
}

var sqlTypes = map[document.Kind]string{
	document.KindBool:   "BOOLEAN",
	document.KindInt:    "INTEGER",
	document.KindFloat:  "REAL",
	document.KindString: "TEXT",
	document.KindID:     "TEXT",
}

// SQLType reports whether a value kind is directly representable as a SQL
// column without inference, and the column type if so. Composites are not in
// the set; they go through the complexity classifier instead.
func SQLType(k document.Kind) (string, bool) {
	s, ok := sqlTypes[k]
	return s, ok
}

// TypeOf walks the hierarchy and returns the first tier the value is a member
// of or coerces into. Text never fails, so the function is total; composites
// that slip in via one-level flattening land on the text fallback as well.
//
// Booleans are members of the integer tier. That is a deliberate artifact of
// the hierarchy ordering kept for compatibility with existing schemas.
func TypeOf(v document.Value) ScalarType {
	for _, t := range hierarchy {
		if member(v, t) || coerces(v, t) {
			return t
		}
	}
	return TypeText
}

func member(v document.Value, t ScalarType) bool {
	switch t {
	case TypeInteger:
		return v.Kind() == document.KindInt || v.Kind() == document.KindBool
	case TypeFloat:
		return v.Kind() == document.KindFloat
	case TypeText:
		return v.Kind() == document.KindString || v.Kind() == document.KindID
	}
	return false
}

func coerces(v document.Value, t ScalarType) bool {
	switch t {
	case TypeInteger:
		if v.Kind() == document.KindFloat {
			// only lossless coercion counts; 4.0 is an integer, 4.2 is not
			f := v.Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
		}
		if v.Kind() == document.KindString {
			_, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
			return err == nil
		}
		return false
	case TypeFloat:
		if v.Kind() == document.KindString {
			_, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
			return err == nil
		}
		return false
	case TypeText:
		return true
	}
	return false
}
