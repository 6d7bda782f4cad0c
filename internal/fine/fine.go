// Package fine converts fine amounts read from the reference table into integers.
//
// The reference table mixes representations: real integers, comma-grouped digit
// strings ("1,200"), a dash placeholder for "not recorded" and empty cells.
package fine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type kind uint8

const (
	kindInt kind = iota
	kindText
)

// Value is a raw fine cell: either an integer or a text value.
type Value struct {
	kind kind
	i    int64
	s    string
}

// Int wraps a value that is already an integer.
func Int(v int64) Value { return Value{kind: kindInt, i: v} }

// Text wraps a textual cell.
func Text(s string) Value { return Value{kind: kindText, s: s} }

// IsInt reports whether v holds an integer.
func (v Value) IsInt() bool { return v.kind == kindInt }

func (v Value) String() string {
	if v.kind == kindInt {
		return strconv.FormatInt(v.i, 10)
	}
	return v.s
}

// ParseError reports a fine cell that matches none of the recognised forms.
type ParseError struct {
	Index int // position in the input sequence, -1 for a single value
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("fine #%d: cannot parse %q as an amount", e.Index, e.Raw)
	}
	return fmt.Sprintf("fine: cannot parse %q as an amount", e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Normalize converts a single cell. Rules, first match wins:
// integer as is, commas stripped, every "-" read as "0", empty as zero,
// then a plain integer literal.
func Normalize(v Value) (int64, error) {
	if v.kind == kindInt {
		return v.i, nil
	}
	s := strings.TrimSpace(v.s)
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, "-"):
		s = strings.ReplaceAll(s, "-", "0")
	case s == "":
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Index: -1, Raw: v.s, Err: err}
	}
	return n, nil
}

// NormalizeAll converts every cell, preserving length and order. The first
// unparseable cell aborts with a *ParseError carrying its index.
func NormalizeAll(vs []Value) ([]int64, error) {
	out := make([]int64, len(vs))
	for i, v := range vs {
		n, err := Normalize(v)
		if err != nil {
			pe := err.(*ParseError)
			pe.Index = i
			return nil, pe
		}
		out[i] = n
	}
	return out, nil
}

// FromCell maps a store cell onto a Value. Missing cells count as zero.
func FromCell(c any) Value {
	switch x := c.(type) {
	case nil:
		return Int(0)
	case int:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return Int(int64(x))
		}
		return Text(strconv.FormatFloat(x, 'f', -1, 64))
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	default:
		return Text(fmt.Sprint(x))
	}
}
