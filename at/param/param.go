// Package param tokenises the comma separated parameter lists carried by AT
// command info lines (e.g. the payload of "+QIND: "csq",21,99") into typed
// values, following the classification rules of the parameter parser this
// driver replaces: the first character of a token, not a declared schema,
// selects its type.
package param

import (
	"strconv"
	"strings"
)

// Type identifies the kind of value a Value holds.
type Type int

const (
	// Unknown is returned for tokens that do not match any other type. The
	// original text is preserved in Value.Raw.
	Unknown Type = iota
	// Number is a signed decimal integer, e.g. "42" or "-1".
	Number
	// Float is a decimal number containing a '.', e.g. "3.14".
	Float
	// Hex is an unsigned value prefixed with "0x" or "0X".
	Hex
	// Binary is an unsigned value prefixed with "0b" or "0B".
	Binary
	// String is a double-quoted token, e.g. `"OK"`. Value.Str holds the
	// content with quotes removed.
	String
	// Boolean is "true" or "false".
	Boolean
	// State is "high" or "low", the idiom used for pin level values.
	State
	// StateKey is "on" or "off", the idiom used for feature toggle values.
	StateKey
	// Null is the literal "null".
	Null
)

// Value is a single tokenised parameter.
type Value struct {
	Type  Type
	Raw   string // original token text, always set
	Str   string // content of a String token, quotes removed
	Num   int64  // Number, Hex or Binary
	Flt   float64
	Bool  bool
	State bool // true == high/on
}

// Cursor tokenises a parameter line one value at a time, in order, matching
// the C driver's Param_Cursor/Param_next. Unlike the original it does not
// mutate the source string.
type Cursor struct {
	rest      string
	separator byte
	index     int
	done      bool
}

// NewCursor creates a Cursor over s, splitting on separator (typically ',').
func NewCursor(s string, separator byte) *Cursor {
	return &Cursor{rest: s, separator: separator}
}

// Next returns the next tokenised value, or false once the line is
// exhausted.
func (c *Cursor) Next() (Value, bool) {
	if c.done {
		return Value{}, false
	}
	s := strings.TrimLeft(c.rest, " \t")
	var tok string
	if idx := strings.IndexByte(s, c.separator); idx >= 0 {
		tok = s[:idx]
		c.rest = s[idx+1:]
	} else {
		tok = s
		c.done = true
	}
	tok = strings.TrimRight(tok, " \t")
	c.index++
	return classify(tok), true
}

// Index returns the 0-based position of the value last returned by Next.
func (c *Cursor) Index() int {
	return c.index - 1
}

// classify applies the C driver's first-character dispatch table.
func classify(tok string) Value {
	v := Value{Raw: tok, Type: Unknown}
	if tok == "" {
		return v
	}
	switch tok[0] {
	case '"':
		if len(tok) >= 2 && tok[len(tok)-1] == '"' {
			v.Type = String
			v.Str = tok[1 : len(tok)-1]
			return v
		}
	case '0':
		if len(tok) > 1 && (tok[1] == 'b' || tok[1] == 'B') {
			if n, err := strconv.ParseUint(tok[2:], 2, 64); err == nil {
				v.Type = Binary
				v.Num = int64(n)
				return v
			}
		}
		if len(tok) > 1 && (tok[1] == 'x' || tok[1] == 'X') {
			if n, err := strconv.ParseUint(tok[2:], 16, 64); err == nil {
				v.Type = Hex
				v.Num = int64(n)
				return v
			}
		}
		fallthrough
	case '1', '2', '3', '4', '5', '6', '7', '8', '9', '-':
		if strings.ContainsRune(tok, '.') {
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				v.Type = Float
				v.Flt = f
				return v
			}
		} else if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			v.Type = Number
			v.Num = n
			return v
		}
	case 't', 'T', 'f', 'F':
		switch strings.ToLower(tok) {
		case "true":
			v.Type = Boolean
			v.Bool = true
			return v
		case "false":
			v.Type = Boolean
			v.Bool = false
			return v
		}
	case 'h', 'H', 'l', 'L':
		switch strings.ToLower(tok) {
		case "high":
			v.Type = State
			v.State = true
			return v
		case "low":
			v.Type = State
			v.State = false
			return v
		}
	case 'o', 'O':
		switch strings.ToLower(tok) {
		case "on":
			v.Type = StateKey
			v.State = true
			return v
		case "off":
			v.Type = StateKey
			v.State = false
			return v
		}
	case 'n', 'N':
		if strings.ToLower(tok) == "null" {
			v.Type = Null
			return v
		}
	}
	return v
}

// Equal reports whether two values are of the same Type and hold the same
// content. Unknown and Null values always compare equal regardless of their
// raw text, matching the original parser's default comparison policy.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case Number, Hex, Binary:
		return v.Num == o.Num
	case Float:
		return v.Flt == o.Flt
	case String:
		return v.Str == o.Str
	case Boolean:
		return v.Bool == o.Bool
	case State, StateKey:
		return v.State == o.State
	default:
		return true
	}
}

// String renders the value back to its wire form.
func (v Value) String() string {
	switch v.Type {
	case Number:
		return strconv.FormatInt(v.Num, 10)
	case Hex:
		return "0x" + strconv.FormatInt(v.Num, 16)
	case Binary:
		return "0b" + strconv.FormatInt(v.Num, 2)
	case Float:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case String:
		return `"` + v.Str + `"`
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case State:
		if v.State {
			return "high"
		}
		return "low"
	case StateKey:
		if v.State {
			return "on"
		}
		return "off"
	case Null:
		return "null"
	default:
		return v.Raw
	}
}

// Parse tokenises all fields of s, returning them in order.
func Parse(s string, separator byte) []Value {
	c := NewCursor(s, separator)
	var out []Value
	for {
		v, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
