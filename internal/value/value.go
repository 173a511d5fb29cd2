// Package value models loosely-typed frontmatter values as a closed variant and
// converts them to a canonical, comparable form usable as an aggregation key.
package value

import "strconv"

// Kind identifies the variant held by a Value or a Canonical.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	KindMapping
	// KindTuple only appears on canonical values.
	KindTuple
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Pair is one entry of a mapping value.
type Pair struct {
	Key   string
	Value Value
}

// Value is a frontmatter attribute value. The zero Value is null.
type Value struct {
	kind  Kind
	str   string
	num   float64
	exact string // decimal text of integer-typed numbers
	b     bool
	items []Value
	pairs []Pair
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a floating point numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns an integer numeric value holding i.
func Int(i int) Value { return Int64(int64(i)) }

// Int64 returns an integer numeric value. The integer is kept exactly even
// where float64 cannot represent it.
func Int64(i int64) Value {
	return Value{kind: KindNumber, num: float64(i), exact: strconv.FormatInt(i, 10)}
}

// Uint64 returns an integer numeric value holding u exactly.
func Uint64(u uint64) Value {
	return Value{kind: KindNumber, num: float64(u), exact: strconv.FormatUint(u, 10)}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Sequence returns an ordered list of values.
func Sequence(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindSequence, items: cp}
}

// Strings is shorthand for a sequence of string values.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return Value{kind: KindSequence, items: items}
}

// Mapping returns a mapping that keeps the order of first appearance of each key.
// A repeated key replaces the earlier value in place.
func Mapping(pairs ...Pair) Value {
	out := make([]Pair, 0, len(pairs))
	pos := make(map[string]int, len(pairs))
	for _, p := range pairs {
		if i, ok := pos[p.Key]; ok {
			out[i].Value = p.Value
			continue
		}
		pos[p.Key] = len(out)
		out = append(out, p)
	}
	return Value{kind: KindMapping, pairs: out}
}

// P builds a Pair.
func P(key string, v Value) Pair { return Pair{Key: key, Value: v} }

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric payload. Integers beyond 2^53 are rounded;
// Normalize and String use the exact value.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Items returns the elements of a sequence, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Pairs returns the entries of a mapping, or nil for any other kind.
func (v Value) Pairs() []Pair {
	if v.kind != KindMapping {
		return nil
	}
	return v.pairs
}

// Len returns the number of elements of a sequence or entries of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.pairs)
	default:
		return 0
	}
}

// Keys returns the mapping keys in order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, len(v.pairs))
	for i, p := range v.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Lookup returns the value stored under key in a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, p := range v.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether a mapping contains key.
func (v Value) Has(key string) bool {
	_, ok := v.Lookup(key)
	return ok
}

// IsEmpty reports whether v carries no information: null, the empty string,
// an empty sequence or an empty mapping.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindSequence:
		return len(v.items) == 0
	case KindMapping:
		return len(v.pairs) == 0
	default:
		return false
	}
}

// Equal reports structural equality. Mappings compare without regard to key
// order and numbers compare by value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.numberKey() == o.numberKey()
	case KindBool:
		return v.b == o.b
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.pairs) != len(o.pairs) {
			return false
		}
		for _, p := range v.pairs {
			ov, ok := o.Lookup(p.Key)
			if !ok || !p.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether v is a sequence with x as a direct element.
func (v Value) Contains(x Value) bool {
	for _, it := range v.Items() {
		if it.Equal(x) {
			return true
		}
	}
	return false
}

// Matches is the attribute filter used by queries: v equals want, or v is a
// sequence holding want at its top level.
func (v Value) Matches(want Value) bool {
	if v.Equal(want) {
		return true
	}
	return v.kind == KindSequence && v.Contains(want)
}
