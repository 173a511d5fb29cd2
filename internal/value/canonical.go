package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical is the normalized form of a Value. It is comparable, so it can be
// used directly as a map key, and two values that differ only in mapping key
// order share one Canonical.
//
// Sequences become tuples of canonical elements. Mappings become tuples of
// (key, value) 2-tuples sorted by key. As a consequence an empty sequence and
// an empty mapping are indistinguishable, as are {a: 1} and [[a, 1]]. Callers
// that care must inspect the raw Value before normalizing.
//
// The zero Canonical is the normalized null.
type Canonical struct {
	enc string
}

// Encoding tokens. Every token is self-delimiting so tuples need no separators.
const (
	tokNull   = '~'
	tokString = 's'
	tokNumber = 'n'
	tokTrue   = 'T'
	tokFalse  = 'F'
	tokOpen   = '('
	tokClose  = ')'
)

// Normalize converts v to its canonical form.
func Normalize(v Value) Canonical {
	if v.kind == KindNull {
		return Canonical{}
	}
	var sb strings.Builder
	encode(&sb, v)
	return Canonical{enc: sb.String()}
}

func encode(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindNull:
		sb.WriteByte(tokNull)
	case KindString:
		encodeString(sb, v.str)
	case KindNumber:
		sb.WriteByte(tokNumber)
		sb.WriteString(v.numberKey())
		sb.WriteByte(';')
	case KindBool:
		if v.b {
			sb.WriteByte(tokTrue)
		} else {
			sb.WriteByte(tokFalse)
		}
	case KindSequence:
		sb.WriteByte(tokOpen)
		for _, it := range v.items {
			encode(sb, it)
		}
		sb.WriteByte(tokClose)
	case KindMapping:
		pairs := make([]Pair, len(v.pairs))
		copy(pairs, v.pairs)
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
		sb.WriteByte(tokOpen)
		for _, p := range pairs {
			sb.WriteByte(tokOpen)
			encodeString(sb, p.Key)
			encode(sb, p.Value)
			sb.WriteByte(tokClose)
		}
		sb.WriteByte(tokClose)
	}
}

func encodeString(sb *strings.Builder, s string) {
	sb.WriteByte(tokString)
	sb.WriteString(strconv.Itoa(len(s)))
	sb.WriteByte(':')
	sb.WriteString(s)
}

// Tuple builds a canonical tuple from canonical elements.
func Tuple(items ...Canonical) Canonical {
	var sb strings.Builder
	sb.WriteByte(tokOpen)
	for _, it := range items {
		sb.WriteString(it.raw())
	}
	sb.WriteByte(tokClose)
	return Canonical{enc: sb.String()}
}

func (c Canonical) raw() string {
	if c.enc == "" {
		return string(tokNull)
	}
	return c.enc
}

// Kind reports KindNull, KindString, KindNumber, KindBool or KindTuple.
func (c Canonical) Kind() Kind {
	switch c.raw()[0] {
	case tokString:
		return KindString
	case tokNumber:
		return KindNumber
	case tokTrue, tokFalse:
		return KindBool
	case tokOpen:
		return KindTuple
	default:
		return KindNull
	}
}

// IsEmptyTuple reports whether c is the tuple with no elements, the shared
// normalization of empty sequences and empty mappings.
func (c Canonical) IsEmptyTuple() bool {
	return c.enc == string([]byte{tokOpen, tokClose})
}

// Items returns the elements of a tuple, or nil for scalars.
func (c Canonical) Items() []Canonical {
	n := c.node()
	if n.kind != KindTuple {
		return nil
	}
	out := make([]Canonical, len(n.items))
	for i, it := range n.items {
		out[i] = it.canonical()
	}
	return out
}

// Len returns the number of tuple elements, or 0 for scalars.
func (c Canonical) Len() int {
	return len(c.node().items)
}

// Denormalize is shorthand for Denormalize(c).
func (c Canonical) Denormalize() Value {
	return Denormalize(c)
}

// String renders the denormalized value.
func (c Canonical) String() string {
	return Denormalize(c).String()
}

// GoString exposes the raw encoding for debugging.
func (c Canonical) GoString() string {
	return fmt.Sprintf("value.Canonical{%q}", c.raw())
}

// Denormalize is the best-effort inverse of Normalize. A non-empty tuple whose
// every element is a 2-tuple keyed by a string is rebuilt as a mapping, unless
// a key repeats, in which case it stays a sequence. Every other tuple becomes
// a sequence. The mapping guess is wrong for sequences of two-element lists
// that start with strings; that loss is inherent to the tuple encoding.
func Denormalize(c Canonical) Value {
	return c.node().value()
}

// cnode is the parsed tree of a canonical encoding.
type cnode struct {
	kind  Kind
	str   string
	num   Value
	b     bool
	items []cnode
	enc   string
}

func (c Canonical) node() cnode {
	raw := c.raw()
	n, rest := parse(raw)
	if rest != "" {
		panic(fmt.Sprintf("value: trailing canonical data %q", rest))
	}
	return n
}

func parse(s string) (cnode, string) {
	start := s
	switch s[0] {
	case tokNull:
		return cnode{kind: KindNull, enc: s[:1]}, s[1:]
	case tokTrue:
		return cnode{kind: KindBool, b: true, enc: s[:1]}, s[1:]
	case tokFalse:
		return cnode{kind: KindBool, b: false, enc: s[:1]}, s[1:]
	case tokString:
		colon := strings.IndexByte(s, ':')
		n, err := strconv.Atoi(s[1:colon])
		if err != nil {
			panic(fmt.Sprintf("value: corrupt canonical string length %q", s[1:colon]))
		}
		end := colon + 1 + n
		return cnode{kind: KindString, str: s[colon+1 : end], enc: s[:end]}, s[end:]
	case tokNumber:
		semi := strings.IndexByte(s, ';')
		num, ok := numberFromKey(s[1:semi])
		if !ok {
			panic(fmt.Sprintf("value: corrupt canonical number %q", s[1:semi]))
		}
		return cnode{kind: KindNumber, num: num, enc: s[:semi+1]}, s[semi+1:]
	case tokOpen:
		n := cnode{kind: KindTuple}
		rest := s[1:]
		for rest[0] != tokClose {
			var it cnode
			it, rest = parse(rest)
			n.items = append(n.items, it)
		}
		rest = rest[1:]
		n.enc = start[:len(start)-len(rest)]
		return n, rest
	}
	panic(fmt.Sprintf("value: corrupt canonical token %q", s[0]))
}

func (n cnode) canonical() Canonical {
	if n.kind == KindNull {
		return Canonical{}
	}
	return Canonical{enc: n.enc}
}

func (n cnode) value() Value {
	switch n.kind {
	case KindString:
		return String(n.str)
	case KindNumber:
		return n.num
	case KindBool:
		return Bool(n.b)
	case KindTuple:
		if m, ok := n.asMapping(); ok {
			return m
		}
		items := make([]Value, len(n.items))
		for i, it := range n.items {
			items[i] = it.value()
		}
		return Value{kind: KindSequence, items: items}
	default:
		return Null()
	}
}

func (n cnode) asMapping() (Value, bool) {
	if len(n.items) == 0 {
		return Value{}, false
	}
	seen := make(map[string]struct{}, len(n.items))
	pairs := make([]Pair, 0, len(n.items))
	for _, it := range n.items {
		if it.kind != KindTuple || len(it.items) != 2 || it.items[0].kind != KindString {
			return Value{}, false
		}
		key := it.items[0].str
		if _, dup := seen[key]; dup {
			return Value{}, false
		}
		seen[key] = struct{}{}
		pairs = append(pairs, Pair{Key: key, Value: it.items[1].value()})
	}
	return Value{kind: KindMapping, pairs: pairs}, true
}
