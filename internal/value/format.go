package value

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// String renders v for display. A top-level sequence is joined with ", ",
// nested collections use flow notation.
func (v Value) String() string {
	if v.kind == KindSequence {
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.flow()
		}
		return strings.Join(parts, ", ")
	}
	return v.flow()
}

func (v Value) flow() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindNumber:
		return v.displayNumber()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindSequence:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.flow()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, len(v.pairs))
		for i, p := range v.pairs {
			parts[i] = p.Key + ": " + p.Value.flow()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// MarshalJSON implements json.Marshaler. Mapping order is preserved and
// non-finite numbers are emitted as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindString:
		return writeJSONScalar(buf, v.str)
	case KindNumber:
		if v.exact != "" {
			buf.WriteString(v.exact)
			return nil
		}
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return writeJSONScalar(buf, formatNumber(v.num))
		}
		return writeJSONScalar(buf, v.num)
	case KindBool:
		return writeJSONScalar(buf, v.b)
	case KindSequence:
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONScalar(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := p.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONScalar(buf *bytes.Buffer, x any) error {
	b, err := json.Marshal(x)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
