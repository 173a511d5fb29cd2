package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/starford/fmstat/internal/apperr"
)

// FromAny converts a generic decoded tree (as produced by encoding/json or
// yaml.Unmarshal into interface{}) into a Value. Go maps have no order, so
// their keys are sorted. Unsupported Go types and trees nested deeper than
// MaxDepth fail with apperr.ErrUnsupportedValue.
func FromAny(x any) (Value, error) {
	return fromAny(x, 0)
}

func fromAny(x any, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, fmt.Errorf("nesting deeper than %d: %w", MaxDepth, apperr.ErrUnsupportedValue)
	}
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int64(int64(t)), nil
	case int8:
		return Int64(int64(t)), nil
	case int16:
		return Int64(int64(t)), nil
	case int32:
		return Int64(int64(t)), nil
	case int64:
		return Int64(int64(t)), nil
	case uint:
		return Uint64(uint64(t)), nil
	case uint8:
		return Uint64(uint64(t)), nil
	case uint16:
		return Uint64(uint64(t)), nil
	case uint32:
		return Uint64(uint64(t)), nil
	case uint64:
		return Uint64(uint64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int64(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("json number %q: %w", t, apperr.ErrUnsupportedValue)
		}
		return Number(f), nil
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return String(t.Format(time.DateOnly)), nil
		}
		return String(t.Format(time.RFC3339)), nil
	case []string:
		return Strings(t...), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, it := range t {
			v, err := fromAny(it, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindSequence, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			v, err := fromAny(t[k], depth+1)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Value: v})
		}
		return Value{kind: KindMapping, pairs: pairs}, nil
	case map[any]any:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]any, len(t))
		for k, v := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			byKey[ks] = v
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			v, err := fromAny(byKey[k], depth+1)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Value: v})
		}
		return Mapping(pairs...), nil
	}
	return Value{}, fmt.Errorf("go type %T: %w", x, apperr.ErrUnsupportedValue)
}
