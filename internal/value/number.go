package value

import (
	"math"
	"math/big"
	"strconv"
)

// numberKey returns the text that identifies a number for comparison and
// normalization. Every integral number, whether decoded as an integer or as
// a float, is written as its exact decimal integer, so 1 and 1.0 agree while
// distinct integers above 2^53 stay distinct. Other numbers use the shortest
// float representation.
func (v Value) numberKey() string {
	if v.exact != "" {
		return v.exact
	}
	f := v.num
	switch {
	case f == 0:
		return "0" // folds -0 into 0
	case math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f):
		return strconv.FormatFloat(f, 'g', -1, 64)
	case math.Abs(f) < 1<<63:
		return strconv.FormatInt(int64(f), 10)
	}
	i, _ := new(big.Float).SetFloat64(f).Int(nil)
	return i.String()
}

// numberFromKey rebuilds a number from numberKey output.
func numberFromKey(key string) (Value, bool) {
	f, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return Value{}, false
	}
	if isIntegerText(key) {
		return Value{kind: KindNumber, num: f, exact: key}, true
	}
	return Number(f), true
}

func isIntegerText(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// displayNumber renders a number for people: integers without an exponent,
// floats in their shortest form.
func (v Value) displayNumber() string {
	if v.exact != "" {
		return v.exact
	}
	return formatNumber(v.num)
}

func formatNumber(f float64) string {
	if isIntegral(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) < 1e15
}
