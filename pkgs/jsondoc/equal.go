package jsondoc

import (
	"math/big"

	"github.com/tidwall/gjson"
)

// Equal reports whether a and b are the same JSON value. Object key order is
// ignored and numbers compare by exact decimal value, so 1.0 equals 1 but
// 12345678901234567890 does not equal 12345678901234567891.
func Equal(a, b gjson.Result) bool {
	if a.Type != b.Type {
		return false
	}

	switch a.Type {
	case gjson.Null, gjson.True, gjson.False:
		return true
	case gjson.String:
		return a.Raw == b.Raw || a.Str == b.Str
	case gjson.Number:
		return numberEqual(a.Raw, b.Raw)
	}

	switch {
	case a.IsObject() && b.IsObject():
		am, bm := a.Map(), b.Map()
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case a.IsArray() && b.IsArray():
		aa, ba := a.Array(), b.Array()
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ba[i]) {
				return false
			}
		}
		return true
	}

	return false
}

func numberEqual(a, b string) bool {
	if a == b {
		return true
	}

	ar, ok := new(big.Rat).SetString(a)
	if !ok {
		return false
	}
	br, ok := new(big.Rat).SetString(b)
	if !ok {
		return false
	}
	return ar.Cmp(br) == 0
}
