package fmdac

import (
	"math/bits"

	"golang.org/x/exp/slices"
)

// Values maps field names to unsigned field values.
//
// A field missing from the map is written as 0. Decoding always produces an
// entry for every field in the layout.
type Values map[string]uint64

// Get returns the value for name, or 0 when absent.
func (v Values) Get(name string) uint64 {
	x, ok := v[name]
	if !ok {
		return 0
	}
	return x
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Equal compares every layout field, treating absent entries as 0. Names
// outside the layout are not compared.
func (v Values) Equal(o Values) bool {
	for _, f := range fields {
		if v.Get(f.Name) != o.Get(f.Name) {
			return false
		}
	}
	return true
}

// OverflowPolicy selects what happens to values wider than their field.
type OverflowPolicy uint8

const (
	// OverflowTruncate masks the value to the field width.
	OverflowTruncate OverflowPolicy = iota
	// OverflowReject fails with *ValueOutOfRangeError.
	OverflowReject
)

// UnknownPolicy selects what happens to names outside the layout.
type UnknownPolicy uint8

const (
	// UnknownIgnore skips them.
	UnknownIgnore UnknownPolicy = iota
	// UnknownReject fails with *UnknownFieldError.
	UnknownReject
)

// Codec packs and unpacks the configuration latch. The zero value truncates
// overflowing values and ignores unknown names. A Codec holds no state and
// is safe for concurrent use.
type Codec struct {
	Overflow OverflowPolicy
	Unknown  UnknownPolicy
}

// Strict is the validating codec: both checks enabled.
var Strict = Codec{Overflow: OverflowReject, Unknown: UnknownReject}

// Pack builds the logical register value.
func (c Codec) Pack(v Values) (uint64, error) {
	if c.Unknown == UnknownReject {
		if err := checkUnknown(v); err != nil {
			return 0, err
		}
	}
	var reg uint64
	for _, f := range fields {
		x := v.Get(f.Name)
		if x > f.Max() {
			if c.Overflow == OverflowReject {
				return 0, &ValueOutOfRangeError{Field: f.Name, Width: f.Width(), Value: x}
			}
			x &= f.Mask()
		}
		reg |= x << f.LSB
	}
	return reg, nil
}

// Encode packs v and serialises the shifted register big-endian, using the
// fewest bytes that hold it. An all-zero register encodes to an empty slice.
func (c Codec) Encode(v Values) ([]byte, error) {
	reg, err := c.Pack(v)
	if err != nil {
		return nil, err
	}
	return appendMinimal(nil, reg<<ShiftBits), nil
}

// Normalize returns the full field map that Encode would put on the wire:
// every layout field present, values masked under the truncate policy.
func (c Codec) Normalize(v Values) (Values, error) {
	reg, err := c.Pack(v)
	if err != nil {
		return nil, err
	}
	return Unpack(reg), nil
}

// Pack is Codec{}.Pack; it never fails.
func Pack(v Values) uint64 {
	reg, _ := Codec{}.Pack(v)
	return reg
}

// Encode is Codec{}.Encode; it never fails.
func Encode(v Values) []byte {
	b, _ := Codec{}.Encode(v)
	return b
}

// Unpack splits a logical register value into fields.
func Unpack(reg uint64) Values {
	out := make(Values, len(fields))
	for _, f := range fields {
		out[f.Name] = (reg >> f.LSB) & f.Mask()
	}
	return out
}

// Decode parses a big-endian frame of any length, drops the low ShiftBits
// bits and extracts every field. Short frames read as zero-extended; an
// empty frame decodes to all zeros.
func Decode(b []byte) Values {
	var phys uint64
	for _, c := range b {
		phys = phys<<8 | uint64(c)
	}
	return Unpack(phys >> ShiftBits)
}

// PadWire zero-extends b on the most-significant side to at least n bytes.
// Longer input is returned unchanged.
func PadWire(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

func appendMinimal(dst []byte, x uint64) []byte {
	n := (bits.Len64(x) + 7) / 8
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(x>>(8*uint(i))))
	}
	return dst
}

func checkUnknown(v Values) error {
	var unknown []string
	for name := range v {
		if _, ok := Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return &UnknownFieldError{Names: unknown}
}
