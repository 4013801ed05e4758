package fmdac

import (
	"errors"

	"fmdac-go/x/mathx"
)

// Field names of the SPI configuration latch.
const (
	AccInc       = "ACC_INC"        // phase accumulator increment
	DFIncCoef    = "DF_INC_COEF"    // frequency deviation coefficient
	DFIncFact    = "DF_INC_FACT"    // frequency deviation factor
	DACEna       = "DAC_ENA"        // per-channel DAC enables
	DithFact     = "DITH_FACT"      // dither scaling
	MultiplySel  = "MULTIPLY_SEL"   // deviation multiplier select
	AudioChanSel = "AUDIO_CHAN_SEL" // I2S channel feeding the modulator
	I2SWSAlign   = "I2S_WS_ALIGN"   // word-select alignment
	SPIOverride  = "SPI_OVERRIDE"   // latch takes precedence over pin straps
)

// ShiftBits is the number of low-order bits on the wire below the logical
// register. They are zero on write and ignored on read.
const ShiftBits = 4

// Field describes one named bitfield. LSB and MSB are inclusive positions in
// the logical (unshifted) register.
type Field struct {
	Name string
	LSB  uint
	MSB  uint
}

// Width returns the number of bits in the field.
func (f Field) Width() uint { return f.MSB - f.LSB + 1 }

// Mask returns the right-aligned mask for the field.
func (f Field) Mask() uint64 { return 1<<f.Width() - 1 }

// Max is the largest value the field holds without truncation.
func (f Field) Max() uint64 { return f.Mask() }

// fields is the register layout, LSB first. Never mutated.
var fields = [...]Field{
	{AccInc, 0, 17},
	{DFIncCoef, 18, 21},
	{DFIncFact, 22, 23},
	{DACEna, 24, 27},
	{DithFact, 28, 30},
	{MultiplySel, 31, 31},
	{AudioChanSel, 32, 32},
	{I2SWSAlign, 33, 33},
	{SPIOverride, 34, 34},
}

// Derived sizes. WireLen is the fixed readback frame length.
var (
	LogicalBits  = logicalBits(fields[:])
	RegisterBits = LogicalBits + ShiftBits
	WireLen      = int(mathx.CeilDiv(RegisterBits, 8))
)

var (
	errFieldRange   = errors.New("fmdac: field lsb above msb")
	errFieldOverlap = errors.New("fmdac: fields overlap")
	errFieldTooHigh = errors.New("fmdac: field beyond 64-bit register")
	errFieldDup     = errors.New("fmdac: duplicate field name")
)

func init() {
	if err := checkLayout(fields[:]); err != nil {
		panic(err)
	}
}

// Fields returns a copy of the layout in table order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields[:])
	return out
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func logicalBits(fs []Field) uint {
	var n uint
	for _, f := range fs {
		if f.MSB+1 > n {
			n = f.MSB + 1
		}
	}
	return n
}

// checkLayout enforces the table invariants: ordered bounds, unique names,
// no shared bits, and room for the shift inside a uint64.
func checkLayout(fs []Field) error {
	var used uint64
	names := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		if f.LSB > f.MSB {
			return errFieldRange
		}
		if f.MSB+ShiftBits >= 64 {
			return errFieldTooHigh
		}
		if _, dup := names[f.Name]; dup {
			return errFieldDup
		}
		names[f.Name] = struct{}{}
		m := f.Mask() << f.LSB
		if used&m != 0 {
			return errFieldOverlap
		}
		used |= m
	}
	return nil
}
