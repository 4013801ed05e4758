package fmdac

import (
	"errors"
	"strings"

	"fmdac-go/errcode"
	"fmdac-go/x/conv"
)

var (
	// Sentinel errors (TinyGo-safe; no fmt)
	ErrFrameTooLong = &errcode.E{C: errcode.FrameTooLong, Op: "fmdac", Msg: "frame longer than register"}
	ErrMissingPin   = &errcode.E{C: errcode.MissingPin, Op: "fmdac", Msg: "bring-up pin not set"}
	ErrNoBus        = errors.New("fmdac: nil SPI bus")
)

// ValueOutOfRangeError reports a field value wider than its declared width.
type ValueOutOfRangeError struct {
	Field string
	Width uint
	Value uint64
}

func (e *ValueOutOfRangeError) Error() string {
	var a, b [20]byte
	return "fmdac: value_out_of_range: " + e.Field + "=" + string(conv.Utoa(a[:], e.Value)) +
		" exceeds " + string(conv.Utoa(b[:], uint64(e.Width))) + " bits"
}

func (e *ValueOutOfRangeError) Code() errcode.Code { return errcode.ValueOutOfRange }

// UnknownFieldError lists names that are not part of the layout, sorted.
type UnknownFieldError struct {
	Names []string
}

func (e *UnknownFieldError) Error() string {
	return "fmdac: unknown_field: " + strings.Join(e.Names, ",")
}

func (e *UnknownFieldError) Code() errcode.Code { return errcode.UnknownField }

// Mismatch is one field whose readback differs from what was written.
type Mismatch struct {
	Field string
	Want  uint64
	Got   uint64
}

// VerifyError is returned when readback disagrees with the written values.
type VerifyError struct {
	Mismatches []Mismatch
}

func (e *VerifyError) Error() string {
	var a, b [20]byte
	var sb strings.Builder
	sb.WriteString("fmdac: verify_mismatch:")
	for _, m := range e.Mismatches {
		sb.WriteString(" ")
		sb.WriteString(m.Field)
		sb.WriteString(" want=")
		sb.Write(conv.Utoa(a[:], m.Want))
		sb.WriteString(" got=")
		sb.Write(conv.Utoa(b[:], m.Got))
	}
	return sb.String()
}

func (e *VerifyError) Code() errcode.Code { return errcode.VerifyMismatch }

// Diff returns the layout fields where want and got differ, in table order.
// Absent entries count as 0.
func Diff(want, got Values) []Mismatch {
	var out []Mismatch
	for _, f := range fields {
		w, g := want.Get(f.Name), got.Get(f.Name)
		if w != g {
			out = append(out, Mismatch{Field: f.Name, Want: w, Got: g})
		}
	}
	return out
}
