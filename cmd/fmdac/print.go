package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"fmdac-go/drivers/fmdac"
	"fmdac-go/x/conv"
)

var (
	headerColor   = color.New(color.FgCyan, color.Bold)
	mismatchColor = color.New(color.FgRed)
)

func printLayout(w io.Writer) {
	headerColor.Fprintf(w, "%-16s %-7s %5s %10s\n", "FIELD", "BITS", "WIDTH", "MAX")
	for _, f := range fmdac.Fields() {
		fmt.Fprintf(w, "%-16s %-7s %5d %10d\n", f.Name, fmt.Sprintf("%d-%d", f.LSB, f.MSB), f.Width(), f.Max())
	}
	fmt.Fprintf(w, "shift %d, frame %d bytes\n", fmdac.ShiftBits, fmdac.WireLen)
}

// printFrame prints frame as hex; an empty frame prints as "-".
func printFrame(w io.Writer, frame []byte) {
	if len(frame) == 0 {
		fmt.Fprintln(w, "-")
		return
	}
	fmt.Fprintln(w, conv.Hex(frame))
}

// printValues lists fields in layout order; mismatching fields are shown in
// red with the expected value.
func printValues(w io.Writer, v fmdac.Values, mismatches []fmdac.Mismatch) {
	bad := make(map[string]fmdac.Mismatch, len(mismatches))
	for _, m := range mismatches {
		bad[m.Field] = m
	}
	for _, f := range fmdac.Fields() {
		if m, ok := bad[f.Name]; ok {
			mismatchColor.Fprintf(w, "%-16s %d (want %d)\n", f.Name, m.Got, m.Want)
			continue
		}
		fmt.Fprintf(w, "%-16s %d\n", f.Name, v.Get(f.Name))
	}
}
