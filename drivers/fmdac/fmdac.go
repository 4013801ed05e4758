// Package fmdac provides a minimal TinyGo driver for the sigma-delta FM
// modulator/DAC design configured through a 39-bit SPI shift latch.
//
// Design notes:
// • Nine named fields packed LSB first into a 35-bit logical register.
// • The wire frame carries the register shifted up by 4 bits; the low nibble
//   is zero on write and ignored on read.
// • Every exchange is full duplex over one chip-select assertion: the frame
//   shifted in replaces the latch, the previous contents shift out.
// • Frames are WireLen (5) bytes, derived from the layout.

package fmdac

import (
	"fmdac-go/errcode"

	"tinygo.org/x/drivers"
)

// Pin is a single output line.
type Pin interface {
	Set(level bool)
}

// PinFunc adapts a plain setter (e.g. machine.Pin.Set) to Pin.
type PinFunc func(level bool)

func (f PinFunc) Set(level bool) { f(level) }

// NoPin is a Pin that does nothing, for buses that drive chip select
// themselves.
var NoPin Pin = PinFunc(func(bool) {})

type Config struct {
	// Codec sets the overflow and unknown-name policies. Zero value matches
	// the reference behaviour (truncate, ignore).
	Codec Codec
	// CSActiveHigh inverts chip-select polarity. Default is active low.
	CSActiveHigh bool
}

// Device drives one modulator latch. It is not safe for concurrent use;
// one owner (normally the modulator service) serialises access.
type Device struct {
	spi    drivers.SPI
	cs     Pin
	codec  Codec
	csHigh bool

	// Fixed buffers, WireLen bytes each.
	tx   []byte
	rx   []byte
	last []byte
}

func New(spi drivers.SPI, cs Pin, cfg Config) *Device {
	if cs == nil {
		cs = NoPin
	}
	d := &Device{
		spi:    spi,
		cs:     cs,
		codec:  cfg.Codec,
		csHigh: cfg.CSActiveHigh,
		tx:     make([]byte, WireLen),
		rx:     make([]byte, WireLen),
		last:   make([]byte, WireLen),
	}
	d.deselect()
	return d
}

// Codec returns the codec in use.
func (d *Device) Codec() Codec { return d.codec }

// LastFrame returns a copy of the last frame written (zeros before the first
// write).
func (d *Device) LastFrame() []byte {
	out := make([]byte, len(d.last))
	copy(out, d.last)
	return out
}

func (d *Device) selectChip() { d.cs.Set(d.csHigh) }
func (d *Device) deselect()   { d.cs.Set(!d.csHigh) }

// Transact performs one full-duplex exchange of WireLen bytes with chip
// select held for the whole transfer. tx is right-aligned in the frame
// (zero-extended on the most-significant side). The returned slice is
// always WireLen bytes and owned by the caller.
func (d *Device) Transact(tx []byte) ([]byte, error) {
	if d.spi == nil {
		return nil, ErrNoBus
	}
	if len(tx) > WireLen {
		return nil, ErrFrameTooLong
	}
	for i := range d.tx {
		d.tx[i] = 0
		d.rx[i] = 0
	}
	copy(d.tx[WireLen-len(tx):], tx)

	d.selectChip()
	err := d.spi.Tx(d.tx, d.rx)
	d.deselect()
	if err != nil {
		return nil, errcode.Wrap(errcode.MapDriverErr(err), "fmdac.transact", err)
	}
	copy(d.last, d.tx)
	out := make([]byte, WireLen)
	copy(out, d.rx)
	return out, nil
}

// Write encodes v, shifts it into the latch and returns the decoded
// contents that were shifted out (the previous latch value).
func (d *Device) Write(v Values) (Values, error) {
	frame, err := d.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	rx, err := d.Transact(frame)
	if err != nil {
		return nil, err
	}
	return Decode(rx), nil
}

// Read returns the current latch contents by re-sending the last frame, so
// the latch is left unchanged.
func (d *Device) Read() (Values, error) {
	rx, err := d.ReadRaw()
	if err != nil {
		return nil, err
	}
	return Decode(rx), nil
}

// ReadRaw is Read without decoding.
func (d *Device) ReadRaw() ([]byte, error) {
	return d.Transact(d.LastFrame())
}

// WriteVerify writes v, reads the latch back and compares. The comparison
// is against what was actually put on the wire, so under the truncate
// policy an overflowing value is compared masked. On mismatch the readback
// is returned together with a *VerifyError.
func (d *Device) WriteVerify(v Values) (Values, error) {
	want, err := d.codec.Normalize(v)
	if err != nil {
		return nil, err
	}
	if _, err := d.Write(v); err != nil {
		return nil, err
	}
	got, err := d.Read()
	if err != nil {
		return nil, err
	}
	if m := Diff(want, got); len(m) > 0 {
		return got, &VerifyError{Mismatches: m}
	}
	return got, nil
}
