// Package serialspi tunnels full-duplex SPI exchanges through a USB-serial
// bridge board. Each exchange is one request frame
//
//	0xA5 | txLen | rxLen | tx...
//
// answered by exactly rxLen bytes clocked in while tx was shifted out. The
// bridge holds chip select for the whole exchange.
package serialspi

import (
	"io"
	"sync"
	"time"

	"github.com/goburrow/serial"
	"github.com/pkg/errors"

	"fmdac-go/errcode"
)

const (
	frameStart = 0xA5
	maxPayload = 255
)

var ErrPayloadTooLong = &errcode.E{C: errcode.FrameTooLong, Op: "serialspi", Msg: "payload over 255 bytes"}

type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
}

// Port implements tinygo.org/x/drivers.SPI over a serial stream. Safe for
// concurrent use; exchanges are serialised.
type Port struct {
	mu  sync.Mutex
	rw  io.ReadWriter
	c   io.Closer
	buf []byte
}

// Open opens the serial device, 8N1.
func Open(cfg Config) (*Port, error) {
	sp, err := serial.Open(&serial.Config{
		Address:  cfg.Port,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Port)
	}
	p := New(sp)
	p.c = sp
	return p, nil
}

// New wraps an already-open stream.
func New(rw io.ReadWriter) *Port {
	return &Port{rw: rw}
}

// Tx sends w and reads len(r) bytes. Either may be empty.
func (p *Port) Tx(w, r []byte) error {
	if len(w) > maxPayload || len(r) > maxPayload {
		return ErrPayloadTooLong
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf = append(p.buf[:0], frameStart, byte(len(w)), byte(len(r)))
	p.buf = append(p.buf, w...)
	if _, err := p.rw.Write(p.buf); err != nil {
		return errcode.Wrap(errcode.Transport, "serialspi.write", err)
	}
	if len(r) == 0 {
		return nil
	}
	if _, err := io.ReadFull(p.rw, r); err != nil {
		c := errcode.Transport
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, serial.ErrTimeout) {
			c = errcode.Timeout
		}
		return errcode.Wrap(c, "serialspi.read", err)
	}
	return nil
}

// Transfer exchanges a single byte.
func (p *Port) Transfer(b byte) (byte, error) {
	var r [1]byte
	if err := p.Tx([]byte{b}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// Close releases the serial device when Port owns it.
func (p *Port) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}
