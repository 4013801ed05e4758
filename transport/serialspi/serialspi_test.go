package serialspi

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"fmdac-go/drivers/fmdac"
	"fmdac-go/errcode"
)

var _ drivers.SPI = (*Port)(nil)

// bridge emulates the bridge firmware in front of the modulator latch.
type bridge struct {
	latch   []byte
	out     bytes.Buffer
	frames  [][]byte
	short   bool
	failing error
}

func (b *bridge) Write(p []byte) (int, error) {
	if b.failing != nil {
		return 0, b.failing
	}
	if len(p) < 3 || p[0] != frameStart || int(p[1]) != len(p)-3 {
		return 0, errors.New("bad frame")
	}
	tx := append([]byte(nil), p[3:]...)
	b.frames = append(b.frames, tx)
	rxLen := int(p[2])
	if b.latch == nil {
		b.latch = make([]byte, rxLen)
	}
	if b.short {
		rxLen--
	}
	b.out.Write(b.latch[:rxLen])
	copy(b.latch, tx)
	return len(p), nil
}

func (b *bridge) Read(p []byte) (int, error) {
	if b.out.Len() == 0 {
		return 0, io.EOF
	}
	return b.out.Read(p)
}

func TestTx_FramesAndReads(t *testing.T) {
	br := &bridge{}
	p := New(br)

	rx := make([]byte, 5)
	require.NoError(t, p.Tx([]byte{1, 2, 3, 4, 5}, rx))
	require.Equal(t, make([]byte, 5), rx)
	require.NoError(t, p.Tx([]byte{6, 7, 8, 9, 10}, rx))
	require.Equal(t, []byte{1, 2, 3, 4, 5}, rx)
	require.Len(t, br.frames, 2)
}

func TestTx_WriteOnly(t *testing.T) {
	br := &bridge{}
	require.NoError(t, New(br).Tx([]byte{0xAA}, nil))
	require.Equal(t, [][]byte{{0xAA}}, br.frames)
}

func TestTx_ShortReadIsTimeout(t *testing.T) {
	br := &bridge{short: true}
	err := New(br).Tx(make([]byte, 5), make([]byte, 5))
	require.Error(t, err)
	require.Equal(t, errcode.Timeout, errcode.Of(err))
}

func TestTx_WriteFailureIsTransport(t *testing.T) {
	br := &bridge{failing: errors.New("unplugged")}
	err := New(br).Tx([]byte{1}, make([]byte, 1))
	require.Equal(t, errcode.Transport, errcode.Of(err))
	require.ErrorIs(t, err, br.failing)
}

func TestTx_PayloadTooLong(t *testing.T) {
	err := New(&bridge{}).Tx(make([]byte, 256), nil)
	require.Equal(t, errcode.FrameTooLong, errcode.Of(err))
}

func TestTransfer(t *testing.T) {
	br := &bridge{latch: []byte{0x5A}}
	got, err := New(br).Transfer(0x11)
	require.NoError(t, err)
	require.Equal(t, byte(0x5A), got)
}

func TestPort_DrivesModulator(t *testing.T) {
	dev := fmdac.New(New(&bridge{}), fmdac.NoPin, fmdac.Config{})
	v := fmdac.Values{fmdac.AccInc: 52429, fmdac.DFIncCoef: 12, fmdac.DACEna: 15, fmdac.DithFact: 2, fmdac.SPIOverride: 1}
	got, err := dev.WriteVerify(v)
	require.NoError(t, err)
	require.True(t, got.Equal(v))
}

func TestClose_NotOwned(t *testing.T) {
	require.NoError(t, New(&bridge{}).Close())
}
