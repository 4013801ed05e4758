// Package modulator owns the modulator latch at runtime. It runs the carrier
// bring-up once, applies config/modulator and serves write/read requests,
// publishing the last outcome as retained modulator/state.
package modulator

import (
	"context"
	"errors"
	"time"

	"fmdac-go/bus"
	"fmdac-go/drivers/fmdac"
	"fmdac-go/errcode"
	"fmdac-go/x/conv"
	"fmdac-go/x/mathx"
	"fmdac-go/x/timex"
)

var (
	TopicConfig = bus.T("config", "modulator")
	TopicWrite  = bus.T("modulator", "write")
	TopicRead   = bus.T("modulator", "read")
	TopicState  = bus.T("modulator", "state")
)

const (
	minReadback = 10 * time.Millisecond
	maxReadback = time.Hour
)

// Device is the part of *fmdac.Device the service drives.
type Device interface {
	Write(v fmdac.Values) (fmdac.Values, error)
	Read() (fmdac.Values, error)
	WriteVerify(v fmdac.Values) (fmdac.Values, error)
	LastFrame() []byte
}

type Options struct {
	// Pins enables carrier bring-up before the first write. Nil skips it
	// (host bridges, pre-selected designs).
	Pins *fmdac.Pins
	// Clock starts the design clock during bring-up.
	Clock func() error
	// Sleeper overrides bring-up delays.
	Sleeper fmdac.Sleeper
}

type Service struct {
	dev  Device
	opts Options

	broughtUp bool
	params    Params
	state     State
}

func New(dev Device, opts Options) *Service {
	return &Service{dev: dev, opts: opts}
}

// Start launches the service loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.dev == nil {
		return errors.New("modulator: nil device")
	}
	cfgSub := conn.Subscribe(TopicConfig)
	wrSub := conn.Subscribe(TopicWrite)
	rdSub := conn.Subscribe(TopicRead)
	go s.serviceLoop(ctx, conn, cfgSub, wrSub, rdSub)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub, wrSub, rdSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(wrSub)
	defer conn.Unsubscribe(rdSub)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			println("[modulator] stopping")
			return

		case msg := <-cfgSub.Channel():
			var p Params
			if err := decodeJSON(msg.Payload, &p); err != nil {
				println("[modulator] bad config:", err.Error())
				continue
			}
			s.params = p
			res := s.apply(p.Fields)
			s.publishState(conn, res)

			if ticker != nil {
				ticker.Stop()
				ticker, tickC = nil, nil
			}
			if p.ReadbackIntervalMs > 0 {
				d := mathx.Clamp(timex.Ms(p.ReadbackIntervalMs), minReadback, maxReadback)
				ticker = time.NewTicker(d)
				tickC = ticker.C
			}

		case msg := <-wrSub.Channel():
			v, err := decodeValues(msg.Payload)
			var res Result
			if err != nil {
				res = Result{Error: errcode.InvalidPayload}
			} else {
				res = s.apply(v)
				s.publishState(conn, res)
			}
			conn.Reply(msg, res, false)

		case msg := <-rdSub.Channel():
			res := s.read()
			s.publishState(conn, res)
			conn.Reply(msg, res, false)

		case <-tickC:
			res := s.read()
			if res.Error != "" {
				println("[modulator] readback failed:", string(res.Error))
			}
			s.publishState(conn, res)
		}
	}
}

func (s *Service) bringUp() error {
	if s.broughtUp || s.opts.Pins == nil {
		return nil
	}
	err := fmdac.BringUp(*s.opts.Pins, fmdac.BringUpConfig{
		DesignID:  s.params.DesignID,
		StepDelay: time.Duration(s.params.StepUs) * time.Microsecond,
		Clock:     s.opts.Clock,
		Sleeper:   s.opts.Sleeper,
	})
	if err != nil {
		return err
	}
	s.broughtUp = true
	return nil
}

// apply writes v under the current params. Strict params validate before
// anything reaches the bus.
func (s *Service) apply(v fmdac.Values) Result {
	if err := s.bringUp(); err != nil {
		println("[modulator] bring-up failed:", err.Error())
		return Result{Error: errcode.Of(err)}
	}
	if s.params.Strict {
		if _, err := fmdac.Strict.Pack(v); err != nil {
			return Result{Error: errcode.Of(err)}
		}
	}

	var res Result
	if s.params.Verify {
		got, err := s.dev.WriteVerify(v)
		res.Readback = got
		var ve *fmdac.VerifyError
		if errors.As(err, &ve) {
			res.Mismatches = ve.Mismatches
		}
		if err != nil {
			res.Error = errcode.Of(err)
		}
	} else {
		prev, err := s.dev.Write(v)
		res.Previous = prev
		if err != nil {
			res.Error = errcode.Of(err)
		}
	}
	res.Wire = conv.Hex(s.dev.LastFrame())
	res.OK = res.Error == ""
	if res.OK || res.Error == errcode.VerifyMismatch {
		s.state.Written = v.Clone()
	}
	return res
}

func (s *Service) read() Result {
	got, err := s.dev.Read()
	if err != nil {
		return Result{Error: errcode.Of(err)}
	}
	return Result{OK: true, Readback: got, Wire: conv.Hex(s.dev.LastFrame())}
}

func (s *Service) publishState(conn *bus.Connection, res Result) {
	s.state.Ready = s.broughtUp || s.opts.Pins == nil
	if res.Readback != nil {
		s.state.Readback = res.Readback
	}
	if res.Wire != "" {
		s.state.Wire = res.Wire
	}
	s.state.Error = res.Error
	s.state.TSms = timex.NowMs()

	st := s.state
	conn.Publish(&bus.Message{Topic: TopicState, Payload: st, Retained: true})
}
