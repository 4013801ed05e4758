//go:build rp2040

// pico-fmdac selects the FM modulator design on the TT04 carrier, writes the
// embedded configuration over SPI and reports the latch readback.
package main

import (
	"context"
	"machine"
	"time"

	"fmdac-go/bus"
	"fmdac-go/drivers/fmdac"
	"fmdac-go/services/config"
	"fmdac-go/services/heartbeat"
	"fmdac-go/services/modulator"
)

// ---------- Board wiring ----------

const (
	pinClk    = machine.GPIO0 // design clock (PWM)
	pinNRst   = machine.GPIO1 // design reset
	pinSelEna = machine.GPIO6
	pinSelRst = machine.GPIO7
	pinSelInc = machine.GPIO8

	pinSCK = machine.GPIO18
	pinSDO = machine.GPIO19
	pinSDI = machine.GPIO16
	pinCS  = machine.GPIO17

	spiHz       = 100_000
	clockPeriod = 20 // ns, 50 MHz
)

func output(p machine.Pin) fmdac.Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return fmdac.PinFunc(p.Set)
}

func startClock() error {
	pwm := machine.PWM0
	if err := pwm.Configure(machine.PWMConfig{Period: clockPeriod}); err != nil {
		return err
	}
	ch, err := pwm.Channel(pinClk)
	if err != nil {
		return err
	}
	pwm.Set(ch, pwm.Top()/2)
	return nil
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{Frequency: spiHz, SCK: pinSCK, SDO: pinSDO, SDI: pinSDI}); err != nil {
		println("[main] spi configure failed:", err.Error())
		return
	}
	dev := fmdac.New(spi, output(pinCS), fmdac.Config{})

	pins := &fmdac.Pins{
		Reset:     output(pinNRst),
		SelEnable: output(pinSelEna),
		SelReset:  output(pinSelRst),
		SelInc:    output(pinSelInc),
	}

	ctx := config.WithDevice(context.Background(), "pico")
	b := bus.NewBus(8)

	mod := modulator.New(dev, modulator.Options{Pins: pins, Clock: startClock})
	if err := mod.Start(ctx, b.NewConnection("modulator")); err != nil {
		println("[main] modulator start failed:", err.Error())
		return
	}
	hb := &heartbeat.Service{}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("[main] heartbeat start failed:", err.Error())
	}
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	mon := b.NewConnection("monitor")
	sub := mon.Subscribe(modulator.TopicState)
	for msg := range sub.Channel() {
		st, ok := msg.Payload.(modulator.State)
		if !ok {
			continue
		}
		println("[main] wire", st.Wire, "err", string(st.Error))
		for _, f := range fmdac.Fields() {
			println("  ", f.Name, st.Readback.Get(f.Name))
		}
	}
}
