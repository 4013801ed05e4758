package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                 OK,
		"invalid_params":     InvalidParams,
		"value_out_of_range": ValueOutOfRange,
		"unknown_field":      UnknownField,
		"verify_mismatch":    VerifyMismatch,
		"frame_too_long":     FrameTooLong,
		"missing_pin":        MissingPin,
		"transport":          Transport,
		"error":              Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if Of(Busy) != Busy {
		t.Fatal("bare code should map to itself")
	}
	e := &E{C: VerifyMismatch, Op: "fmdac.verify"}
	if Of(e) != VerifyMismatch {
		t.Fatalf("coder mismatch: %q", Of(e))
	}
	wrapped := &E{C: Transport, Err: errors.New("nack")}
	if Of(wrapped) != Transport {
		t.Fatalf("wrapped mismatch: %q", Of(wrapped))
	}
	if Of(errors.New("plain")) != Error {
		t.Fatal("plain error should fall back to error")
	}
}

func TestMapDriverErr(t *testing.T) {
	if MapDriverErr(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if MapDriverErr(errors.New("spi fault")) != Transport {
		t.Fatal("uncoded bus error should map to transport")
	}
	if MapDriverErr(Timeout) != Timeout {
		t.Fatal("coded error should keep its code")
	}
}

func TestWrapMessage(t *testing.T) {
	if Wrap(Transport, "op", nil) != nil {
		t.Fatal("wrapping nil should return nil")
	}
	err := Wrap(Transport, "fmdac.transact", errors.New("nack"))
	if got := err.Error(); got != "fmdac.transact: transport: nack" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, errors.Unwrap(err)) {
		t.Fatal("cause should be reachable")
	}
}
