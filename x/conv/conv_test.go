package conv

import "testing"

func TestHex(t *testing.T) {
	if got := Hex([]byte{0x42, 0xF3, 0x0C, 0xCC, 0xD0}); got != "42F30CCCD0" {
		t.Fatalf("Hex: got %q", got)
	}
	if got := Hex(nil); got != "" {
		t.Fatalf("Hex(nil): got %q", got)
	}
}

func TestParseHex(t *testing.T) {
	for _, in := range []string{"42f30cccd0", "0x42F30CCCD0", "42:F3:0C:CC:D0", "42 f3 0c cc d0"} {
		b, ok := ParseHex(in)
		if !ok {
			t.Fatalf("%q: parse failed", in)
		}
		if Hex(b) != "42F30CCCD0" {
			t.Fatalf("%q: got %X", in, b)
		}
	}
	for _, in := range []string{"4", "zz", "0x123"} {
		if _, ok := ParseHex(in); ok {
			t.Fatalf("%q: expected failure", in)
		}
	}
	if b, ok := ParseHex(""); !ok || len(b) != 0 {
		t.Fatal("empty input should parse to no bytes")
	}
}

func TestUtoa(t *testing.T) {
	var buf [20]byte
	if got := string(Utoa(buf[:], 0)); got != "0" {
		t.Fatalf("Utoa(0): %q", got)
	}
	if got := string(Utoa(buf[:], 262144)); got != "262144" {
		t.Fatalf("Utoa: %q", got)
	}
}
