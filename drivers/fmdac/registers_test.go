package fmdac

import "testing"

func TestLayout_DerivedSizes(t *testing.T) {
	if LogicalBits != 35 {
		t.Fatalf("LogicalBits = %d, want 35", LogicalBits)
	}
	if RegisterBits != 39 {
		t.Fatalf("RegisterBits = %d, want 39", RegisterBits)
	}
	if WireLen != 5 {
		t.Fatalf("WireLen = %d, want 5", WireLen)
	}
}

func TestLayout_ReferenceTable(t *testing.T) {
	want := []struct {
		name       string
		lsb, width uint
	}{
		{AccInc, 0, 18},
		{DFIncCoef, 18, 4},
		{DFIncFact, 22, 2},
		{DACEna, 24, 4},
		{DithFact, 28, 3},
		{MultiplySel, 31, 1},
		{AudioChanSel, 32, 1},
		{I2SWSAlign, 33, 1},
		{SPIOverride, 34, 1},
	}
	got := Fields()
	if len(got) != len(want) {
		t.Fatalf("got %d fields, want %d", len(got), len(want))
	}
	for i, w := range want {
		f := got[i]
		if f.Name != w.name || f.LSB != w.lsb || f.Width() != w.width {
			t.Fatalf("field %d: got %+v (width %d), want %+v", i, f, f.Width(), w)
		}
	}
}

func TestLayout_PairwiseDisjoint(t *testing.T) {
	fs := Fields()
	for i := range fs {
		for j := i + 1; j < len(fs); j++ {
			a, b := fs[i], fs[j]
			if a.LSB <= b.MSB && b.LSB <= a.MSB {
				t.Fatalf("%s [%d..%d] overlaps %s [%d..%d]", a.Name, a.LSB, a.MSB, b.Name, b.LSB, b.MSB)
			}
		}
	}
}

func TestLayout_FieldsReturnsCopy(t *testing.T) {
	fs := Fields()
	fs[0].LSB = 7
	if f, _ := Lookup(AccInc); f.LSB != 0 {
		t.Fatal("mutating Fields() result leaked into the table")
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup(DithFact)
	if !ok || f.Mask() != 0x7 || f.Max() != 7 {
		t.Fatalf("DITH_FACT lookup: %+v ok=%v", f, ok)
	}
	if _, ok := Lookup("NOPE"); ok {
		t.Fatal("unknown name should not resolve")
	}
}

func TestCheckLayout(t *testing.T) {
	cases := []struct {
		name string
		fs   []Field
		want error
	}{
		{"ok", []Field{{"A", 0, 3}, {"B", 4, 7}}, nil},
		{"inverted", []Field{{"A", 3, 0}}, errFieldRange},
		{"overlap", []Field{{"A", 0, 3}, {"B", 3, 5}}, errFieldOverlap},
		{"dup", []Field{{"A", 0, 3}, {"A", 4, 5}}, errFieldDup},
		{"too high", []Field{{"A", 58, 60}}, errFieldTooHigh},
	}
	for _, c := range cases {
		if got := checkLayout(c.fs); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}
