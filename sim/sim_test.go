// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package sim

import (
	"testing"

	"github.com/NuQuantum/regblock/bus"
	"github.com/NuQuantum/regblock/lower"
	"github.com/NuQuantum/regblock/model"
)

// testBlock lowers a model covering the behaviours under test: a
// plain control register, a wide data register, a write-one-to-
// clear interrupt register, a clear-on-read counter, and an
// externally backed level register.
func testBlock(t *testing.T) *lower.Block {
	t.Helper()

	m := &model.AddressMap{
		Name:        "top",
		AccessWidth: 8,
		Types: []*model.RegisterType{
			{
				Name:  "ctrl",
				Width: 8,
				Fields: []*model.Field{
					{Name: "mode", LSB: 0, Width: 4, SW: model.AccessRW, HW: model.AccessR, Reset: 3},
					{Name: "start", LSB: 7, Width: 1, SW: model.AccessW, HW: model.AccessR, Swmod: true},
				},
			},
			{
				Name:  "data",
				Width: 16,
				Fields: []*model.Field{
					{Name: "data0", LSB: 0, Width: 8, SW: model.AccessRW, HW: model.AccessR},
					{Name: "data1", LSB: 8, Width: 8, SW: model.AccessRW, HW: model.AccessR},
				},
			},
			{
				Name:  "intr",
				Width: 8,
				Fields: []*model.Field{
					{Name: "sts", LSB: 0, Width: 4, SW: model.AccessRW, HW: model.AccessRW, OnWrite: model.Woclr},
					{Name: "en", LSB: 4, Width: 4, SW: model.AccessRW},
				},
			},
			{
				Name:  "cnt",
				Width: 8,
				Fields: []*model.Field{
					{Name: "val", LSB: 0, Width: 8, SW: model.AccessR, HW: model.AccessRW, OnRead: model.Rclr, Swmod: true},
				},
			},
			{
				Name:  "ext",
				Width: 8,
				Fields: []*model.Field{
					{Name: "lvl", LSB: 0, Width: 8, SW: model.AccessRW, External: true, Swacc: true},
				},
			},
		},
		Instances: []*model.RegisterInstance{
			{Name: "ctrl", Type: "ctrl", Offset: 0},
			{Name: "data", Type: "data", Offset: 1},
			{Name: "intr", Type: "intr", Offset: 3},
			{Name: "cnt", Type: "cnt", Offset: 4},
			{Name: "ext", Type: "ext", Offset: 5},
		},
	}

	block, err := lower.Lower(m)
	if err != nil {
		t.Fatalf("Lower(): %v", err)
	}

	return block
}

func TestResetValues(t *testing.T) {
	s := New(testBlock(t))

	if got := s.ReadWord(0); got != 0x03 {
		t.Fatalf("ctrl after reset: %#x, want 0x03", got)
	}

	if got := s.ReadWord(1); got != 0 {
		t.Fatalf("data word 0 after reset: %#x, want 0", got)
	}

	// Disturb state, then reset again.
	s.WriteWord(0, 0x0C)
	if got := s.ReadWord(0); got != 0x0C {
		t.Fatalf("ctrl after write: %#x, want 0x0c", got)
	}

	s.Reset()
	if got := s.ReadWord(0); got != 0x03 {
		t.Fatalf("ctrl after second reset: %#x, want 0x03", got)
	}
}

// A 16-bit register behind an 8-bit bus: writing 0x1234 as two
// bus writes and reading both subwords back must reproduce 0x34
// then 0x12.
func TestWideRegisterRoundTrip(t *testing.T) {
	s := New(testBlock(t))

	s.WriteWord(1, 0x34)
	s.WriteWord(2, 0x12)

	if got := s.ReadWord(1); got != 0x34 {
		t.Fatalf("data word 0: %#x, want 0x34", got)
	}

	if got := s.ReadWord(2); got != 0x12 {
		t.Fatalf("data word 1: %#x, want 0x12", got)
	}
}

// A write policy acts only within its field's own bits.
func TestWriteOneToClearIsolation(t *testing.T) {
	s := New(testBlock(t))

	sts, err := s.Field("top.intr.sts")
	if err != nil {
		t.Fatal(err)
	}

	// Hardware raises two interrupt bits; software enables all
	// four sources.
	s.SetValue(sts, 0x5)
	s.WriteWord(3, 0xF0)
	if got := s.ReadWord(3); got != 0xF5 {
		t.Fatalf("intr after enable write: %#x, want 0xf5", got)
	}

	// Acknowledging bit 0 must clear only bit 0 of sts, even
	// though the write covers the whole word.
	s.WriteWord(3, 0xF1)
	if got := s.ReadWord(3); got != 0xF4 {
		t.Fatalf("intr after acknowledge: %#x, want 0xf4", got)
	}
}

func TestClearOnRead(t *testing.T) {
	s := New(testBlock(t))

	val, err := s.Field("top.cnt.val")
	if err != nil {
		t.Fatal(err)
	}

	s.SetValue(val, 0x2A)
	if got := s.ReadWord(4); got != 0x2A {
		t.Fatalf("cnt read: %#x, want 0x2a", got)
	}

	if got := s.ReadWord(4); got != 0 {
		t.Fatalf("cnt after clear-on-read: %#x, want 0", got)
	}
}

func TestDecodeMiss(t *testing.T) {
	s := New(testBlock(t))

	s.WriteWord(0, 0x0C)

	// The highest mapped address is 5, so 0x7 falls inside the
	// 3-bit address space but decodes to nothing. A write there
	// is silently ignored and raises no strobes.
	s.Tick(bus.Inputs{
		AWValid: true, AWAddr: 0x7,
		WValid: true, WData: 0xFF,
		WStrb: FullStrobe(8),
	})

	if p := s.Pulses(); len(p.QE) != 0 || len(p.QRE) != 0 {
		t.Fatalf("unmapped write raised strobes: %+v", p)
	}

	s.Tick(bus.Inputs{BReady: true})
	if got := s.ReadWord(0); got != 0x0C {
		t.Fatalf("ctrl disturbed by an unmapped write: %#x", got)
	}

	// A read from an unmapped address returns the undefined
	// marker, never a field value.
	if got := s.ReadWord(0x7); got != bus.Undefined(0xFF) {
		t.Fatalf("unmapped read: %#x, want the undefined marker %#x", got, bus.Undefined(0xFF))
	}
}

func TestWritePulse(t *testing.T) {
	s := New(testBlock(t))

	// Drive the write phases directly so the strobes of the pulse
	// cycle are observable.
	s.Tick(bus.Inputs{
		AWValid: true, AWAddr: 0,
		WValid: true, WData: 0x80,
		WStrb: FullStrobe(8),
	})

	p := s.Pulses()
	if len(p.QE) != 1 || p.QE[0].Name != "start" {
		t.Fatalf("write strobes %+v, want start only", p.QE)
	}

	s.Tick(bus.Inputs{BReady: true})
}

func TestReadPulse(t *testing.T) {
	s := New(testBlock(t))

	s.Tick(bus.Inputs{ARValid: true, ARAddr: 4})
	p := s.Pulses()
	if len(p.QRE) != 1 || p.QRE[0].Name != "val" {
		t.Fatalf("read strobes %+v, want val only", p.QRE)
	}

	// Reading a register without read strobes raises none.
	s.Tick(bus.Inputs{RReady: true})
	s.Tick(bus.Inputs{ARValid: true, ARAddr: 0})
	if p := s.Pulses(); len(p.QRE) != 0 {
		t.Fatalf("ctrl read raised strobes: %+v", p.QRE)
	}
}

func TestExternallyBackedField(t *testing.T) {
	s := New(testBlock(t))

	lvl, err := s.Field("top.ext.lvl")
	if err != nil {
		t.Fatal(err)
	}

	if lvl.Impl != lower.ExternallyBacked {
		t.Fatalf("lvl backing %s, want external", lvl.Impl)
	}

	// The external hardware drives the value; reads see it.
	s.SetValue(lvl, 0x66)
	if got := s.ReadWord(5); got != 0x66 {
		t.Fatalf("ext read: %#x, want 0x66", got)
	}

	// A software write pulses the strobe but the block holds no
	// storage for the field.
	s.Tick(bus.Inputs{
		AWValid: true, AWAddr: 5,
		WValid: true, WData: 0x11,
		WStrb: FullStrobe(8),
	})

	if p := s.Pulses(); len(p.QE) != 1 || p.QE[0] != lvl {
		t.Fatalf("ext write strobes %+v, want lvl", p.QE)
	}

	s.Tick(bus.Inputs{BReady: true})
	if got := s.Value(lvl); got != 0x66 {
		t.Fatalf("externally backed value changed by a bus write: %#x", got)
	}
}

func TestPartialStrobe(t *testing.T) {
	block, err := lower.Lower(&model.AddressMap{
		Name:        "w",
		AccessWidth: 16,
		Types: []*model.RegisterType{
			{
				Name:  "pair",
				Width: 16,
				Fields: []*model.Field{
					{Name: "lo", LSB: 0, Width: 8, SW: model.AccessRW},
					{Name: "hi", LSB: 8, Width: 8, SW: model.AccessRW},
				},
			},
		},
		Instances: []*model.RegisterInstance{
			{Name: "pair", Type: "pair", Offset: 0},
		},
	})
	if err != nil {
		t.Fatalf("Lower(): %v", err)
	}

	s := New(block)
	s.WriteWord(0, 0xABCD)

	// Strobe only the low byte: the high field must not move.
	s.Tick(bus.Inputs{
		AWValid: true, AWAddr: 0,
		WValid: true, WData: 0x1122,
		WStrb: 0b01,
	})
	s.Tick(bus.Inputs{BReady: true})

	if got := s.ReadWord(0); got != 0xAB22 {
		t.Fatalf("after partial-strobe write: %#x, want 0xab22", got)
	}
}
