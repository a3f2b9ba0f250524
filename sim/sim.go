// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package sim is an executable model of a lowered register block
// behind its bus adapter. Evaluation is synchronous discrete time:
// each Tick samples the bus inputs, delivers at most one enable
// pulse into the register file, applies the field side-effect
// policies, and commits all next-state values before returning.
// The model backs the lowering's verification tests; it is not part
// of the generated output.
package sim

import (
	"fmt"

	"github.com/NuQuantum/regblock/bus"
	"github.com/NuQuantum/regblock/lower"
	"github.com/NuQuantum/regblock/model"
)

// Sim simulates one lowered block. The only mutable state is the
// adapter's handshake registers and each field's shadow value.
type Sim struct {
	block   *lower.Block
	adapter *bus.Adapter

	values map[*lower.Field]uint64
	fields map[string]*lower.Field
	regs   map[string]*lower.Register

	pulses Pulses
}

// Pulses records the hardware-visible strobes emitted during the
// most recent tick.
type Pulses struct {
	// QE lists the fields whose "written by software" strobe
	// fired, coincident with the write enable.
	QE []*lower.Field

	// QRE lists the fields whose "read by software" strobe fired.
	QRE []*lower.Field
}

// New builds a simulator for the block, with every field at its
// declared reset value.
func New(block *lower.Block) *Sim {
	s := &Sim{
		block:   block,
		adapter: bus.New(block.AddrWidth, block.AccessWidth),
		values:  make(map[*lower.Field]uint64),
		fields:  make(map[string]*lower.Field),
		regs:    make(map[string]*lower.Register),
	}

	for _, reg := range block.Registers {
		s.regs[reg.Path.Dotted()] = reg
		for _, f := range reg.Fields {
			s.fields[f.Path.Dotted()] = f
			s.values[f] = f.Reset
		}
	}

	return s
}

// Reset returns every field to its reset value and the adapter to
// its initial state.
func (s *Sim) Reset() {
	s.adapter.Reset()
	s.pulses = Pulses{}
	for f := range s.values {
		s.values[f] = f.Reset
	}
}

// Tick advances the model by one clock cycle.
func (s *Sim) Tick(in bus.Inputs) bus.Outputs {
	s.pulses = Pulses{}
	return s.adapter.Tick(in, (*backend)(s))
}

// Pulses returns the strobes emitted during the most recent tick.
func (s *Sim) Pulses() Pulses {
	return s.pulses
}

// Field returns the lowered field at the given dotted path, such as
// "top.blk[1].ctrl.mode".
func (s *Sim) Field(path string) (*lower.Field, error) {
	f, ok := s.fields[path]
	if !ok {
		return nil, fmt.Errorf("no field at %s", path)
	}

	return f, nil
}

// Register returns the flattened register at the given dotted path.
func (s *Sim) Register(path string) (*lower.Register, error) {
	reg, ok := s.regs[path]
	if !ok {
		return nil, fmt.Errorf("no register at %s", path)
	}

	return reg, nil
}

// Value returns a field's current shadow value.
func (s *Sim) Value(f *lower.Field) uint64 {
	return s.values[f]
}

// SetValue drives a field's value through the hardware-write path,
// outside any bus transaction.
func (s *Sim) SetValue(f *lower.Field, v uint64) {
	s.values[f] = v & f.Mask()
}

// backend adapts Sim to the adapter's single-cycle register
// interface. The router and composer logic live here: enable
// decode, per-field write-data slicing, policy application, and
// read-data composition.
type backend Sim

// Write delivers a one-cycle write pulse. An address with no decode
// entry is silently ignored; that is a policy of the generated
// logic, not a failure.
func (b *backend) Write(addr, data, strb uint64) {
	entry := b.block.FindEntry(addr)
	if entry == nil || !entry.Subword.WriteEnable {
		return
	}

	strobe := strobeMask(strb, b.block.AccessWidth)
	for _, f := range entry.Subword.Fields {
		if !f.Access.SWWritable {
			continue
		}

		// Each field sees only its own slice of the bus word, so
		// its write policy acts within its own bits and ignores
		// the rest of the word.
		slice := (data >> f.SubLSB) & f.Mask()
		mask := (strobe >> f.SubLSB) & f.Mask()
		if f.Impl == lower.FlopBacked {
			b.values[f] = f.OnWrite.Apply(b.values[f], slice, mask) & f.Mask()
		}

		if f.Access.NeedsQE {
			b.pulses.QE = append(b.pulses.QE, f)
		}
	}
}

// Read is the combinational fetch for one subword: each readable
// field's value placed at its subword bit range, all uncovered bits
// zero. Read side effects commit as part of the same tick.
func (b *backend) Read(addr uint64) (uint64, bool) {
	entry := b.block.FindEntry(addr)
	if entry == nil {
		return 0, false
	}

	var data uint64
	for _, f := range entry.Subword.Fields {
		if !f.Access.SWReadable {
			continue
		}

		data |= (b.values[f] & f.Mask()) << f.SubLSB

		if f.OnRead != model.OnReadNone && f.Impl == lower.FlopBacked {
			b.values[f] = f.OnRead.Apply(b.values[f], f.Mask())
		}

		if f.Access.NeedsQRE {
			b.pulses.QRE = append(b.pulses.QRE, f)
		}
	}

	return data & entry.Subword.ReadMask, true
}

// strobeMask expands the byte strobes of the write data phase into
// a bit mask over the bus word. Words narrower than a byte have a
// single strobe bit.
func strobeMask(strb uint64, dataWidth int) uint64 {
	if dataWidth <= 8 {
		if strb&1 != 0 {
			return widthMask(dataWidth)
		}

		return 0
	}

	var mask uint64
	for i := 0; i < dataWidth/8; i++ {
		if strb&(1<<i) != 0 {
			mask |= 0xFF << (8 * i)
		}
	}

	return mask
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}

// FullStrobe returns the write strobe covering the whole bus word.
func FullStrobe(dataWidth int) uint64 {
	if dataWidth <= 8 {
		return 1
	}

	return widthMask(dataWidth / 8)
}

// WriteWord performs one complete bus write transaction: both
// phases presented in the same cycle, then the response accepted.
func (s *Sim) WriteWord(addr, data uint64) {
	s.Tick(bus.Inputs{
		AWValid: true,
		AWAddr:  addr,
		WValid:  true,
		WData:   data,
		WStrb:   FullStrobe(s.block.AccessWidth),
	})

	// The response credit is released before the next transaction.
	s.Tick(bus.Inputs{BReady: true})
}

// ReadWord performs one complete bus read transaction and returns
// the fetched word.
func (s *Sim) ReadWord(addr uint64) uint64 {
	s.Tick(bus.Inputs{ARValid: true, ARAddr: addr})

	out := s.Tick(bus.Inputs{RReady: true})
	if !out.RValid {
		panic(fmt.Sprintf("ReadWord(%#x): no response after one cycle", addr))
	}

	return out.RData
}
