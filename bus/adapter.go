// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package bus bridges a split-phase read/write bus handshake onto
// the single-cycle enable interface the register file consumes.
// Address and data phases of a write may arrive on independent
// cycles in either order; reads are accepted immediately and answer
// one cycle later. The adapter owns the only handshake state in the
// core: everything downstream of it is a combinational function of
// its outputs.
package bus

import (
	"fmt"
)

// Backend is the single-cycle register interface the adapter
// drives. Write is a one-cycle write pulse with the full bus word
// and its strobe; Read is the combinational fetch for the given
// address, with ok false on a decode miss. The adapter calls at
// most one of the two per tick.
type Backend interface {
	Write(addr, data, strb uint64)
	Read(addr uint64) (data uint64, ok bool)
}

// Inputs is the bus-side input sample for one tick.
type Inputs struct {
	AWValid bool
	AWAddr  uint64
	WValid  bool
	WData   uint64
	WStrb   uint64
	BReady  bool

	ARValid bool
	ARAddr  uint64
	RReady  bool
}

// Outputs is the bus-side output for the same tick. Status is
// always success at the bus level; decode misses are internal to
// the register file.
type Outputs struct {
	AWReady bool
	WReady  bool
	BValid  bool

	ARReady bool
	RValid  bool
	RData   uint64
}

// WriteState is the adapter's write-channel state.
type WriteState uint8

const (
	// WIdle accepts both write phases.
	WIdle WriteState = iota

	// WWaitData holds a latched address until the data phase
	// arrives.
	WWaitData

	// WWaitAddr holds latched data until the address phase
	// arrives.
	WWaitAddr
)

func (s WriteState) String() string {
	switch s {
	case WIdle:
		return "W_IDLE"
	case WWaitData:
		return "W_WAIT_DATA"
	case WWaitAddr:
		return "W_WAIT_ADDR"
	}

	return fmt.Sprintf("WriteState(%d)", uint8(s))
}

// Adapter is the executable form of the protocol adapter. One call
// to Tick is one clock cycle: inputs are sampled, at most one
// enable pulse is delivered to the backend, and the next state
// commits before Tick returns.
type Adapter struct {
	addrMask uint64
	dataMask uint64

	state WriteState
	wAddr uint64
	wData uint64
	wStrb uint64

	// bPending is the single write-response credit. While held,
	// no new write phase is accepted.
	bPending bool

	// arPending marks a latched, not yet fetched read address. A
	// new read address overwrites it; there is no request-side
	// back-pressure on reads.
	arPending bool
	arAddr    uint64

	// The one-deep read response register. It only ever holds the
	// most recently completed fetch.
	rValid bool
	rData  uint64
}

// New returns an adapter for the given address and data widths, in
// its reset state.
func New(addrWidth, dataWidth int) *Adapter {
	return &Adapter{
		addrMask: widthMask(addrWidth),
		dataMask: widthMask(dataWidth),
	}
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}

// Reset returns the adapter to its initial state: idle on both
// channels, no response pending.
func (a *Adapter) Reset() {
	a.state = WIdle
	a.bPending = false
	a.arPending = false
	a.rValid = false
	a.rData = 0
}

// State returns the current write-channel state.
func (a *Adapter) State() WriteState {
	return a.state
}

// Tick advances the adapter by one clock cycle. The returned
// outputs are the bus-side signals for this cycle; valid response
// flags reflect state registered on earlier cycles and are held
// until the requester accepts them.
func (a *Adapter) Tick(in Inputs, reg Backend) Outputs {
	out := Outputs{
		BValid:  a.bPending,
		RValid:  a.rValid,
		RData:   a.rData,
		ARReady: true,
	}

	// Response acceptance is observed before anything completed
	// this cycle overwrites the response registers.
	bAccepted := a.bPending && in.BReady
	rAccepted := a.rValid && in.RReady

	// Write channel.
	wrote := false
	switch {
	case a.bPending:
		// Credit held: neither write phase is accepted.
	case a.state == WIdle:
		out.AWReady = true
		out.WReady = true
		switch {
		case in.AWValid && in.WValid:
			reg.Write(in.AWAddr&a.addrMask, in.WData&a.dataMask, in.WStrb)
			wrote = true
			a.bPending = true
		case in.AWValid:
			a.wAddr = in.AWAddr & a.addrMask
			a.state = WWaitData
		case in.WValid:
			a.wData = in.WData & a.dataMask
			a.wStrb = in.WStrb
			a.state = WWaitAddr
		}
	case a.state == WWaitData:
		out.WReady = true
		if in.WValid {
			reg.Write(a.wAddr, in.WData&a.dataMask, in.WStrb)
			wrote = true
			a.bPending = true
			a.state = WIdle
		}
	case a.state == WWaitAddr:
		out.AWReady = true
		if in.AWValid {
			reg.Write(in.AWAddr&a.addrMask, a.wData, a.wStrb)
			wrote = true
			a.bPending = true
			a.state = WIdle
		}
	}

	// Read channel. The address is latched unconditionally; the
	// fetch waits for a cycle without a write pulse so the two
	// enables stay mutually exclusive.
	if in.ARValid {
		a.arAddr = in.ARAddr & a.addrMask
		a.arPending = true
	}

	fetched := false
	if a.arPending && !wrote {
		data, ok := reg.Read(a.arAddr)
		if !ok {
			data = Undefined(a.dataMask)
		}

		a.arPending = false
		a.rData = data & a.dataMask
		a.rValid = true
		fetched = true
	}

	// A completion cannot coincide with an acceptance: the credit
	// blocks new write phases until it is released.
	if bAccepted && !wrote {
		a.bPending = false
	}

	if rAccepted && !fetched {
		a.rValid = false
	}

	return out
}

// Undefined is the read value presented for an address with no
// decode entry: an alternating bit pattern, deliberately distinct
// from a legitimate all-zero read. mask selects the bus data width.
func Undefined(mask uint64) uint64 {
	const pattern = 0xAAAAAAAAAAAAAAAA
	return pattern & mask
}
