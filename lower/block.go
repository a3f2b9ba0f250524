// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package lower flattens an elaborated register-space model into a
// bus-word-aligned register block description: registers split into
// access-width subwords, fields classified by access and side
// effect, a dense address decode table, enable and write-data
// routing, and the read-data composition. The result is handed to a
// rendering collaborator verbatim; no output text is produced here.
package lower

import (
	"github.com/NuQuantum/regblock/bus"
	"github.com/NuQuantum/regblock/model"
)

// Block is the lowered form of one address map. It is a pure
// function of the input model: identical models lower to identical
// blocks, with registers in depth-first declaration order, array
// index ascending, subword index ascending.
type Block struct {
	Name        string
	AccessWidth int
	AddrWidth   int
	Registers   []*Register
	Entries     []*DecodeEntry
	Adapter     *bus.Description
}

// Register is one flattened register instance: a single array
// element of a RegisterInstance, placed at an absolute base address.
type Register struct {
	Path     model.Path
	TypeName string
	Width    int
	Words    int
	Wide     bool
	Base     uint64
	Subwords []*Subword
	Fields   []*Field
}

// Subword is one access-width-sized addressable slice of a
// register. Its absolute address is the register base plus the
// subword index, in access-width words.
type Subword struct {
	Index int
	Addr  uint64

	// Fields holds the fields whose bit range falls within this
	// subword. A field never straddles two subwords.
	Fields []*Field `json:"-"`

	// WriteEnable and ReadEnable report whether the subword needs
	// the corresponding enable signal: each is present only if at
	// least one field in the subword requires it, so no dangling
	// logic is generated.
	WriteEnable bool
	ReadEnable  bool

	// ReadMask covers the bits driven by software-readable fields
	// when this subword is read. Bits outside the mask read as
	// zero.
	ReadMask uint64
}

// FieldImpl distinguishes how a field's value is backed.
type FieldImpl uint8

const (
	// FlopBacked fields own their storage inside the register
	// block.
	FlopBacked FieldImpl = iota

	// ExternallyBacked fields are implemented outside the block;
	// the block only routes enables and data to them.
	ExternallyBacked
)

func (i FieldImpl) String() string {
	switch i {
	case FlopBacked:
		return "flop"
	case ExternallyBacked:
		return "external"
	}

	return "FieldImpl(?)"
}

// FieldAccess is the derived access classification of a field.
type FieldAccess struct {
	SWReadable bool
	SWWritable bool
	HWReadable bool
	HWWritable bool

	// NeedsQE requests a one-cycle "written by software" strobe to
	// hardware, coincident with the write enable.
	NeedsQE bool

	// NeedsQRE requests a one-cycle "read by software" strobe to
	// hardware.
	NeedsQRE bool
}

// Field is a lowered field: its position within register and
// subword, its classification, and its side-effect policies.
type Field struct {
	Name  string
	Path  model.Path
	LSB   int
	Width int

	// Subword is the index of the subword the field falls in;
	// SubLSB is the field's bit offset within that subword. The
	// field's write-data slice on the bus is
	// [SubLSB, SubLSB+Width).
	Subword int
	SubLSB  int

	Reset   uint64
	OnWrite model.WriteEffect
	OnRead  model.ReadEffect
	Swmod   bool
	Swacc   bool
	Access  FieldAccess
	Impl    FieldImpl
}

// MSB returns the field's most significant bit within its register.
func (f *Field) MSB() int {
	return f.LSB + f.Width - 1
}

// Mask returns the field's bit mask referenced to bit zero.
func (f *Field) Mask() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << f.Width) - 1
}

// DecodeEntry maps one absolute bus address to the subword it
// selects. Entries carry a dense zero-based index, assigned in
// traversal order, which sizes the enable selector vectors. The
// write enable for entry i is (bus address == Addr) && write
// request; the read enable is (bus address == Addr) && read
// request.
type DecodeEntry struct {
	Index int
	Addr  uint64

	// RegisterPath and Word identify the selected subword for the
	// renderer.
	RegisterPath string
	Word         int

	Register *Register `json:"-"`
	Subword  *Subword  `json:"-"`
}

// FindEntry returns the decode entry for the given absolute
// address, or nil if no entry matches. A miss is not an error: the
// generated logic ignores writes to unmapped addresses and returns
// an undefined value for reads.
func (b *Block) FindEntry(addr uint64) *DecodeEntry {
	for _, e := range b.Entries {
		if e.Addr == addr {
			return e
		}
	}

	return nil
}
