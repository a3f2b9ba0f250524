// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"

	"github.com/NuQuantum/regblock/lower"
)

// RAL is a register abstraction layer over a simulated block: it
// addresses registers by dotted path, splits wide accesses into
// access-width bus transactions, and keeps a per-field mirror of
// desired values alongside the device state.
type RAL struct {
	sim     *Sim
	desired map[*lower.Field]uint64
}

// NewRAL builds a register abstraction layer over the simulator,
// with every mirrored value at the field's reset value.
func NewRAL(s *Sim) *RAL {
	r := &RAL{
		sim:     s,
		desired: make(map[*lower.Field]uint64),
	}

	for f := range s.values {
		r.desired[f] = f.Reset
	}

	return r
}

func (r *RAL) register(name string) (*lower.Register, error) {
	return r.sim.Register(name)
}

func (r *RAL) field(name, field string) (*lower.Field, error) {
	reg, err := r.register(name)
	if err != nil {
		return nil, err
	}

	for _, f := range reg.Fields {
		if f.Name == field {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no field %s in register %s", field, name)
}

// Write writes data to the named register, one bus transaction per
// subword, lowest address first, and updates the mirror.
func (r *RAL) Write(name string, data uint64) error {
	reg, err := r.register(name)
	if err != nil {
		return err
	}

	aw := r.sim.block.AccessWidth
	mask := widthMask(aw)
	for s := 0; s < reg.Words; s++ {
		r.sim.WriteWord(reg.Base+uint64(s), (data>>(aw*s))&mask)
	}

	return r.Set(name, data)
}

// Update writes the mirrored desired value to the named register.
func (r *RAL) Update(name string) error {
	value, err := r.Get(name)
	if err != nil {
		return err
	}

	return r.Write(name, value)
}

// Read reads the named register from the device, one bus
// transaction per subword, and reassembles the full value.
func (r *RAL) Read(name string) (uint64, error) {
	reg, err := r.register(name)
	if err != nil {
		return 0, err
	}

	aw := r.sim.block.AccessWidth
	var value uint64
	for s := 0; s < reg.Words; s++ {
		word := r.sim.ReadWord(reg.Base + uint64(s))
		value |= word << (aw * s)
	}

	return value, nil
}

// ReadField reads the named field from the device, referenced to
// bit zero: a single bus transaction to the field's subword.
func (r *RAL) ReadField(name, field string) (uint64, error) {
	reg, err := r.register(name)
	if err != nil {
		return 0, err
	}

	f, err := r.field(name, field)
	if err != nil {
		return 0, err
	}

	word := r.sim.ReadWord(reg.Base + uint64(f.Subword))
	return (word >> f.SubLSB) & f.Mask(), nil
}

// Set updates the mirror for the named register, splitting the
// value over its fields by bit range. The device is not accessed.
func (r *RAL) Set(name string, value uint64) error {
	reg, err := r.register(name)
	if err != nil {
		return err
	}

	for _, f := range reg.Fields {
		r.desired[f] = (value >> f.LSB) & f.Mask()
	}

	return nil
}

// Get composes the mirrored value of the named register from its
// fields. The device is not accessed.
func (r *RAL) Get(name string) (uint64, error) {
	reg, err := r.register(name)
	if err != nil {
		return 0, err
	}

	var value uint64
	for _, f := range reg.Fields {
		value |= r.desired[f] << f.LSB
	}

	return value, nil
}

// SetField updates the mirror for one field.
func (r *RAL) SetField(name, field string, value uint64) error {
	f, err := r.field(name, field)
	if err != nil {
		return err
	}

	r.desired[f] = value & f.Mask()
	return nil
}

// GetField returns the mirrored value of one field.
func (r *RAL) GetField(name, field string) (uint64, error) {
	f, err := r.field(name, field)
	if err != nil {
		return 0, err
	}

	return r.desired[f], nil
}

// ResetMirror returns the named register's mirror to its reset
// values. The device is not accessed.
func (r *RAL) ResetMirror(name string) error {
	reg, err := r.register(name)
	if err != nil {
		return err
	}

	for _, f := range reg.Fields {
		r.desired[f] = f.Reset
	}

	return nil
}
