// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package model contains the elaborated register-space model that
// the lowering consumes. The model is produced by an external
// elaborator, which is responsible for rejecting malformed source
// syntax and resolving names and inheritance; this package only
// describes the already-validated tree and checks its basic shape.
//
// All offsets and strides are expressed in access-width words, not
// bytes. Absolute addresses are not part of the model; they are
// assigned during lowering.
package model

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// AddressMap is the root of a register-space model. Exactly one
// AddressMap is consumed per lowering run.
type AddressMap struct {
	Name        string              `toml:"name"`
	AccessWidth int                 `toml:"access-width"`
	AddrWidth   int                 `toml:"addr-width"`
	Types       []*RegisterType     `toml:"register"`
	Instances   []*RegisterInstance `toml:"instance"`
	Groups      []*Collection       `toml:"group"`
}

// Type returns the register type with the given name, or nil if no
// such type is declared.
func (m *AddressMap) Type(name string) *RegisterType {
	for _, t := range m.Types {
		if t.Name == name {
			return t
		}
	}

	return nil
}

// Collection is a named group of register instances, optionally
// replicated as an array with a fixed element stride. Collections
// nest.
type Collection struct {
	Name      string              `toml:"name"`
	Offset    uint64              `toml:"offset"`
	Count     int                 `toml:"count"`
	Stride    uint64              `toml:"stride"`
	Instances []*RegisterInstance `toml:"instance"`
	Groups    []*Collection       `toml:"group"`
}

// IsArray reports whether the collection is replicated.
func (c *Collection) IsArray() bool {
	return c.Count > 1
}

// RegisterType is a register template: a declared bit width and an
// ordered set of fields within it.
type RegisterType struct {
	Name   string   `toml:"name"`
	Width  int      `toml:"width"`
	Fields []*Field `toml:"field"`
}

// RegisterInstance places a RegisterType at an offset within its
// parent, optionally replicated as an array.
type RegisterInstance struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Offset uint64 `toml:"offset"`
	Count  int    `toml:"count"`
	Stride uint64 `toml:"stride"`
}

// IsArray reports whether the instance is replicated.
func (r *RegisterInstance) IsArray() bool {
	return r.Count > 1
}

// Field is a named bit range within a register type, with its own
// access modes and side-effect policies.
type Field struct {
	Name     string      `toml:"name"`
	LSB      int         `toml:"lsb"`
	Width    int         `toml:"width"`
	SW       Access      `toml:"sw"`
	HW       Access      `toml:"hw"`
	OnWrite  WriteEffect `toml:"onwrite"`
	OnRead   ReadEffect  `toml:"onread"`
	Swmod    bool        `toml:"swmod"`
	Swacc    bool        `toml:"swacc"`
	Reset    uint64      `toml:"reset"`
	External bool        `toml:"external"`
}

// MSB returns the most significant bit position of the field within
// its register.
func (f *Field) MSB() int {
	return f.LSB + f.Width - 1
}

// Mask returns the field's bit mask, referenced to bit zero.
func (f *Field) Mask() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << f.Width) - 1
}

// Validate checks the structural shape of the model: that names are
// present, widths are sensible, field ranges fall within their
// register, and every instance's type reference resolves. Lowering
// invariants (subword straddles, address collisions, strides) are
// checked during lowering, where the absolute placement is known.
func (m *AddressMap) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("address map has no name")
	}

	switch {
	case m.AccessWidth <= 0:
		return fmt.Errorf("%s: access width %d is not positive", m.Name, m.AccessWidth)
	case m.AccessWidth > 64:
		return fmt.Errorf("%s: access width %d exceeds 64 bits", m.Name, m.AccessWidth)
	case bits.OnesCount(uint(m.AccessWidth)) != 1:
		return fmt.Errorf("%s: access width %d is not a power of two", m.Name, m.AccessWidth)
	}

	if m.AddrWidth < 0 || m.AddrWidth > 64 {
		return fmt.Errorf("%s: address width %d is out of range", m.Name, m.AddrWidth)
	}

	seen := make(map[string]bool)
	for _, t := range m.Types {
		if t.Name == "" {
			return fmt.Errorf("%s: register type has no name", m.Name)
		}

		if seen[t.Name] {
			return fmt.Errorf("%s: register type %q declared twice", m.Name, t.Name)
		}

		seen[t.Name] = true
		if err := t.validate(); err != nil {
			return err
		}
	}

	if err := m.validateChildren(m.Instances, m.Groups, m.Name); err != nil {
		return err
	}

	return nil
}

func (t *RegisterType) validate() error {
	if t.Width <= 0 {
		return fmt.Errorf("register type %s: width %d is not positive", t.Name, t.Width)
	}

	for _, f := range t.Fields {
		if f.Name == "" {
			return fmt.Errorf("register type %s: field has no name", t.Name)
		}

		if f.Width <= 0 {
			return fmt.Errorf("register type %s: field %s has width %d", t.Name, f.Name, f.Width)
		}

		if f.LSB < 0 || f.MSB() >= t.Width {
			return fmt.Errorf("register type %s: field %s [%d:%d] exceeds register width %d",
				t.Name, f.Name, f.MSB(), f.LSB, t.Width)
		}

		if f.Width < 64 && f.Reset > f.Mask() {
			return fmt.Errorf("register type %s: field %s reset value %#x exceeds %d bits",
				t.Name, f.Name, f.Reset, f.Width)
		}
	}

	return nil
}

func (m *AddressMap) validateChildren(instances []*RegisterInstance, groups []*Collection, where string) error {
	for _, inst := range instances {
		if inst.Name == "" {
			return fmt.Errorf("%s: register instance has no name", where)
		}

		if m.Type(inst.Type) == nil {
			return fmt.Errorf("%s.%s: unknown register type %q", where, inst.Name, inst.Type)
		}

		if inst.Count < 0 {
			return fmt.Errorf("%s.%s: negative array count %d", where, inst.Name, inst.Count)
		}
	}

	for _, g := range groups {
		if g.Name == "" {
			return fmt.Errorf("%s: collection has no name", where)
		}

		if g.Count < 0 {
			return fmt.Errorf("%s.%s: negative array count %d", where, g.Name, g.Count)
		}

		if err := m.validateChildren(g.Instances, g.Groups, where+"."+g.Name); err != nil {
			return err
		}
	}

	return nil
}

// PathElem is one step in a hierarchical instance path. A negative
// index marks a scalar (non-array) element.
type PathElem struct {
	Name  string
	Index int
}

// Path is a hierarchical instance path through the model, from the
// address map down to an instance or field.
type Path []PathElem

// With returns a new path with one element appended. The receiver
// is not modified.
func (p Path) With(name string, index int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = PathElem{Name: name, Index: index}
	return out
}

// Dotted returns the path in the dotted form used by error messages,
// such as "top.blk[2].ctrl".
func (p Path) Dotted() string {
	var buf strings.Builder
	for i, e := range p {
		if i > 0 {
			buf.WriteByte('.')
		}

		buf.WriteString(e.Name)
		if e.Index >= 0 {
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(e.Index))
			buf.WriteByte(']')
		}
	}

	return buf.String()
}

// Signal returns the path in the underscored form used to name
// generated signals, such as "top_blk_2_ctrl".
func (p Path) Signal() string {
	var buf strings.Builder
	for i, e := range p {
		if i > 0 {
			buf.WriteByte('_')
		}

		buf.WriteString(e.Name)
		if e.Index >= 0 {
			buf.WriteByte('_')
			buf.WriteString(strconv.Itoa(e.Index))
		}
	}

	return buf.String()
}
