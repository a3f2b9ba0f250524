// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
)

// Access is a hardware or software access mode for a field.
type Access uint8

const (
	AccessNone Access = iota
	AccessR
	AccessW
	AccessRW
)

// Readable reports whether the access mode includes reads.
func (a Access) Readable() bool {
	return a == AccessR || a == AccessRW
}

// Writable reports whether the access mode includes writes.
func (a Access) Writable() bool {
	return a == AccessW || a == AccessRW
}

func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessR:
		return "r"
	case AccessW:
		return "w"
	case AccessRW:
		return "rw"
	}

	return fmt.Sprintf("Access(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler, so access modes
// can be encoded back into a model file.
func (a Access) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so access
// modes can be decoded directly from the model file.
func (a *Access) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "", "none":
		*a = AccessNone
	case "r":
		*a = AccessR
	case "w":
		*a = AccessW
	case "rw":
		*a = AccessRW
	default:
		return fmt.Errorf("unrecognised access mode %q", s)
	}

	return nil
}

// WriteEffect is a field's software write side-effect policy. The
// policy decides how a bus write combines with the field's current
// value; OnWriteNone is a plain load of the written bits.
type WriteEffect uint8

const (
	OnWriteNone WriteEffect = iota
	Woset                   // write one to set
	Woclr                   // write one to clear
	Wot                     // write one to toggle
	Wzs                     // write zero to set
	Wzc                     // write zero to clear
	Wzt                     // write zero to toggle
	Wclr                    // any write clears
	Wset                    // any write sets
)

func (e WriteEffect) String() string {
	switch e {
	case OnWriteNone:
		return "none"
	case Woset:
		return "woset"
	case Woclr:
		return "woclr"
	case Wot:
		return "wot"
	case Wzs:
		return "wzs"
	case Wzc:
		return "wzc"
	case Wzt:
		return "wzt"
	case Wclr:
		return "wclr"
	case Wset:
		return "wset"
	}

	return fmt.Sprintf("WriteEffect(%d)", uint8(e))
}

// MarshalText implements encoding.TextMarshaler.
func (e WriteEffect) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *WriteEffect) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "", "none":
		*e = OnWriteNone
	case "woset":
		*e = Woset
	case "woclr":
		*e = Woclr
	case "wot":
		*e = Wot
	case "wzs":
		*e = Wzs
	case "wzc":
		*e = Wzc
	case "wzt":
		*e = Wzt
	case "wclr":
		*e = Wclr
	case "wset":
		*e = Wset
	default:
		return fmt.Errorf("unrecognised write effect %q", s)
	}

	return nil
}

// Apply computes the field's next value from its current value and
// the written data. Both values are referenced to bit zero of the
// field; mask selects the bits actually covered by the write (bits
// outside the mask are unchanged for a plain write and inert for
// the conditional effects). This is the single place the write
// policy semantics live.
func (e WriteEffect) Apply(current, data, mask uint64) uint64 {
	switch e {
	case OnWriteNone:
		return (current &^ mask) | (data & mask)
	case Woset:
		return current | (data & mask)
	case Woclr:
		return current &^ (data & mask)
	case Wot:
		return current ^ (data & mask)
	case Wzs:
		return current | (^data & mask)
	case Wzc:
		return current &^ (^data & mask)
	case Wzt:
		return current ^ (^data & mask)
	case Wclr:
		return 0
	case Wset:
		return current | mask
	}

	panic(fmt.Sprintf("WriteEffect(%d).Apply: unexpected effect", uint8(e)))
}

// ReadEffect is a field's software read side-effect policy.
type ReadEffect uint8

const (
	OnReadNone ReadEffect = iota
	Rclr                  // reading clears the field
	Rset                  // reading sets the field
)

func (e ReadEffect) String() string {
	switch e {
	case OnReadNone:
		return "none"
	case Rclr:
		return "rclr"
	case Rset:
		return "rset"
	}

	return fmt.Sprintf("ReadEffect(%d)", uint8(e))
}

// MarshalText implements encoding.TextMarshaler.
func (e ReadEffect) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ReadEffect) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "", "none":
		*e = OnReadNone
	case "rclr":
		*e = Rclr
	case "rset":
		*e = Rset
	default:
		return fmt.Errorf("unrecognised read effect %q", s)
	}

	return nil
}

// Apply computes the field's next value after a software read.
func (e ReadEffect) Apply(current, mask uint64) uint64 {
	switch e {
	case OnReadNone:
		return current
	case Rclr:
		return current &^ mask
	case Rset:
		return current | mask
	}

	panic(fmt.Sprintf("ReadEffect(%d).Apply: unexpected effect", uint8(e)))
}
