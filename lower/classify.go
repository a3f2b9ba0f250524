// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/NuQuantum/regblock/model"
)

// classify derives a field's access classification from its
// declared modes and side-effect policies. A field with no software
// access on a given side simply produces no signals on that side,
// so the routing never generates dangling logic for it.
func classify(f *model.Field, path model.Path, word, subLSB int) *Field {
	access := FieldAccess{
		SWReadable: f.SW.Readable(),
		SWWritable: f.SW.Writable(),
		HWReadable: f.HW.Readable(),
		HWWritable: f.HW.Writable(),
	}

	// Hardware is told about software writes when it asked for an
	// access or modify strobe, and about software reads when an
	// access strobe was requested or the read itself has a side
	// effect worth observing.
	access.NeedsQE = access.SWWritable && (f.Swacc || f.Swmod)
	access.NeedsQRE = access.SWReadable && (f.Swacc || (f.Swmod && f.OnRead != model.OnReadNone))

	impl := FlopBacked
	if f.External {
		impl = ExternallyBacked
	}

	return &Field{
		Name:    f.Name,
		Path:    path,
		LSB:     f.LSB,
		Width:   f.Width,
		Subword: word,
		SubLSB:  subLSB,
		Reset:   f.Reset,
		OnWrite: f.OnWrite,
		OnRead:  f.OnRead,
		Swmod:   f.Swmod,
		Swacc:   f.Swacc,
		Access:  access,
		Impl:    impl,
	}
}
