// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/NuQuantum/regblock/model"
)

// routeEnables decides, per subword, which enable signals the
// register needs. A write enable exists only if some field in the
// subword accepts software writes; a read enable exists only if
// some field has a read side effect or read strobe to deliver.
// The read data path itself is combinational and does not need an
// enable.
//
// The adapter issues read and write requests as mutually exclusive
// single-cycle pulses, so the two enables are never asserted
// together for the same subword.
func routeEnables(reg *Register) {
	for _, sw := range reg.Subwords {
		for _, f := range sw.Fields {
			if f.Access.SWWritable {
				sw.WriteEnable = true
			}

			if f.needsReadPulse() {
				sw.ReadEnable = true
			}
		}
	}
}

// needsReadPulse reports whether the field requires the subword's
// read enable: either hardware wants a read strobe, or the read
// itself modifies the field.
func (f *Field) needsReadPulse() bool {
	if f.Access.NeedsQRE {
		return true
	}

	return f.Access.SWReadable && f.OnRead != model.OnReadNone
}
