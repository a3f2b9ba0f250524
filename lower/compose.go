// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

// composeRead derives each subword's read-data layout: the mask of
// bit positions driven by software-readable fields. When the
// subword's address is selected, each readable field's value is
// placed at its subword bit range and every position outside the
// mask reads as zero. Addresses with no decode entry do not reach
// this layout at all; their read value is undefined, which is
// distinct from a legitimate all-zero read.
func composeRead(reg *Register) {
	for _, sw := range reg.Subwords {
		for _, f := range sw.Fields {
			if !f.Access.SWReadable {
				continue
			}

			sw.ReadMask |= f.Mask() << f.SubLSB
		}
	}
}
