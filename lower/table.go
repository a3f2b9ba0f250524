// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

import (
	"fmt"
	"strings"
)

// DecodeTable renders the decode table as text, one line per entry
// in dense index order. The table is a debugging and test aid; the
// rendering collaborator consumes the structured entries directly.
func (b *Block) DecodeTable() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "# %s: %d-bit data, %d-bit address\n", b.Name, b.AccessWidth, b.AddrWidth)
	for _, e := range b.Entries {
		we, re := "-", "-"
		if e.Subword.WriteEnable {
			we = "w"
		}

		if e.Subword.ReadEnable {
			re = "r"
		}

		fmt.Fprintf(&buf, "%3d  %#04x  %s%s  word %d/%d  mask %#x\n",
			e.Index, e.Addr, we, re, e.Word, e.Register.Words, e.Subword.ReadMask)
	}

	return buf.String()
}

// FieldTable renders every lowered field with its classification,
// one line per field in traversal order.
func (b *Block) FieldTable() string {
	var buf strings.Builder
	for _, reg := range b.Registers {
		for _, f := range reg.Fields {
			var flags []string
			if f.Access.SWReadable {
				flags = append(flags, "sw-r")
			}

			if f.Access.SWWritable {
				flags = append(flags, "sw-w")
			}

			if f.Access.HWReadable {
				flags = append(flags, "hw-r")
			}

			if f.Access.HWWritable {
				flags = append(flags, "hw-w")
			}

			if f.Access.NeedsQE {
				flags = append(flags, "qe")
			}

			if f.Access.NeedsQRE {
				flags = append(flags, "qre")
			}

			fmt.Fprintf(&buf, "%s [%d:%d] word %d sub [%d:%d] reset %#x %s %s\n",
				f.Path.Signal(), f.MSB(), f.LSB, f.Subword,
				f.SubLSB+f.Width-1, f.SubLSB, f.Reset, f.Impl, strings.Join(flags, ","))
		}
	}

	return buf.String()
}
