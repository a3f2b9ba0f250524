// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package bus

// Description is the renderer-facing form of the adapter: the
// write-channel states and transition guards, parameterised by the
// block's address and data widths. The read channel has no named
// states; it is a latched address and a one-deep response register.
type Description struct {
	AddrWidth int
	DataWidth int

	States      []string
	Transitions []Transition
}

// Transition is one guarded state transition of the write channel.
type Transition struct {
	From  string
	To    string
	Guard string
}

// Describe returns the adapter description for the given widths.
func Describe(addrWidth, dataWidth int) *Description {
	return &Description{
		AddrWidth: addrWidth,
		DataWidth: dataWidth,
		States: []string{
			WIdle.String(),
			WWaitData.String(),
			WWaitAddr.String(),
		},
		Transitions: []Transition{
			{From: WIdle.String(), To: WIdle.String(), Guard: "awvalid && wvalid && !bpending"},
			{From: WIdle.String(), To: WWaitData.String(), Guard: "awvalid && !wvalid && !bpending"},
			{From: WIdle.String(), To: WWaitAddr.String(), Guard: "wvalid && !awvalid && !bpending"},
			{From: WWaitData.String(), To: WIdle.String(), Guard: "wvalid"},
			{From: WWaitAddr.String(), To: WIdle.String(), Guard: "awvalid"},
		},
	}
}
