// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

import (
	"math/bits"

	"github.com/NuQuantum/regblock/bus"
	"github.com/NuQuantum/regblock/model"
)

// Lower flattens the elaborated model into a register block
// description. It walks the collection tree depth first in
// declaration order, assigns every register instance an absolute
// base address, splits registers into subwords, classifies fields,
// builds the dense decode table, and derives the enable routing and
// read composition. Lowering either succeeds completely or fails
// with a configuration error naming the offending path; no partial
// output is produced.
func Lower(m *model.AddressMap) (*Block, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	l := &lowerer{m: m, aw: uint(m.AccessWidth)}
	root := model.Path{}.With(m.Name, -1)

	regs, err := l.lowerChildren(m.Instances, m.Groups, 0, root)
	if err != nil {
		return nil, err
	}

	entries, err := buildEntries(regs)
	if err != nil {
		return nil, err
	}

	for _, reg := range regs {
		routeEnables(reg)
		composeRead(reg)
	}

	addrWidth, err := deriveAddrWidth(m, root, entries)
	if err != nil {
		return nil, err
	}

	return &Block{
		Name:        m.Name,
		AccessWidth: m.AccessWidth,
		AddrWidth:   addrWidth,
		Registers:   regs,
		Entries:     entries,
		Adapter:     bus.Describe(addrWidth, m.AccessWidth),
	}, nil
}

type lowerer struct {
	m  *model.AddressMap
	aw uint
}

// lowerChildren lowers the instances and nested collections of one
// level of the tree: instances in declaration order first, then
// collections in declaration order.
func (l *lowerer) lowerChildren(instances []*model.RegisterInstance, groups []*model.Collection, base uint64, path model.Path) ([]*Register, error) {
	var regs []*Register
	for _, inst := range instances {
		lowered, err := l.lowerInstance(inst, base, path)
		if err != nil {
			return nil, err
		}

		regs = append(regs, lowered...)
	}

	for _, g := range groups {
		lowered, err := l.lowerCollection(g, base, path)
		if err != nil {
			return nil, err
		}

		regs = append(regs, lowered...)
	}

	return regs, nil
}

// lowerInstance lowers one register instance declaration into one
// flattened register per array element, index 0 at the lowest
// address.
func (l *lowerer) lowerInstance(inst *model.RegisterInstance, base uint64, path model.Path) ([]*Register, error) {
	t := l.m.Type(inst.Type)

	stride := inst.Stride
	if t.Width%int(l.aw) == 0 {
		words := uint64(t.Width / int(l.aw))
		if stride == 0 {
			stride = words
		}

		if inst.IsArray() && stride < words {
			return nil, errorf(path.With(inst.Name, -1),
				"array stride %d is smaller than the register size %d", stride, words)
		}
	}

	count := inst.Count
	if count < 1 {
		count = 1
	}

	regs := make([]*Register, 0, count)
	for i := 0; i < count; i++ {
		index := -1
		if inst.IsArray() {
			index = i
		}

		elemBase := base + inst.Offset + uint64(i)*stride
		reg, err := splitRegister(t, l.aw, path.With(inst.Name, index), elemBase)
		if err != nil {
			return nil, err
		}

		regs = append(regs, reg)
	}

	return regs, nil
}

// lowerCollection lowers one collection declaration, recursing into
// each array element.
func (l *lowerer) lowerCollection(c *model.Collection, base uint64, path model.Path) ([]*Register, error) {
	span := l.collectionSpan(c)

	stride := c.Stride
	if stride == 0 {
		stride = span
	}

	if c.IsArray() && stride < span {
		return nil, errorf(path.With(c.Name, -1),
			"array stride %d is smaller than the element size %d", stride, span)
	}

	count := c.Count
	if count < 1 {
		count = 1
	}

	var regs []*Register
	for i := 0; i < count; i++ {
		index := -1
		if c.IsArray() {
			index = i
		}

		elemBase := base + c.Offset + uint64(i)*stride
		lowered, err := l.lowerChildren(c.Instances, c.Groups, elemBase, path.With(c.Name, index))
		if err != nil {
			return nil, err
		}

		regs = append(regs, lowered...)
	}

	return regs, nil
}

// collectionSpan returns the number of words one element of the
// collection covers, from the element base to the end of its
// furthest child.
func (l *lowerer) collectionSpan(c *model.Collection) uint64 {
	var span uint64
	for _, inst := range c.Instances {
		if end := inst.Offset + l.instanceExtent(inst); end > span {
			span = end
		}
	}

	for _, g := range c.Groups {
		elem := l.collectionSpan(g)
		stride := g.Stride
		if stride == 0 {
			stride = elem
		}

		extent := elem
		if g.IsArray() {
			extent = uint64(g.Count-1)*stride + elem
		}

		if end := g.Offset + extent; end > span {
			span = end
		}
	}

	return span
}

// instanceExtent returns the number of words an instance
// declaration covers, including all its array elements. Registers
// whose width is not an access-width multiple are sized by rounding
// up; the splitter rejects them before the extent matters.
func (l *lowerer) instanceExtent(inst *model.RegisterInstance) uint64 {
	t := l.m.Type(inst.Type)
	words := uint64((t.Width + int(l.aw) - 1) / int(l.aw))

	stride := inst.Stride
	if stride == 0 {
		stride = words
	}

	if inst.IsArray() {
		return uint64(inst.Count-1)*stride + words
	}

	return words
}

// buildEntries folds the flattened registers into the global decode
// table, assigning each subword a dense zero-based index in
// traversal order. Two subwords landing on the same address is a
// configuration error naming both paths.
func buildEntries(regs []*Register) ([]*DecodeEntry, error) {
	var entries []*DecodeEntry
	seen := make(map[uint64]*DecodeEntry)
	for _, reg := range regs {
		for _, sw := range reg.Subwords {
			if prev, ok := seen[sw.Addr]; ok {
				return nil, errorf(reg.Path,
					"word %d at address %#x collides with %s word %d",
					sw.Index, sw.Addr, prev.Register.Path.Dotted(), prev.Word)
			}

			entry := &DecodeEntry{
				Index:        len(entries),
				Addr:         sw.Addr,
				RegisterPath: reg.Path.Signal(),
				Word:         sw.Index,
				Register:     reg,
				Subword:      sw,
			}

			seen[sw.Addr] = entry
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// deriveAddrWidth returns the block's address width: the declared
// width when the model carries one (checking every decode address
// fits), otherwise the smallest width covering the highest assigned
// address.
func deriveAddrWidth(m *model.AddressMap, root model.Path, entries []*DecodeEntry) (int, error) {
	var max uint64
	for _, e := range entries {
		if e.Addr > max {
			max = e.Addr
		}
	}

	if m.AddrWidth > 0 {
		if m.AddrWidth < 64 && max >= uint64(1)<<m.AddrWidth {
			return 0, errorf(root,
				"address %#x does not fit the declared %d-bit address width", max, m.AddrWidth)
		}

		return m.AddrWidth, nil
	}

	width := bits.Len64(max)
	if width == 0 {
		width = 1
	}

	return width, nil
}
