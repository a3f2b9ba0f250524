// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

import (
	"sort"

	"github.com/NuQuantum/regblock/model"
)

// splitRegister expands one flattened register instance of the
// given type into its subwords, partitioning the type's fields by
// the subword their bit range falls in. The register width must be
// a positive multiple of the access width, fields must not overlap
// one another, and no field may straddle a subword boundary.
func splitRegister(t *model.RegisterType, accessWidth uint, path model.Path, base uint64) (*Register, error) {
	if t.Width%int(accessWidth) != 0 {
		return nil, errorf(path, "register width %d is not a multiple of the access width %d", t.Width, accessWidth)
	}

	words := t.Width / int(accessWidth)
	reg := &Register{
		Path:     path,
		TypeName: t.Name,
		Width:    t.Width,
		Words:    words,
		Wide:     words > 1,
		Base:     base,
		Subwords: make([]*Subword, words),
	}

	for s := 0; s < words; s++ {
		reg.Subwords[s] = &Subword{
			Index: s,
			Addr:  base + uint64(s),
		}
	}

	// Check fields for overlap in bit order. The model keeps
	// fields in declaration order, so sort a copy.
	ordered := make([]*model.Field, len(t.Fields))
	copy(ordered, t.Fields)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LSB < ordered[j].LSB
	})

	for i := 1; i < len(ordered); i++ {
		prev, next := ordered[i-1], ordered[i]
		if next.LSB <= prev.MSB() {
			return nil, errorf(path, "fields %s [%d:%d] and %s [%d:%d] overlap",
				prev.Name, prev.MSB(), prev.LSB, next.Name, next.MSB(), next.LSB)
		}
	}

	// Lower the fields in declaration order, assigning each to its
	// subword.
	for _, f := range t.Fields {
		word := f.LSB / int(accessWidth)
		if f.MSB()/int(accessWidth) != word {
			return nil, errorf(path.With(f.Name, -1),
				"field [%d:%d] straddles the %d-bit access boundary at bit %d",
				f.MSB(), f.LSB, accessWidth, (word+1)*int(accessWidth))
		}

		lowered := classify(f, path.With(f.Name, -1), word, f.LSB-word*int(accessWidth))
		reg.Fields = append(reg.Fields, lowered)
		reg.Subwords[word].Fields = append(reg.Subwords[word].Fields, lowered)
	}

	return reg, nil
}
