// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Save encodes the model as a TOML document in the canonical key
// order. A document produced by Save decodes with Load to an equal
// model.
func Save(w io.Writer, m *AddressMap) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid model: %v", err)
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "  "
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %v", err)
	}

	return nil
}
