// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Load decodes an elaborated model from TOML and validates its
// shape. The TOML document is the serialised output of the external
// elaborator; no specification-language text is parsed here.
func Load(r io.Reader) (*AddressMap, error) {
	var m AddressMap
	meta, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model: %v", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("failed to decode model: unrecognised key %q", undecoded[0].String())
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %v", err)
	}

	return &m, nil
}

// LoadFile decodes and validates the elaborated model stored in the
// named file.
func LoadFile(filename string) (*AddressMap, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", filename, err)
	}

	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}

	return m, nil
}
