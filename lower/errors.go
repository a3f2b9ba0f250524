// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package lower

import (
	"fmt"

	"github.com/NuQuantum/regblock/model"
)

// PathError is a configuration error, tied to the hierarchical
// instance path of the offending model entity. Configuration errors
// are fatal to the lowering run; no partial output is produced.
type PathError struct {
	Path string
	Msg  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Context returns a copy of the error with additional context
// prepended to its message.
func (e *PathError) Context(msg string) *PathError {
	return &PathError{
		Path: e.Path,
		Msg:  msg + ": " + e.Msg,
	}
}

// errorf produces a configuration error at the given path.
func errorf(path model.Path, format string, v ...any) *PathError {
	return &PathError{
		Path: path.Dotted(),
		Msg:  fmt.Sprintf(format, v...),
	}
}
