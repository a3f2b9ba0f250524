// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/NuQuantum/regblock/model"
)

func init() {
	RegisterCommand("format", "Format a register model to the standard style.", cmdFormat)
}

func cmdFormat(ctx context.Context, w io.Writer, args []string) error {
	flags := flag.NewFlagSet("format", flag.ExitOnError)

	var help, check bool
	var out string
	flags.BoolVar(&help, "h", false, "Show this message and exit.")
	flags.BoolVar(&check, "check", false, "Exit with an error if the input file is not already formatted.")
	flags.StringVar(&out, "out", "", "Path where the formatted output should be written (default: stdout).")

	flags.Usage = func() {
		log.Printf("Usage:\n  %s %s [OPTIONS] [MODEL]\n\n", program, flags.Name())
		flags.PrintDefaults()
		os.Exit(2)
	}

	err := flags.Parse(args)
	if err != nil || help {
		flags.Usage()
	}

	args = flags.Args()
	if len(args) > 1 {
		log.Printf("%s %s can only format one model at a time.", program, flags.Name())
		flags.PrintDefaults()
		os.Exit(1)
	}

	var src []byte
	var filename string
	if len(args) == 0 || args[0] == "-" {
		filename = "stdin"
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", filename, err)
		}
	} else {
		filename = args[0]
		src, err = os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", filename, err)
		}
	}

	m, err := model.Load(bytes.NewReader(src))
	if err != nil {
		return err
	}

	var formatted bytes.Buffer
	if err := model.Save(&formatted, m); err != nil {
		return fmt.Errorf("failed to format %s: %v", filename, err)
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %v", out, err)
		}

		defer f.Close()
		w = f
	}

	if _, err := w.Write(formatted.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %v", filename, err)
	}

	if check && !bytes.Equal(src, formatted.Bytes()) {
		return fmt.Errorf("%s was not formatted correctly", filename)
	}

	return nil
}
