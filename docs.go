// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/NuQuantum/regblock/html"
	"github.com/NuQuantum/regblock/lower"
	"github.com/NuQuantum/regblock/model"
)

const dirMode = 0777

func mkdir(dir string) error {
	err := os.MkdirAll(dir, dirMode)
	if err != nil {
		return fmt.Errorf("failed to create directory %q: %v", dir, err)
	}

	return nil
}

func init() {
	RegisterCommand("docs", "Generate documentation for a register model.", cmdDocs)
}

func cmdDocs(ctx context.Context, w io.Writer, args []string) error {
	flags := flag.NewFlagSet("docs", flag.ExitOnError)

	var help bool
	var outname string
	flags.BoolVar(&help, "h", false, "Show this message and exit.")
	flags.StringVar(&outname, "out", "", "The path where the documentation should be written.")

	flags.Usage = func() {
		log.Printf("Usage:\n  %s %s [OPTIONS] MODEL\n\n", program, flags.Name())
		flags.PrintDefaults()
		os.Exit(2)
	}

	err := flags.Parse(args)
	if err != nil || help {
		flags.Usage()
	}

	if outname == "" {
		log.Printf("%s %s: -out not specified.", program, flags.Name())
		flags.PrintDefaults()
		os.Exit(1)
	}

	args = flags.Args()
	if len(args) != 1 {
		log.Printf("%s %s can only document one model at a time.", program, flags.Name())
		flags.PrintDefaults()
		os.Exit(1)
	}

	filename := args[0]
	m, err := model.LoadFile(filename)
	if err != nil {
		return err
	}

	block, err := lower.Lower(m)
	if err != nil {
		return fmt.Errorf("failed to lower %s: %v", filename, err)
	}

	// Generate the documentation.
	err = mkdir(outname)
	if err != nil {
		return err
	}

	err = html.GenerateDocs(outname, block)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %v", err)
	}

	return nil
}
