// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/NuQuantum/regblock/lower"
	"github.com/NuQuantum/regblock/model"
)

func init() {
	RegisterCommand("lower", "Lower an elaborated register model to a block description.", cmdLower)
}

func cmdLower(ctx context.Context, w io.Writer, args []string) error {
	flags := flag.NewFlagSet("lower", flag.ExitOnError)

	var help bool
	var debug, table bool
	var outPath string
	flags.BoolVar(&help, "h", false, "Show this message and exit.")
	flags.StringVar(&outPath, "out", "", "The path where the block description should be written (default stdout).")
	flags.BoolVar(&table, "table", false, "Also print the decode and field tables to stderr.")
	flags.BoolVar(&debug, "debug", false, "Dump the lowered block to stderr.")

	flags.Usage = func() {
		log.Printf("Usage:\n  %s %s [OPTIONS] MODEL\n\n", program, flags.Name())
		flags.PrintDefaults()
		os.Exit(2)
	}

	err := flags.Parse(args)
	if err != nil || help {
		flags.Usage()
	}

	args = flags.Args()
	if len(args) != 1 {
		log.Printf("%s %s can only lower one model at a time.", program, flags.Name())
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

	if debug {
		pp.Fprintln(os.Stderr, block)
	}

	if table {
		fmt.Fprint(os.Stderr, block.DecodeTable())
		fmt.Fprint(os.Stderr, block.FieldTable())
	}

	if outPath != "" {
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %v", outPath, err)
		}

		defer out.Close()
		w = out
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(block); err != nil {
		return fmt.Errorf("failed to write block description: %v", err)
	}

	return nil
}
