/*
 * input.go, part of gocrystal.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	crystal "github.com/rmera/gocrystal"
	"github.com/rmera/gocrystal/qm"
)

var inputCmd = &cobra.Command{
	Use:   "input [candidates file]",
	Short: "Write calculation inputs for the selected primitive structure",
	Long: `Input selects a structure from the candidates file, reduces it to its
primitive cell and writes the inputs for the chosen engine under
input_dir/<label>: fort.34 and INPUT for pcrystal, fleur.inp (and, with
--xml, the inp.xml produced by inpgen) for fleur.`,
	Args: cobra.ExactArgs(1),
	RunE: runInput,
}

func init() {
	inputCmd.Flags().String("engine", "pcrystal", "pcrystal or fleur")
	inputCmd.Flags().String("label", "", "job label (default: <formula>_<entry>)")
	inputCmd.Flags().Bool("xml", false, "run inpgen to produce the FLEUR XML input")
	rootCmd.AddCommand(inputCmd)
}

//templateFor returns the path of the calculation template for A, which
//depends on whether A looks like a metal. Empty means the default template.
func templateFor(A crystal.Atomer) string {
	metal := crystal.GuessMetal(A)
	switch {
	case metal && cfg.MetalsTemplate != "":
		return cfg.MetalsTemplate
	case !metal && cfg.NonmetalsTemplate != "":
		return cfg.NonmetalsTemplate
	}
	return cfg.Template
}

func handle(engine string, A crystal.Atomer) (qm.Handle, error) {
	switch engine {
	case "pcrystal":
		basis, err := qm.LoadBasisSets(cfg.BasisDir)
		if err != nil {
			return nil, err
		}
		var t *qm.Template
		if path := templateFor(A); path != "" {
			if t, err = qm.LoadTemplate(path); err != nil {
				return nil, err
			}
		}
		return qm.NewPcrystal(basis, t), nil
	case "fleur":
		f := qm.NewFleur()
		if cfg.InpgenPath != "" {
			f.SetCommand(cfg.InpgenPath)
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown engine %q", engine)
}

func runInput(cmd *cobra.Command, args []string) error {
	engine, _ := cmd.Flags().GetString("engine")
	label, _ := cmd.Flags().GetString("label")
	xml, _ := cmd.Flags().GetBool("xml")
	s, err := primitiveFrom(args[0])
	if err != nil {
		return err
	}
	h, err := handle(engine, s.Structure)
	if err != nil {
		return err
	}
	if label == "" {
		label = s.Structure.Formula() + "_" + s.Entry
	}
	h.SetName(label)
	f, isFleur := h.(*qm.Fleur)
	//inpgen is only needed to produce the XML
	if !isFleur || xml {
		if err := h.Validate(s.Structure); err != nil {
			return err
		}
	}
	dir := filepath.Join(cfg.InputDir, label)
	if err := h.BuildInput(s.Structure, dir); err != nil {
		return err
	}
	if isFleur && xml {
		x, err := f.Run(context.Background(), dir)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "inp.xml"), []byte(x), 0o644); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
