/*
 * energies.go, part of gocrystal.
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
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmera/gocrystal/qm"
	"github.com/rmera/gocrystal/results"
)

var energiesCmd = &cobra.Command{
	Use:   "energies [directory]",
	Short: "Collect the energies of finished CRYSTAL calculations",
	Long: `Energies reads the OUTPUT file in each sub-directory of the given directory
(input_dir by default) and prints the total energy, in eV, and the duration
of each calculation. With --store the results are saved to the results
database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.InputDir
		if len(args) > 0 {
			dir = args[0]
		}
		outs, err := qm.ParseTree(dir)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "folder\tEnergy (eV)\tDuration (sec)")
		for _, o := range outs {
			fmt.Fprintf(w, "%s\t%.6f\t%.2f\n", o.Label, o.Energy, o.Duration)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if store, _ := cmd.Flags().GetBool("store"); store {
			db, err := results.Open(cfg.ResultsDB)
			if err != nil {
				return err
			}
			defer db.Close()
			return db.PutAll(cmd.Context(), outs)
		}
		return nil
	},
}

func init() {
	energiesCmd.Flags().Bool("store", false, "save the results to the results database")
	rootCmd.AddCommand(energiesCmd)
}
