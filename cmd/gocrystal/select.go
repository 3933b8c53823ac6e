/*
 * select.go, part of gocrystal.
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

	"github.com/spf13/cobra"

	crystal "github.com/rmera/gocrystal"
)

var selectCmd = &cobra.Command{
	Use:   "select [candidates file]",
	Short: "Select a representative structure from saved MPDS candidates",
	Long: `Select reads the candidate structures saved by "gocrystal fetch" (JSON,
zstd-compressed if the name ends in .zst) and picks the one with the fewest
atoms whose cell is closest to the median cell, skipping structures with
partially occupied sites. With --same, the other candidates with the
formula and space group of the selected one are listed too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cands, err := candidatesFrom(args[0])
		if err != nil {
			return err
		}
		s, err := pick(cands, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\t%d\t%s\n", s.Entry, s.Index, s.Structure)
		if same, _ := cmd.Flags().GetBool("same"); same {
			entries := []crystal.Entry{cands[s.Index].Summary()}
			for i, c := range cands {
				if i != s.Index {
					entries = append(entries, c.Summary())
				}
			}
			for _, e := range crystal.SameStructures(entries)[1:] {
				fmt.Fprintf(out, "same\t%s\n", e.ID)
			}
		}
		return nil
	},
}

func init() {
	selectCmd.Flags().Bool("same", false, "also list the candidates with the same formula and space group")
	rootCmd.AddCommand(selectCmd)
}
