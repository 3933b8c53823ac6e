/*
 * errors.go, part of gocrystal.
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
	"sort"

	"github.com/spf13/cobra"

	"github.com/rmera/gocrystal/qm"
)

var errorsCmd = &cobra.Command{
	Use:   "errors [directory]",
	Short: "Group failed CRYSTAL calculations by error message",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.InputDir
		if len(args) > 0 {
			dir = args[0]
		}
		errs, err := qm.CollectErrors(dir)
		if err != nil {
			return err
		}
		msgs := make([]string, 0, len(errs))
		for k := range errs {
			msgs = append(msgs, k)
		}
		sort.Strings(msgs)
		out := cmd.OutOrStdout()
		for _, m := range msgs {
			fmt.Fprintf(out, "Error: %s\n", m)
			fmt.Fprintln(out, "Structure (chemical formula):")
			for _, s := range errs[m] {
				fmt.Fprintf(out, "  - %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(errorsCmd)
}
