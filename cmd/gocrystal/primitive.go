/*
 * primitive.go, part of gocrystal.
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

var primitiveCmd = &cobra.Command{
	Use:   "primitive [candidates file]",
	Short: "Select a structure and print its primitive cell",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := primitiveFrom(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := s.Structure
		fmt.Fprintf(out, "%s %s\n", s.Entry, p)
		cell := p.Cell()
		for i := 0; i < 3; i++ {
			v := cell.Vec(i)
			fmt.Fprintf(out, "%12.6f %12.6f %12.6f\n", v[0], v[1], v[2])
		}
		frac := p.Frac()
		for i := 0; i < p.Len(); i++ {
			v := frac.Vec(i)
			fmt.Fprintf(out, "%-2s %10.6f %10.6f %10.6f %5.3f\n", p.Symbol(i), v[0], v[1], v[2], p.Occupancy(i))
		}
		if xyz, _ := cmd.Flags().GetString("xyz"); xyz != "" {
			return crystal.XYZWrite(p, xyz)
		}
		return nil
	},
}

func init() {
	primitiveCmd.Flags().String("xyz", "", "also write the primitive cell to this extended XYZ file")
	rootCmd.AddCommand(primitiveCmd)
}
