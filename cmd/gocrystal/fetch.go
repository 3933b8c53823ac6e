/*
 * fetch.go, part of gocrystal.
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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmera/gocrystal/mpds"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [element]",
	Short: "Download candidate structures from MPDS",
	Long: `Fetch queries the MPDS API for the structures of an element (by default, the
cubic unary compounds) and saves the rows to a file, zstd-compressed if its
name ends in .zst. The API key is read from mpds_key, GOCRYSTAL_MPDS_KEY
or MPDS_KEY.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.MPDSKey == "" {
			return fmt.Errorf("no MPDS API key set")
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = args[0] + ".json.zst"
		}
		q := mpds.DefaultQuery(args[0])
		if raw, _ := cmd.Flags().GetString("query"); raw != "" {
			q = mpds.Query{}
			if err := json.Unmarshal([]byte(raw), &q); err != nil {
				return fmt.Errorf("parsing query: %w", err)
			}
		}
		c := mpds.NewClient(cfg.MPDSKey)
		c.Log = logger()
		rows, err := c.FetchRows(cmd.Context(), q)
		if err != nil {
			return err
		}
		if err := mpds.Save(out, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows saved to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringP("out", "o", "", "output file (default: <element>.json.zst)")
	fetchCmd.Flags().String("query", "", "custom MPDS query, as JSON")
	rootCmd.AddCommand(fetchCmd)
}
