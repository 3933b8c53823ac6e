/*
 * archives.go, part of gocrystal.
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

	"github.com/rmera/gocrystal/mpds"
)

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "Download and sort the raw-data archives of MPDS ab initio entries",
	Long: `Archives queries MPDS for the ab initio entries of each supported property,
downloads their 7z raw-data archives and saves each one under
<dir>/<property>/true when it holds the data for the property, or under
<dir>/<property>/false when it does not.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.MPDSKey == "" {
			return fmt.Errorf("no MPDS API key set")
		}
		dir, _ := cmd.Flags().GetString("dir")
		props, _ := cmd.Flags().GetStringSlice("props")
		var folders map[string]string
		if len(props) > 0 {
			folders = make(map[string]string, len(props))
			for _, p := range props {
				f, ok := mpds.PropsFolders[p]
				if !ok {
					return fmt.Errorf("unknown ab initio property %q", p)
				}
				folders[p] = f
			}
		}
		c := mpds.NewClient(cfg.MPDSKey)
		c.DType = mpds.AbInitio
		c.Log = logger()
		counts, err := c.SortArchives(cmd.Context(), dir, folders)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "property\tn_mpds_api\tn_real")
		for _, p := range mpds.AbInitioProps() {
			if n, ok := counts[p]; ok {
				fmt.Fprintf(out, "%s\t%d\t%d\n", p, n.NAPI, n.NReal)
			}
		}
		return nil
	},
}

func init() {
	archivesCmd.Flags().String("dir", "mpds_archives", "directory to sort the archives into")
	archivesCmd.Flags().StringSlice("props", nil, "properties to process (default: all)")
	rootCmd.AddCommand(archivesCmd)
}
