/*
 * main.go, part of gocrystal.
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

//Command gocrystal picks representative crystal structures from MPDS
//queries, reduces them to their primitive cells, and prepares and
//post-processes CRYSTAL and FLEUR calculations on them.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	crystal "github.com/rmera/gocrystal"
	"github.com/rmera/gocrystal/internal/config"
	"github.com/rmera/gocrystal/mpds"
)

//version is set at build time via ldflags.
var version = "dev"

//cfg holds the settings, loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gocrystal",
	Short: "Structure selection and ab initio input preparation for periodic systems",
	Long: `gocrystal takes the candidate crystal structures returned by an MPDS query,
selects a representative one, reduces it to its primitive cell, and writes
inputs for CRYSTAL or the FLEUR input generator. It also collects the
energies and the errors of finished CRYSTAL calculations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	log.SetPrefix("gocrystal: ")
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gocrystal.yaml or ~/.config/gocrystal/gocrystal.yaml)")
	rootCmd.PersistentFlags().String("env-file", "config.env", "file with environment variables to load")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostics")
	rootCmd.PersistentFlags().Float64("symprec", crystal.DefaultSymprec, "tolerance for the primitive cell search, in Angstrom")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("symprec", rootCmd.PersistentFlags().Lookup("symprec"))
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if err := config.LoadEnv(envFile); err != nil {
		log.Println(err)
	}
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gocrystal")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gocrystal"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

//logger returns the logger for the library diagnostics, which
//are only shown in verbose mode.
func logger() *log.Logger {
	if cfg != nil && cfg.Verbose {
		return log.Default()
	}
	return log.New(io.Discard, "", 0)
}

//candidatesFrom loads and compiles the candidates saved in a file.
func candidatesFrom(path string) ([]crystal.Candidate, error) {
	rows, err := mpds.Load(path)
	if err != nil {
		return nil, err
	}
	structs, meta, errs := mpds.CompileAll(rows)
	for _, e := range errs {
		logger().Println(e)
	}
	return crystal.Pair(structs, meta)
}

//selectFrom loads the candidates saved in a file and selects one.
func selectFrom(path string) (crystal.Selection, error) {
	cands, err := candidatesFrom(path)
	if err != nil {
		return crystal.Selection{}, err
	}
	return pick(cands, path)
}

func pick(cands []crystal.Candidate, path string) (crystal.Selection, error) {
	sel := &crystal.Selector{Log: logger()}
	s, ok := sel.Select(cands)
	if !ok {
		return crystal.Selection{}, fmt.Errorf("no suitable structure among the %d candidates in %s", len(cands), path)
	}
	return s, nil
}

//primitiveFrom selects a structure from the candidates in path and reduces it
//to its primitive cell. If no primitive cell is found, the selected structure
//is returned as it is.
func primitiveFrom(path string) (crystal.Selection, error) {
	s, err := selectFrom(path)
	if err != nil {
		return s, err
	}
	r := &crystal.Reducer{Tolerance: cfg.Symprec, Strict: cfg.Strict}
	p, ok, err := r.Primitive(s.Structure)
	if err != nil {
		return s, fmt.Errorf("entry %s: %w", s.Entry, err)
	}
	if !ok {
		logger().Printf("no primitive cell found for %s, using the structure as it is", s.Entry)
		return s, nil
	}
	s.Structure = p
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
