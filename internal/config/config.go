/*
 * config.go, part of gocrystal.
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

//Package config holds the settings of the gocrystal command, read from
//a YAML file, the environment and an optional config.env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//EnvPrefix is the prefix of the environment variables read by viper.
const EnvPrefix = "GOCRYSTAL"

//Config are the gocrystal settings.
type Config struct {
	BasisDir string `mapstructure:"basis_dir"` //directory with the <El>.basis files
	Template string `mapstructure:"template"`  //YAML calculation template, empty for the default
	//Templates for metallic and non-metallic structures. Empty means Template.
	MetalsTemplate    string `mapstructure:"metals_template"`
	NonmetalsTemplate string `mapstructure:"nonmetals_template"`

	InputDir   string  `mapstructure:"input_dir"`   //where the calculation inputs are written
	InpgenPath string  `mapstructure:"inpgen_path"` //the FLEUR inpgen binary
	MPDSKey    string  `mapstructure:"mpds_key"`
	ResultsDB  string  `mapstructure:"results_db"`
	Symprec    float64 `mapstructure:"symprec"` //Angstrom, for the primitive cell search and the atom mapping
	Strict     bool    `mapstructure:"strict"`
	Verbose    bool    `mapstructure:"verbose"`
}

//SetDefaults registers the default values, and the environment variables
//that are read besides the GOCRYSTAL_ ones.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("basis_dir", "basis_sets")
	v.SetDefault("template", "")
	v.SetDefault("metals_template", "")
	v.SetDefault("nonmetals_template", "")
	v.SetDefault("input_dir", "pcrystal_input")
	v.SetDefault("inpgen_path", "")
	v.SetDefault("mpds_key", "")
	v.SetDefault("results_db", "results.db")
	v.SetDefault("symprec", 1e-5)
	v.SetDefault("strict", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	//the names used by the calculation scripts
	v.BindEnv("basis_dir", EnvPrefix+"_BASIS_DIR", "BASIS_SETS_DIR")
	v.BindEnv("inpgen_path", EnvPrefix+"_INPGEN_PATH", "FLEUR_INPGEN_PATH")
	v.BindEnv("mpds_key", EnvPrefix+"_MPDS_KEY", "MPDS_KEY")
}

//LoadEnv reads the variables in an env file (such as config.env) into the
//environment. Variables already set are not overwritten. A missing file
//is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	return nil
}

//Load decodes the settings from v.
func Load(v *viper.Viper) (*Config, error) {
	C := new(Config)
	if err := v.Unmarshal(C); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if C.Symprec <= 0 {
		return nil, fmt.Errorf("config: symprec must be positive, got %g", C.Symprec)
	}
	return C, nil
}
