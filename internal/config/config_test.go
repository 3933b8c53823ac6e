/*
 * config_test.go, part of gocrystal.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "basis_sets", c.BasisDir)
	assert.Equal(t, 1e-5, c.Symprec)
	assert.False(t, c.Strict)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gocrystal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("basis_dir: /opt/basis\nsymprec: 0.001\nstrict: true\nmetals_template: metals.yml\n"), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/opt/basis", c.BasisDir)
	assert.Equal(t, 0.001, c.Symprec)
	assert.True(t, c.Strict)
	assert.Equal(t, "metals.yml", c.MetalsTemplate)
	assert.Empty(t, c.NonmetalsTemplate)
}

func TestEnv(t *testing.T) {
	t.Setenv("GOCRYSTAL_RESULTS_DB", "/tmp/r.db")
	t.Setenv("FLEUR_INPGEN_PATH", "/opt/fleur/inpgen")
	v := viper.New()
	SetDefaults(v)
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/r.db", c.ResultsDB)
	assert.Equal(t, "/opt/fleur/inpgen", c.InpgenPath)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("MPDS_KEY=abc123\n"), 0o644))
	t.Setenv("MPDS_KEY", "")
	os.Unsetenv("MPDS_KEY")

	require.NoError(t, LoadEnv(path))
	v := viper.New()
	SetDefaults(v)
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "abc123", c.MPDSKey)

	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("symprec", 0)
	_, err := Load(v)
	assert.Error(t, err)
	v.Set("symprec", -1e-5)
	_, err = Load(v)
	assert.Error(t, err)
}
