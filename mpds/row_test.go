/*
 * row_test.go, part of gocrystal.
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

package mpds

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crystal "github.com/rmera/gocrystal"
	v3 "github.com/rmera/gocrystal/v3"
)

const copperRows = `[
 ["S1", [1, 1, 1, 1], [3.61, 3.61, 3.61, 90, 90, 90], 225,
  [[0, 0, 0], [0, 0.5, 0.5], [0.5, 0, 0.5], [0.5, 0.5, 0]], ["Cu", "Cu", "Cu", "Cu"]],
 [],
 ["S2", [0.5], null, 229, null, ["Cu"]],
 [1234, [1], [2.55, 2.55, 2.55, 60, 60, 60], 1, [[0, 0, 0]], ["Cu"]]
]`

func TestRowDecode(t *testing.T) {
	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(copperRows), &rows))
	require.Len(t, rows, 4)

	assert.Equal(t, "S1", rows[0].Entry)
	assert.Equal(t, 225, rows[0].SpaceGroup)
	assert.Len(t, rows[0].Basis, 4)
	assert.True(t, rows[1].Empty())
	assert.Nil(t, rows[2].CellABC)
	assert.Equal(t, "1234", rows[3].Entry)

	var bad Row
	assert.Error(t, json.Unmarshal([]byte(`["S1", [1]]`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"entry": "S1"}`), &bad))
}

func TestRowRoundTrip(t *testing.T) {
	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(copperRows), &rows))
	data, err := json.Marshal(rows[0])
	require.NoError(t, err)
	var back Row
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rows[0], back)
}

func TestCellFromABC(t *testing.T) {
	cell, err := CellFromABC([]float64{3, 4, 5, 90, 90, 90})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, v3.Volume(cell), 1e-9)

	//the FCC primitive cell has a quarter of the conventional volume
	fcc, err := CellFromABC([]float64{2.55, 2.55, 2.55, 60, 60, 60})
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(2.55*math.Sqrt2, 3)/4, v3.Volume(fcc), 1e-6)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 2.55, v3.Norm(fcc.Vec(i)), 1e-9)
	}

	_, err = CellFromABC([]float64{3, 4, 5})
	assert.Error(t, err)
	_, err = CellFromABC([]float64{3, 4, 5, 90, 90, 0})
	assert.Error(t, err)
	_, err = CellFromABC([]float64{3, 3, 3, 150, 30, 90})
	assert.Error(t, err)
}

func TestCompileAll(t *testing.T) {
	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(copperRows), &rows))
	rows = append(rows, Row{Entry: "S3", CellABC: []float64{3, 3, 3, 90, 90, 90}, Basis: [][]float64{{0, 0, 0}}, Elements: []string{"Cu", "Cu"}})

	structs, meta, errs := CompileAll(rows)
	require.Len(t, structs, 2)
	require.Len(t, meta, 2)
	assert.Len(t, errs, 1)

	assert.Equal(t, "S1", meta[0].Entry)
	assert.Equal(t, "1234", meta[1].Entry)
	assert.Equal(t, 4, structs[0].Len())
	e, ok := structs[1].Info("entry")
	assert.True(t, ok)
	assert.Equal(t, "1234", e)
	sg, _ := structs[0].Info("sg_n")
	assert.Equal(t, "225", sg)

	cands, err := crystal.Pair(structs, meta)
	require.NoError(t, err)
	sel, ok := crystal.Select(cands)
	require.True(t, ok)
	assert.Equal(t, "1234", sel.Entry)
}

func TestCompileExpands(t *testing.T) {
	var rows []Row
	data := `[
 ["S1", [1], [3.61, 3.61, 3.61, 90, 90, 90], 225, [[0, 0, 0]], ["Cu"]],
 ["S2", [1, 0.5], [5.64, 5.64, 5.64, 90, 90, 90], 225, [[0, 0, 0], [0.5, 0.5, 0.5]], ["Na", "Cl"]],
 ["S3", [1], [3.76, 3.76, 10.6, 90, 90, 120], 166, [[0, 0, 0]], ["Cu"]],
 ["S4", [1], [4.13, 4.13, 4.13, 54.1, 54.1, 54.1], 166, [[0.227, 0.227, 0.227]], ["As"]],
 ["S5", [1], [3.61, 3.61, 3.61, 90, 90, 90], 0, [[0, 0, 0]], ["Cu"]],
 ["S6", [1], [3.61, 3.61, 3.61, 90, 90, 90], 225, [[0, 0, 0]], ["Xx"]]
]`
	require.NoError(t, json.Unmarshal([]byte(data), &rows))

	cu, err := Compile(&rows[0])
	require.NoError(t, err)
	assert.Equal(t, 4, cu.Len())
	assert.InDelta(t, 47.045881, cu.Volume(), 1e-5)
	sg, _ := cu.Info("sg_n")
	assert.Equal(t, "225", sg)

	nacl, err := Compile(&rows[1])
	require.NoError(t, err)
	assert.Equal(t, "Cl4Na4", nacl.Formula())
	assert.Equal(t, 1.0, nacl.Occupancy(0))
	assert.Equal(t, 0.5, nacl.Occupancy(7))

	//hexagonal axes give three lattice points per cell, rhombohedral ones give one
	hex, err := Compile(&rows[2])
	require.NoError(t, err)
	assert.Equal(t, 3, hex.Len())
	rh, err := Compile(&rows[3])
	require.NoError(t, err)
	assert.Equal(t, 2, rh.Len())

	_, err = Compile(&rows[4])
	assert.Error(t, err)
	_, err = Compile(&rows[5])
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(copperRows), &rows))
	dir := t.TempDir()
	for _, name := range []string{"cu.json", "cu.json.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, rows))
		back, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, rows, back, name)
	}
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestAbInitioProps(t *testing.T) {
	props := AbInitioProps()
	assert.Len(t, props, len(PropsFolders))
	assert.Equal(t, "Raman spectra", props[0])
	assert.Equal(t, "TRANSPORT/SEEBECK.DAT", PropsFolders["Seebeck coefficient"])
}
