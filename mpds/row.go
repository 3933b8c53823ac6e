/*
 * row.go, part of gocrystal.
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
	"fmt"
	"math"
	"strconv"

	crystal "github.com/rmera/gocrystal"
	v3 "github.com/rmera/gocrystal/v3"
)

//Fields are the structure fields requested from MPDS, in the order
//they appear in a Row tuple.
var Fields = []string{"entry", "occs_noneq", "cell_abc", "sg_n", "basis_noneq", "els_noneq"}

//Row is one crystal structure record from MPDS. On the wire it is the tuple
//[entry, occs_noneq, cell_abc, sg_n, basis_noneq, els_noneq].
type Row struct {
	Entry      string
	Occs       []float64
	CellABC    []float64 //a, b, c in Angstrom, alpha, beta, gamma in degrees
	SpaceGroup int
	Basis      [][]float64 //fractional coordinates of the sites
	Elements   []string
}

//Empty returns true if the row holds no data at all.
func (R *Row) Empty() bool {
	return R.Entry == "" && len(R.Occs) == 0 && len(R.CellABC) == 0 && len(R.Basis) == 0 && len(R.Elements) == 0
}

//Meta returns the part of the row the structure selector needs.
func (R *Row) Meta() crystal.Row {
	return crystal.Row{Entry: R.Entry, Occupancies: append([]float64(nil), R.Occs...)}
}

//MarshalJSON encodes the row as an MPDS tuple.
func (R Row) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{R.Entry, R.Occs, R.CellABC, R.SpaceGroup, R.Basis, R.Elements})
}

//UnmarshalJSON decodes a row from an MPDS tuple. An empty array is an empty row.
//Null fields are left empty.
func (R *Row) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("mpds: row is not an array: %w", err)
	}
	*R = Row{}
	if len(raw) == 0 {
		return nil
	}
	if len(raw) != len(Fields) {
		return fmt.Errorf("mpds: row has %d fields, %d expected", len(raw), len(Fields))
	}
	var err error
	if R.Entry, err = decodeEntry(raw[0]); err != nil {
		return err
	}
	targets := []interface{}{&R.Occs, &R.CellABC, &R.SpaceGroup, &R.Basis, &R.Elements}
	for i, t := range targets {
		if err := json.Unmarshal(raw[i+1], t); err != nil {
			return fmt.Errorf("mpds: field %s: %w", Fields[i+1], err)
		}
	}
	return nil
}

//the entry is a string, but we accept numbers too.
func decodeEntry(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", fmt.Errorf("mpds: field entry: %w", err)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

//CellFromABC returns the lattice vectors, one per row, for the cell
//parameters a, b, c (Angstrom) and alpha, beta, gamma (degrees).
//The first vector lies along x and the second in the xy plane.
func CellFromABC(abc []float64) (*v3.Matrix, error) {
	if len(abc) != 6 {
		return nil, fmt.Errorf("mpds: %d cell parameters, 6 expected", len(abc))
	}
	a, b, c := abc[0], abc[1], abc[2]
	rad := math.Pi / 180
	ca, cb, cg := math.Cos(abc[3]*rad), math.Cos(abc[4]*rad), math.Cos(abc[5]*rad)
	sg := math.Sin(abc[5] * rad)
	if a <= 0 || b <= 0 || c <= 0 || math.Abs(sg) < 1e-10 {
		return nil, fmt.Errorf("mpds: invalid cell parameters %v", abc)
	}
	cy := (ca - cb*cg) / sg
	cz2 := 1 - cb*cb - cy*cy
	if cz2 <= 0 {
		return nil, fmt.Errorf("mpds: cell angles %v don't make a cell", abc[3:])
	}
	cell := v3.CellFromVecs(
		[3]float64{a, 0, 0},
		[3]float64{b * cg, b * sg, 0},
		[3]float64{c * cb, c * cy, c * math.Sqrt(cz2)},
	)
	return cell, nil
}

//Compile builds a structure from the row. The symmetry-independent sites in
//the basis are expanded with the operations of the space group sg_n, in its
//standard setting. Rhombohedral groups are taken in hexagonal axes unless
//gamma is not 120 degrees. A row that carries no cell or no basis gives a nil
//structure and a nil error. The structure metadata has the entry and the space
//group number.
func Compile(R *Row) (*crystal.Structure, error) {
	if len(R.CellABC) == 0 || len(R.Basis) == 0 {
		return nil, nil
	}
	if len(R.Basis) != len(R.Elements) {
		return nil, fmt.Errorf("mpds: entry %s: %d sites but %d elements", R.Entry, len(R.Basis), len(R.Elements))
	}
	cell, err := CellFromABC(R.CellABC)
	if err != nil {
		return nil, fmt.Errorf("mpds: entry %s: %w", R.Entry, err)
	}
	frac := v3.Zeros(len(R.Basis))
	numbers := make([]int, len(R.Basis))
	for i, b := range R.Basis {
		if len(b) != 3 {
			return nil, fmt.Errorf("mpds: entry %s: site %d has %d coordinates", R.Entry, i, len(b))
		}
		frac.SetVec(i, [3]float64{b[0], b[1], b[2]})
		if numbers[i], err = crystal.Symbol2Number(R.Elements[i]); err != nil {
			return nil, fmt.Errorf("mpds: entry %s: %w", R.Entry, err)
		}
	}
	rhombohedral := crystal.RhombohedralGroup(R.SpaceGroup) && math.Abs(R.CellABC[5]-120) > 1e-3
	ops, err := crystal.SpaceGroupOps(R.SpaceGroup, rhombohedral)
	if err != nil {
		return nil, fmt.Errorf("mpds: entry %s: %w", R.Entry, err)
	}
	var occs []float64
	if len(R.Occs) == len(R.Basis) {
		occs = R.Occs
	}
	s, err := crystal.ExpandBasis(cell, frac, numbers, occs, ops, crystal.SiteTolerance)
	if err != nil {
		return nil, fmt.Errorf("mpds: entry %s: %w", R.Entry, err)
	}
	s.SetInfo("entry", R.Entry)
	s.SetInfo("sg_n", strconv.Itoa(R.SpaceGroup))
	return s, nil
}

//CompileAll compiles the rows, skipping the empty ones and those that don't
//give a structure, so the returned structures and metadata rows are aligned
//one to one. Errors in single rows are collected in the last return value,
//and the offending rows are skipped.
func CompileAll(rows []Row) ([]*crystal.Structure, []crystal.Row, []error) {
	structs := make([]*crystal.Structure, 0, len(rows))
	meta := make([]crystal.Row, 0, len(rows))
	var errs []error
	for i := range rows {
		if rows[i].Empty() {
			continue
		}
		s, err := Compile(&rows[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s == nil {
			continue
		}
		structs = append(structs, s)
		meta = append(meta, rows[i].Meta())
	}
	return structs, meta, errs
}
