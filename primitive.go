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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package crystal

import (
	"fmt"

	v3 "github.com/rmera/gocrystal/v3"
)

//DefaultSymprec is the default tolerance, in Angstrom, for the symmetry
//search and for the atom mapping in to the primitive cell.
const DefaultSymprec = 1e-5

//PrimitiveCell is the result of a primitive cell search.
type PrimitiveCell struct {
	Cell    *v3.Matrix
	Frac    *v3.Matrix
	Numbers []int
}

//SymFinder finds the primitive cell of a structure given as a cell, fractional
//coordinates and atomic numbers. The second return value is false if no
//primitive cell could be determined.
type SymFinder interface {
	FindPrimitive(cell, frac *v3.Matrix, numbers []int, symprec float64) (*PrimitiveCell, bool)
}

//MappingError is returned when an atom of the primitive cell can't be
//traced back to an atom of the original structure. A looser tolerance may
//help.
type MappingError struct {
	Index     int     //index of the primitive atom
	Number    int     //its atomic number
	Tolerance float64 //tolerance used
	Duplicate bool    //in strict mode, the original atom was already taken
	Reused    int     //the original atom taken, if Duplicate
	deco      []string
}

func (err *MappingError) Error() string {
	if err.Duplicate {
		return fmt.Sprintf("goCrystal: atom mapping failed at index %d: original atom %d already mapped", err.Index, err.Reused)
	}
	return fmt.Sprintf("goCrystal: atom mapping failed at index %d (%s, tolerance %g). Try increasing the tolerance", err.Index, Number2Symbol(err.Number), err.Tolerance)
}

//Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *MappingError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Reducer converts structures to their primitive cell, keeping the per-atom
//data. If Finder is nil, a TranslationFinder is used. A Tolerance <= 0 means
//DefaultSymprec. In Strict mode two primitive atoms may not map to the same
//original atom.
type Reducer struct {
	Finder    SymFinder
	Tolerance float64
	Strict    bool
}

//ToPrimitive reduces S to its primitive cell with a TranslationFinder and the
//given tolerance. See Reducer.Primitive.
func ToPrimitive(S *Structure, tolerance float64) (*Structure, bool, error) {
	r := &Reducer{Tolerance: tolerance}
	return r.Primitive(S)
}

func (R *Reducer) tolerance() float64 {
	if R.Tolerance <= 0 {
		return DefaultSymprec
	}
	return R.Tolerance
}

//Primitive returns the primitive cell of S, with the occupancies, auxiliary
//arrays and metadata of S carried over to the new atoms. The second return
//value is false, with a nil error, if the finder found no primitive cell. An
//atom that can't be mapped back to S causes a *MappingError.
func (R *Reducer) Primitive(S *Structure) (*Structure, bool, error) {
	var finder SymFinder = TranslationFinder{}
	if R.Finder != nil {
		finder = R.Finder
	}
	tol := R.tolerance()
	prim, ok := finder.FindPrimitive(S.Cell(), S.Frac(), S.Numbers(), tol)
	if !ok || prim == nil {
		return nil, false, nil
	}
	mapping, err := R.Mapping(S, prim)
	if err != nil {
		return nil, false, err
	}
	ret, err := NewStructure(prim.Cell, prim.Frac, prim.Numbers)
	if err != nil {
		return nil, false, fmt.Errorf("goCrystal: Primitive: %w", err)
	}
	for k, v := range S.info {
		ret.info[k] = v
	}
	occ := make([]float64, len(mapping))
	for j, i := range mapping {
		occ[j] = S.occupancy[i]
	}
	ret.occupancy = occ
	for _, name := range S.ArrayNames() {
		A := S.arrays[name]
		if !A.Valid() || A.Length != S.Len() {
			continue
		}
		ret.arrays[name] = A.Select(mapping)
	}
	return ret, true, nil
}

//Mapping returns, for each atom of prim, the index of the atom of S it
//corresponds to: the first atom of S with the same atomic number whose
//minimum-image distance, in the cell of S, is below the tolerance.
func (R *Reducer) Mapping(S *Structure, prim *PrimitiveCell) ([]int, error) {
	tol := R.tolerance()
	if prim.Frac.NVecs() != len(prim.Numbers) {
		return nil, fmt.Errorf("goCrystal: Mapping: %d primitive positions but %d atomic numbers", prim.Frac.NVecs(), len(prim.Numbers))
	}
	primcart := v3.Frac2Cart(prim.Frac, prim.Cell)
	inorig, err := v3.Cart2Frac(primcart, S.cell)
	if err != nil {
		return nil, fmt.Errorf("goCrystal: Mapping: %w", err)
	}
	mapping := make([]int, len(prim.Numbers))
	used := make([]bool, S.Len())
	for j, num := range prim.Numbers {
		pj := inorig.Vec(j)
		found := -1
		for i := 0; i < S.Len(); i++ {
			if S.numbers[i] != num {
				continue
			}
			d := v3.MinImage(v3.Sub(S.frac.Vec(i), pj))
			if v3.CartDistance(d, S.cell) < tol {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, &MappingError{Index: j, Number: num, Tolerance: tol}
		}
		if R.Strict && used[found] {
			return nil, &MappingError{Index: j, Number: num, Tolerance: tol, Duplicate: true, Reused: found}
		}
		used[found] = true
		mapping[j] = found
	}
	return mapping, nil
}
