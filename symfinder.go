/*
 * symfinder.go, part of gocrystal.
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
	"math"
	"sort"

	v3 "github.com/rmera/gocrystal/v3"
)

const appzero float64 = 0.000000000001

//TranslationFinder finds primitive cells by looking for the pure translations
//that map a structure onto itself. It does not determine the space group, so
//the primitive cell it returns is not standardized: its lattice vectors are
//the shortest independent lattice vectors found, in a right-handed setting.
//A structure that is already primitive is returned in its own cell.
type TranslationFinder struct{}

//FindPrimitive returns the primitive cell of the structure given by cell, frac
//and numbers. It returns false for empty or inconsistent input, singular cells,
//overlapping atoms, or if no consistent primitive lattice can be built.
func (T TranslationFinder) FindPrimitive(cell, frac *v3.Matrix, numbers []int, symprec float64) (*PrimitiveCell, bool) {
	n := len(numbers)
	if n == 0 || cell == nil || frac == nil || frac.NVecs() != n {
		return nil, false
	}
	if r, c := cell.Dims(); r != 3 || c != 3 {
		return nil, false
	}
	if v3.Volume(cell) <= appzero {
		return nil, false
	}
	if symprec <= 0 {
		symprec = DefaultSymprec
	}
	pos := make([][3]float64, n)
	for i := range pos {
		pos[i] = v3.WrapVec(frac.Vec(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v3.CartDistance(v3.MinImage(v3.Sub(pos[i], pos[j])), cell) < symprec {
				return nil, false
			}
		}
	}
	ref := leastAbundant(numbers)
	trans := make([][3]float64, 0, n)
	for i := 0; i < n; i++ {
		if i == ref || numbers[i] != numbers[ref] {
			continue
		}
		t := v3.MinImage(v3.Sub(pos[i], pos[ref]))
		if isTranslation(t, pos, numbers, cell, symprec) {
			trans = append(trans, t)
		}
	}
	if len(trans) == 0 {
		f := v3.Zeros(n)
		for i, p := range pos {
			f.SetVec(i, p)
		}
		return &PrimitiveCell{Cell: cell.Clone(), Frac: f, Numbers: append([]int(nil), numbers...)}, true
	}
	ntrans := len(trans) + 1
	if n%ntrans != 0 {
		return nil, false
	}
	P, ok := primitiveBasis(trans, cell, 1/float64(ntrans))
	if !ok {
		return nil, false
	}
	pinv, err := v3.Inverse(P)
	if err != nil {
		return nil, false
	}
	pcell := v3.Zeros(3)
	pcell.Dense.Mul(P.Dense, cell.Dense)
	newpos := make([][3]float64, n)
	for i, p := range pos {
		newpos[i] = v3.VecMul(p, pinv)
	}
	taken := make([]bool, n)
	reps := make([]int, 0, n/ntrans)
	for i := 0; i < n; i++ {
		if taken[i] {
			continue
		}
		reps = append(reps, i)
		for k := i; k < n; k++ {
			if taken[k] || numbers[k] != numbers[i] {
				continue
			}
			if v3.CartDistance(v3.MinImage(v3.Sub(newpos[k], newpos[i])), pcell) < symprec {
				taken[k] = true
			}
		}
	}
	if len(reps) != n/ntrans {
		return nil, false
	}
	pfrac := v3.Zeros(len(reps))
	pnum := make([]int, len(reps))
	for j, i := range reps {
		pfrac.SetVec(j, v3.WrapVec(newpos[i]))
		pnum[j] = numbers[i]
	}
	return &PrimitiveCell{Cell: pcell, Frac: pfrac, Numbers: pnum}, true
}

//leastAbundant returns the index of the first atom of the
//least abundant species.
func leastAbundant(numbers []int) int {
	count := make(map[int]int)
	for _, v := range numbers {
		count[v]++
	}
	ref := 0
	for i, v := range numbers {
		if count[v] < count[numbers[ref]] {
			ref = i
		}
	}
	return ref
}

//isTranslation returns true if the fractional translation t maps every atom onto
//an atom of the same species.
func isTranslation(t [3]float64, pos [][3]float64, numbers []int, cell *v3.Matrix, symprec float64) bool {
	for k, p := range pos {
		moved := v3.Add(p, t)
		found := false
		for m, q := range pos {
			if numbers[m] != numbers[k] {
				continue
			}
			if v3.CartDistance(v3.MinImage(v3.Sub(moved, q)), cell) < symprec {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

//primitiveBasis returns a 3x3 matrix whose rows are the primitive lattice
//vectors, in fractional coordinates of the original cell. The vectors are
//picked, shortest first, among the translations and the original lattice
//vectors shifted by -1, 0 or 1 along each axis, so that their determinant
//equals detwant.
func primitiveBasis(trans [][3]float64, cell *v3.Matrix, detwant float64) (*v3.Matrix, bool) {
	all := append([][3]float64{{0, 0, 0}}, trans...)
	cands := make([][3]float64, 0, 27*len(all))
	for _, t := range all {
		for a := -1.0; a <= 1; a++ {
			for b := -1.0; b <= 1; b++ {
				for c := -1.0; c <= 1; c++ {
					v := v3.Add(t, [3]float64{a, b, c})
					if v3.Norm(v) <= appzero {
						continue
					}
					cands = append(cands, v)
				}
			}
		}
	}
	lengths := make([]float64, len(cands))
	carts := make([][3]float64, len(cands))
	for i, v := range cands {
		carts[i] = v3.VecMul(v, cell)
		lengths[i] = v3.Norm(carts[i])
	}
	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return lengths[order[i]] < lengths[order[j]] })
	first := order[0]
	for _, second := range order[1:] {
		cr := v3.Norm(v3.Cross(carts[first], carts[second]))
		if cr <= 1e-8*lengths[first]*lengths[second] {
			continue
		}
		for _, third := range order[1:] {
			if third == second {
				continue
			}
			d := v3.Triple(cands[first], cands[second], cands[third])
			if math.Abs(math.Abs(d)-detwant) > 1e-6 {
				continue
			}
			c3 := cands[third]
			if d < 0 {
				c3 = [3]float64{-c3[0], -c3[1], -c3[2]}
			}
			return v3.CellFromVecs(cands[first], cands[second], c3), true
		}
	}
	return nil, false
}
