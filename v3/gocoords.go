/*
 * gocoords.go, part of gocrystal.
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

package v3

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Lattice functions. A cell is always a 3x3 Matrix with one lattice vector per row,
//so a fractional row vector f has cartesian coordinates f*cell.

//Frac2Cart returns the cartesian coordinates for the fractional
//coordinates frac in the lattice cell.
func Frac2Cart(frac, cell *Matrix) *Matrix {
	if r, c := cell.Dims(); r != 3 || c != 3 {
		panic(ErrShape)
	}
	ret := Zeros(frac.NVecs())
	ret.Dense.Mul(frac.Dense, cell.Dense)
	return ret
}

//Cart2Frac returns the fractional coordinates, in the lattice cell,
//of the cartesian coordinates cart. It returns an error if the cell is singular.
func Cart2Frac(cart, cell *Matrix) (*Matrix, error) {
	inv, err := Inverse(cell)
	if err != nil {
		return nil, err
	}
	ret := Zeros(cart.NVecs())
	ret.Dense.Mul(cart.Dense, inv.Dense)
	return ret, nil
}

//Inverse returns the inverse of the 3x3 matrix cell.
func Inverse(cell *Matrix) (*Matrix, error) {
	if r, c := cell.Dims(); r != 3 || c != 3 {
		return nil, Error{string(ErrShape), []string{"Inverse"}}
	}
	if math.Abs(Det(cell)) <= appzero {
		return nil, Error{string(ErrSingular), []string{"Inverse"}}
	}
	inv := Zeros(3)
	if err := inv.Dense.Inverse(cell.Dense); err != nil {
		return nil, Error{"goCrystal/v3: " + err.Error(), []string{"Inverse"}}
	}
	return inv, nil
}

//Volume returns the volume of the cell, i.e. the absolute
//value of its determinant.
func Volume(cell mat.Matrix) float64 {
	return math.Abs(Det(cell))
}

//MinImage returns the minimum image of the fractional difference d,
//each component wrapped by subtracting the nearest integer (ties to even).
func MinImage(d [3]float64) [3]float64 {
	for i, v := range d {
		d[i] = v - math.RoundToEven(v)
	}
	return d
}

//Wrap returns f translated into [0,1).
func Wrap(f float64) float64 {
	w := f - math.Floor(f)
	if w >= 1 {
		w = 0
	}
	return w
}

//WrapVec applies Wrap to each component of v.
func WrapVec(v [3]float64) [3]float64 {
	for i := range v {
		v[i] = Wrap(v[i])
	}
	return v
}

//CartDistance returns the cartesian length of the fractional vector d in
//the given cell.
func CartDistance(d [3]float64, cell *Matrix) float64 {
	c := VecMul(d, cell)
	return floats.Norm(c[:], 2)
}

//VecMul returns the row vector v times the 3x3 matrix cell.
func VecMul(v [3]float64, cell *Matrix) [3]float64 {
	var r [3]float64
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			r[j] += v[k] * cell.At(k, j)
		}
	}
	return r
}

//Cross returns the cross product of a and b.
func Cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

//Sub returns a-b.
func Sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

//Add returns a+b.
func Add(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

//Norm returns the euclidean norm of a.
func Norm(a [3]float64) float64 {
	return floats.Norm(a[:], 2)
}

//Triple returns the scalar triple product a.(b x c)
func Triple(a, b, c [3]float64) float64 {
	x := Cross(b, c)
	return floats.Dot(a[:], x[:])
}

//CellFromVecs builds a cell from three lattice vectors.
func CellFromVecs(a, b, c [3]float64) *Matrix {
	m := Zeros(3)
	m.SetVec(0, a)
	m.SetVec(1, b)
	m.SetVec(2, c)
	return m
}
