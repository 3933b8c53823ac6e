/*
 * v3_test.go, part of gocrystal.
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

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("a slice of length 2 should not make a Matrix")
	}
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	A.SetVec(1, [3]float64{100, 5, 6})
	if A.At(1, 0) != 100 || A.Vec(1) != [3]float64{100, 5, 6} {
		Te.Errorf("SetVec gave the wrong vector: %v", A)
	}
	if len(A.Flat()) != 6 || A.Flat()[4] != 5 {
		Te.Errorf("Flat gave the wrong slice: %v", A.Flat())
	}
}

func TestFracCart(Te *testing.T) {
	cell := CellFromVecs([3]float64{2, 0, 0}, [3]float64{1, 2, 0}, [3]float64{0, 0, 3})
	frac, _ := NewMatrix([]float64{0.5, 0.5, 0.5, 0, 0, 0})
	cart := Frac2Cart(frac, cell)
	if cart.Vec(0) != [3]float64{1.5, 1, 1.5} {
		Te.Errorf("wrong cartesian coordinates %v", cart)
	}
	back, err := Cart2Frac(cart, cell)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(back.At(0, i)-0.5) > 1e-12 {
			Te.Errorf("round trip failed: %v", back)
		}
	}
	if v := Volume(cell); math.Abs(v-12) > 1e-12 {
		Te.Errorf("expected volume 12, got %f", v)
	}
}

func TestSingular(Te *testing.T) {
	cell := CellFromVecs([3]float64{1, 0, 0}, [3]float64{2, 0, 0}, [3]float64{0, 0, 1})
	if _, err := Inverse(cell); err == nil {
		Te.Error("a singular cell should not be inverted")
	}
}

func TestMinImageWrap(Te *testing.T) {
	d := MinImage([3]float64{0.7, -0.7, 0.5})
	want := [3]float64{-0.3, 0.3, 0.5}
	for i := range d {
		if math.Abs(d[i]-want[i]) > 1e-12 {
			Te.Errorf("MinImage component %d: got %f want %f", i, d[i], want[i])
		}
	}
	if w := Wrap(-0.25); w != 0.75 {
		Te.Errorf("Wrap(-0.25)=%f", w)
	}
	if w := Wrap(-1e-20); w != 0 {
		Te.Errorf("Wrap of a tiny negative number should be 0, got %g", w)
	}
	if t := Triple([3]float64{1, 0, 0}, [3]float64{0, 1, 0}, [3]float64{0, 0, 1}); t != 1 {
		Te.Errorf("Triple product of the unit vectors is %f", t)
	}
}
