/*
 * primitive_test.go, part of gocrystal.
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

package crystal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	v3 "github.com/rmera/gocrystal/v3"
)

//cubicStructure returns a cubic structure with lattice parameter a.
func cubicStructure(Te *testing.T, a float64, frac []float64, syms []string) *Structure {
	Te.Helper()
	cell := v3.CellFromVecs([3]float64{a, 0, 0}, [3]float64{0, a, 0}, [3]float64{0, 0, a})
	f, err := v3.NewMatrix(frac)
	if err != nil {
		Te.Fatal(err)
	}
	s, err := NewStructureSymbols(cell, f, syms)
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

func fccCu(Te *testing.T) *Structure {
	return cubicStructure(Te, 3.61, []float64{0, 0, 0, 0, 0.5, 0.5, 0.5, 0, 0.5, 0.5, 0.5, 0}, []string{"Cu", "Cu", "Cu", "Cu"})
}

func rockSalt(Te *testing.T) *Structure {
	return cubicStructure(Te, 5.64, []float64{
		0, 0, 0, 0, 0.5, 0.5, 0.5, 0, 0.5, 0.5, 0.5, 0,
		0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5, 0.5, 0.5, 0.5},
		[]string{"Na", "Na", "Na", "Na", "Cl", "Cl", "Cl", "Cl"})
}

func volPerAtom(s *Structure) float64 {
	return s.Volume() / float64(s.Len())
}

//fixedFinder returns always the same primitive cell.
type fixedFinder struct {
	prim *PrimitiveCell
	ok   bool
}

func (F fixedFinder) FindPrimitive(cell, frac *v3.Matrix, numbers []int, symprec float64) (*PrimitiveCell, bool) {
	return F.prim, F.ok
}

var _ Error = &MappingError{}

func TestPrimitiveNotFound(Te *testing.T) {
	r := &Reducer{Finder: fixedFinder{nil, false}}
	p, ok, err := r.Primitive(fccCu(Te))
	if p != nil || ok || err != nil {
		Te.Errorf("no primitive should be a plain absence, got %v %v %v", p, ok, err)
	}
}

func TestPrimitiveFCC(Te *testing.T) {
	s := fccCu(Te)
	s.SetInfo("entry", "S1234")
	if err := s.SetArray("charges", NewArray([]float64{0.1, 0.2, 0.3, 0.4})); err != nil {
		Te.Fatal(err)
	}
	moments := &Array{Length: 4, Width: 3, Data: []float64{0, 0, 1, 0, 0, 2, 0, 0, 3, 0, 0, 4}}
	if err := s.SetArray("moments", moments); err != nil {
		Te.Fatal(err)
	}
	p, ok, err := ToPrimitive(s, DefaultSymprec)
	if err != nil || !ok {
		Te.Fatalf("primitive search failed: %v %v", ok, err)
	}
	if p.Len() != 1 {
		Te.Errorf("primitive FCC should have 1 atom, got %d", p.Len())
	}
	if math.Abs(volPerAtom(p)-volPerAtom(s)) > 1e-3 {
		Te.Errorf("volume per atom changed: %f vs %f", volPerAtom(p), volPerAtom(s))
	}
	if e, _ := p.Info("entry"); e != "S1234" {
		Te.Errorf("metadata not copied: %q", e)
	}
	r := &Reducer{}
	prim, _ := TranslationFinder{}.FindPrimitive(s.Cell(), s.Frac(), s.Numbers(), DefaultSymprec)
	mapping, err := r.Mapping(s, prim)
	if err != nil {
		Te.Fatal(err)
	}
	ch := p.Array("charges")
	mo := p.Array("moments")
	orig := s.Array("moments")
	for j, i := range mapping {
		if ch.Data[j] != s.Array("charges").Data[i] {
			Te.Errorf("charge %d: got %f want %f", j, ch.Data[j], s.Array("charges").Data[i])
		}
		if fmt.Sprint(mo.Atom(j)) != fmt.Sprint(orig.Atom(i)) {
			Te.Errorf("moment %d: got %v want %v", j, mo.Atom(j), orig.Atom(i))
		}
	}
}

func TestPrimitiveRockSalt(Te *testing.T) {
	s := rockSalt(Te)
	p, ok, err := ToPrimitive(s, DefaultSymprec)
	if err != nil || !ok {
		Te.Fatalf("primitive search failed: %v %v", ok, err)
	}
	if p.Len() != 2 || p.Formula() != "ClNa" {
		Te.Errorf("primitive rock salt should be NaCl with 2 atoms, got %s", p)
	}
	if math.Abs(volPerAtom(p)-volPerAtom(s)) > 1e-3 {
		Te.Errorf("volume per atom changed: %f vs %f", volPerAtom(p), volPerAtom(s))
	}
}

//supercell repeats s n times along the first lattice vector.
func supercell(Te *testing.T, s *Structure, n int) *Structure {
	Te.Helper()
	cell := s.Cell()
	a := cell.Vec(0)
	cell.SetVec(0, [3]float64{a[0] * float64(n), a[1] * float64(n), a[2] * float64(n)})
	frac := v3.Zeros(s.Len() * n)
	numbers := make([]int, 0, s.Len()*n)
	k := 0
	for c := 0; c < n; c++ {
		for i := 0; i < s.Len(); i++ {
			f := s.frac.Vec(i)
			frac.SetVec(k, [3]float64{(f[0] + float64(c)) / float64(n), f[1], f[2]})
			numbers = append(numbers, s.Number(i))
			k++
		}
	}
	ret, err := NewStructure(cell, frac, numbers)
	if err != nil {
		Te.Fatal(err)
	}
	return ret
}

func TestPrimitiveRoundTrip(Te *testing.T) {
	//CsCl is primitive already.
	orig := cubicStructure(Te, 4.12, []float64{0, 0, 0, 0.5, 0.5, 0.5}, []string{"Cs", "Cl"})
	conv := supercell(Te, orig, 3)
	conv.SetInfo("entry", "S1")
	conv.SetInfo("sg_n", "221")
	p, ok, err := ToPrimitive(conv, DefaultSymprec)
	if err != nil || !ok {
		Te.Fatalf("primitive search failed: %v %v", ok, err)
	}
	p2, ok, err := ToPrimitive(p, DefaultSymprec)
	if err != nil || !ok {
		Te.Fatalf("second primitive search failed: %v %v", ok, err)
	}
	for _, s := range []*Structure{p, p2} {
		if s.Len() != orig.Len() {
			Te.Errorf("expected %d atoms, got %d", orig.Len(), s.Len())
		}
		if math.Abs(volPerAtom(s)-volPerAtom(orig)) > 1e-3 {
			Te.Errorf("volume per atom changed: %f vs %f", volPerAtom(s), volPerAtom(orig))
		}
		for k, want := range map[string]string{"entry": "S1", "sg_n": "221"} {
			if v, ok := s.Info(k); !ok || v != want {
				Te.Errorf("info %s not preserved: %q", k, v)
			}
		}
	}
	//bcc iron
	fe := cubicStructure(Te, 2.87, []float64{0, 0, 0, 0.5, 0.5, 0.5}, []string{"Fe", "Fe"})
	p, ok, err = ToPrimitive(fe, DefaultSymprec)
	if err != nil || !ok || p.Len() != 1 {
		Te.Fatalf("bcc Fe should reduce to one atom: %v %v %v", p, ok, err)
	}
	if math.Abs(volPerAtom(p)-volPerAtom(fe)) > 1e-3 {
		Te.Errorf("volume per atom changed: %f vs %f", volPerAtom(p), volPerAtom(fe))
	}
}

func TestPrimitiveDeterministic(Te *testing.T) {
	s := rockSalt(Te)
	p1, _, _ := ToPrimitive(s, DefaultSymprec)
	p2, _, _ := ToPrimitive(s, DefaultSymprec)
	if fmt.Sprint(p1.Cell(), p1.Frac(), p1.Numbers()) != fmt.Sprint(p2.Cell(), p2.Frac(), p2.Numbers()) {
		Te.Error("two reductions of the same structure differ")
	}
}

func TestMappingFailure(Te *testing.T) {
	s := fccCu(Te)
	frac, _ := v3.NewMatrix([]float64{0, 0, 0})
	bad := &PrimitiveCell{Cell: s.Cell(), Frac: frac, Numbers: []int{26}} //Fe, not Cu
	r := &Reducer{Finder: fixedFinder{bad, true}}
	p, ok, err := r.Primitive(s)
	if err == nil || p != nil || ok {
		Te.Fatal("a primitive atom with no original counterpart should be an error")
	}
	var merr *MappingError
	if !errors.As(err, &merr) {
		Te.Fatalf("expected a *MappingError, got %T: %v", err, err)
	}
	if merr.Index != 0 || merr.Duplicate {
		Te.Errorf("wrong error contents: %+v", merr)
	}
	if !strings.Contains(merr.Error(), "Try increasing the tolerance") {
		Te.Errorf("wrong message %q", merr.Error())
	}
	//the zero value is a plain mapping failure
	if msg := (&MappingError{}).Error(); strings.Contains(msg, "already mapped") {
		Te.Errorf("the zero error should not report a reused atom: %q", msg)
	}
	//same species, but too far for the tolerance
	far, _ := v3.NewMatrix([]float64{0.25, 0, 0})
	r.Finder = fixedFinder{&PrimitiveCell{Cell: s.Cell(), Frac: far, Numbers: []int{29}}, true}
	if _, _, err := r.Primitive(s); !errors.As(err, &merr) {
		Te.Errorf("expected a *MappingError, got %v", err)
	}
}

func TestMappingReuse(Te *testing.T) {
	s := fccCu(Te)
	frac, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 1, 1})
	twice := &PrimitiveCell{Cell: s.Cell(), Frac: frac, Numbers: []int{29, 29}}
	r := &Reducer{Finder: fixedFinder{twice, true}}
	p, ok, err := r.Primitive(s)
	if err != nil || !ok || p.Len() != 2 {
		Te.Fatalf("first-match mapping should accept reuse: %v %v", ok, err)
	}
	r.Strict = true
	_, _, err = r.Primitive(s)
	var merr *MappingError
	if !errors.As(err, &merr) || !merr.Duplicate || merr.Reused != 0 || merr.Index != 1 {
		Te.Errorf("strict mode should reject the reuse of atom 0, got %v", err)
	}
	if !strings.Contains(err.Error(), "original atom 0 already mapped") {
		Te.Errorf("wrong message %q", err.Error())
	}
}

func TestPrimitiveSkipsStaleArrays(Te *testing.T) {
	s := fccCu(Te)
	if err := s.SetArray("short", NewArray([]float64{1, 2, 3})); err == nil {
		Te.Error("SetArray should reject an array with the wrong length")
	}
	s.arrays["stale"] = &Array{Length: 3, Width: 1, Data: []float64{1, 2, 3}}
	s.arrays["broken"] = &Array{Length: 4, Width: 1, Data: []float64{1, 2}}
	if err := s.SetArray("tags", NewArray([]float64{5, 6, 7, 8})); err != nil {
		Te.Fatal(err)
	}
	if err := s.SetOccupancies([]float64{0.5, 1, 1, 1}); err != nil {
		Te.Fatal(err)
	}
	p, ok, err := ToPrimitive(s, DefaultSymprec)
	if err != nil || !ok {
		Te.Fatalf("primitive search failed: %v %v", ok, err)
	}
	if p.Array("stale") != nil || p.Array("broken") != nil {
		Te.Error("arrays of the wrong length should not be copied")
	}
	if t := p.Array("tags"); t == nil || t.Data[0] != 5 {
		Te.Errorf("valid array not copied: %v", t)
	}
	if p.Occupancy(0) != 0.5 {
		Te.Errorf("occupancy not carried over: %f", p.Occupancy(0))
	}
}
