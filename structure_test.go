/*
 * structure_test.go, part of gocrystal.
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
	"math"
	"testing"

	v3 "github.com/rmera/gocrystal/v3"
)

func TestNewStructure(Te *testing.T) {
	cell := v3.CellFromVecs([3]float64{2, 0, 0}, [3]float64{0, 2, 0}, [3]float64{0, 0, 2})
	cart, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 1, 1})
	s, err := NewStructureCartesian(cell, cart, []int{55, 17})
	if err != nil {
		Te.Fatal(err)
	}
	if f := s.Frac().Vec(1); f != [3]float64{0.5, 0.5, 0.5} {
		Te.Errorf("wrong fractional coordinates %v", f)
	}
	if s.Symbol(0) != "Cs" || s.Formula() != "ClCs" {
		Te.Errorf("wrong symbols: %v %s", s.Symbols(), s.Formula())
	}
	if s.Occupancy(1) != 1 {
		Te.Error("occupancies should default to 1")
	}
	if _, err := NewStructure(cell, cart, []int{55}); err == nil {
		Te.Error("mismatched numbers and positions should be an error")
	}
	if _, err := NewStructureSymbols(cell, cart, []string{"Cs", "Xx"}); err == nil {
		Te.Error("unknown symbols should be an error")
	}
	if math.Abs(s.Volume()-8) > 1e-12 {
		Te.Errorf("wrong volume %f", s.Volume())
	}
}

func TestStructureCopies(Te *testing.T) {
	s := fccCu(Te)
	c := s.Cell()
	c.Set(0, 0, 100)
	if s.Cell().At(0, 0) == 100 {
		Te.Error("Cell should return a copy")
	}
	s.SetInfo("sg_n", "225")
	if err := s.SetArray("charges", NewArray([]float64{1, 2, 3, 4})); err != nil {
		Te.Fatal(err)
	}
	if err := s.SetArray("positions", NewArray([]float64{1, 2, 3, 4})); err == nil {
		Te.Error("reserved array names should be rejected")
	}
	d := s.Copy()
	d.SetInfo("sg_n", "1")
	if v, _ := s.Info("sg_n"); v != "225" {
		Te.Error("Copy should not share the metadata")
	}
	if names := d.ArrayNames(); len(names) != 1 || names[0] != "charges" {
		Te.Errorf("wrong array names %v", names)
	}
	if s.Formula() != "Cu4" {
		Te.Errorf("wrong formula %s", s.Formula())
	}
}

func TestFormulaHill(Te *testing.T) {
	cell := v3.CellFromVecs([3]float64{5, 0, 0}, [3]float64{0, 5, 0}, [3]float64{0, 0, 5})
	frac, _ := v3.NewMatrix([]float64{0, 0, 0, 0.1, 0, 0, 0.2, 0, 0, 0.3, 0, 0, 0.4, 0, 0})
	s, err := NewStructureSymbols(cell, frac, []string{"O", "H", "C", "H", "N"})
	if err != nil {
		Te.Fatal(err)
	}
	if f := s.Formula(); f != "CH2NO" {
		Te.Errorf("expected CH2NO, got %s", f)
	}
	if e := s.Elements(); len(e) != 4 || e[0] != "O" {
		Te.Errorf("wrong elements %v", e)
	}
	if GuessMetal(s) {
		Te.Error("an organic compound is not a metal")
	}
	if !GuessMetal(fccCu(Te)) {
		Te.Error("copper is a metal")
	}
	if m := Missing(s, []string{"C", "H"}); len(m) != 2 || m[0] != "O" || m[1] != "N" {
		Te.Errorf("wrong missing elements %v", m)
	}
}

func TestSameStructures(Te *testing.T) {
	entries := []Entry{
		{"S1", "Cu", 225},
		{"S2", "Cu", 229},
		{"S3", "Cu", 225},
		{"S4", "Fe", 225},
	}
	same := SameStructures(entries)
	if len(same) != 2 || same[1].ID != "S3" {
		Te.Errorf("wrong entries %v", same)
	}
	if SameStructures(nil) != nil {
		Te.Error("no entries should give nil")
	}
}

func TestCandidateSummary(Te *testing.T) {
	s := fccCu(Te)
	s.SetInfo("sg_n", "225")
	e := Candidate{Structure: s, Row: Row{Entry: "S1"}}.Summary()
	if e != (Entry{"S1", "Cu4", 225}) {
		Te.Errorf("wrong summary %v", e)
	}
	if e := (Candidate{Row: Row{Entry: "S2"}}).Summary(); e != (Entry{ID: "S2"}) {
		Te.Errorf("wrong summary without a structure %v", e)
	}
}

func TestSymbols(Te *testing.T) {
	if n, err := Symbol2Number("Og"); err != nil || n != 118 {
		Te.Errorf("Og should be 118, got %d %v", n, err)
	}
	if Number2Symbol(26) != "Fe" || Number2Symbol(500) != "X" {
		Te.Error("wrong symbols")
	}
}
