/*
 * atomicdata.go, part of gocrystal.
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

import "fmt"

//symbols holds the element symbols, indexed by atomic number.
//Index 0 is the "X" dummy atom.
var symbols = [...]string{
	"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var symbolNumber = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[s] = i
	}
	return m
}()

//The elements that make a compound non-metallic in GuessMetal.
var nonMetals = map[string]bool{
	"H": true, "He": true,
	"Be": true, "B": true, "C": true, "N": true, "O": true, "F": true, "Ne": true,
	"Si": true, "P": true, "S": true, "Cl": true, "Ar": true,
	"Ge": true, "As": true, "Se": true, "Br": true, "Kr": true,
	"Sb": true, "Te": true, "I": true, "Xe": true,
	"Po": true, "At": true, "Rn": true,
	"Og": true,
}

//Symbol2Number returns the atomic number for the element symbol s.
func Symbol2Number(s string) (int, error) {
	n, ok := symbolNumber[s]
	if !ok {
		return 0, fmt.Errorf("goCrystal: unknown element symbol %q", s)
	}
	return n, nil
}

//Number2Symbol returns the element symbol for the atomic number n,
//or "X" if n is out of range.
func Number2Symbol(n int) string {
	if n < 0 || n >= len(symbols) {
		return "X"
	}
	return symbols[n]
}
