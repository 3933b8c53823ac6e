/*
 * interfaces.go, part of gocrystal.
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

import v3 "github.com/rmera/gocrystal/v3"

// Atomer is anything with a list of atoms that have an element symbol.
type Atomer interface {

	//Symbol returns the element symbol of atom i. Should panic if
	//out of range.
	Symbol(i int) string

	Len() int
}

// Lattice is a periodic set of atoms, as needed by the input writers.
type Lattice interface {
	Atomer

	//Number returns the atomic number of atom i.
	Number(i int) int

	//Cell returns the lattice vectors, one per row.
	Cell() *v3.Matrix

	//Cartesian returns the cartesian coordinates of the atoms.
	Cartesian() *v3.Matrix

	//Frac returns the fractional coordinates of the atoms.
	Frac() *v3.Matrix
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string
}
