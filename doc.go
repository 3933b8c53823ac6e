/*
 * doc.go, part of gocrystal.
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

/*Package crystal is the main package of the goCrystal library. It provides a periodic
crystal structure type and the tools to go from the structures a database query returns
to the input of an ab-initio calculation.



	**goCrystal Capabilities**


    Holds crystal structures: lattice, fractional coordinates, atomic numbers, site
	occupancies, per-atom auxiliary arrays (charges, moments...) and metadata.

    Selects one representative structure out of the candidates returned by a
	query: fewest atoms first, then the cell closest to the median cell, then
	full site occupancy.

    Reduces structures to their primitive cell, mapping every primitive atom back
	to the original one so the per-atom data is carried over. The symmetry search
	is pluggable through the SymFinder interface; a pure-Go implementation that
	looks for the pure translations of the structure is provided.

    Reads MPDS records and queries the MPDS API (package mpds).

    Writes CRYSTAL (fort.34/INPUT) and Fleur (inpgen) input and recovers energies,
	timings and errors from the outputs (package qm).

    Keeps a small SQLite database of results (package results).


goCrystal uses the v3.Matrix type, based on gonum's Dense, for lattices and coordinates.
Each row of a v3.Matrix represents one vector (a lattice vector or the position of an atom).*/
package crystal
