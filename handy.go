/*
 * handy.go, part of gocrystal.
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

import "strconv"

//GuessMetal makes an educated guess of the metallic character of a compound:
//it returns true if none of its elements is a non-metal.
func GuessMetal(mol Atomer) bool {
	for i := 0; i < mol.Len(); i++ {
		if nonMetals[mol.Symbol(i)] {
			return false
		}
	}
	return true
}

//Entry is the summary of a database record, as used by SameStructures.
type Entry struct {
	ID         string
	Formula    string
	SpaceGroup int
}

//Summary returns the database summary of the candidate. The space group
//is read from the sg_n info key of the structure, and is 0 if unknown.
func (C Candidate) Summary() Entry {
	e := Entry{ID: C.Row.Entry}
	if C.Structure == nil {
		return e
	}
	e.Formula = C.Structure.Formula()
	if sg, ok := C.Structure.Info("sg_n"); ok {
		e.SpaceGroup, _ = strconv.Atoi(sg)
	}
	return e
}

//SameStructures returns the entries that have the same chemical formula
//and space group as the first entry, in their original order.
func SameStructures(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	ret := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.SpaceGroup == entries[0].SpaceGroup && e.Formula == entries[0].Formula {
			ret = append(ret, e)
		}
	}
	return ret
}

//Some internal convenience functions.

//isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

//Missing returns the elements of mol that are not in the list available,
//in order of first appearance.
func Missing(mol Atomer, available []string) []string {
	var ret []string
	for i := 0; i < mol.Len(); i++ {
		s := mol.Symbol(i)
		if !isInString(available, s) && !isInString(ret, s) {
			ret = append(ret, s)
		}
	}
	return ret
}
