/*
 * qm.go, part of gocrystal.
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

package qm

import (
	"errors"

	crystal "github.com/rmera/gocrystal"
)

//Unit conversions.
const (
	Hartree2eV  = 27.211386245988
	Bohr2Angstr = 0.529177210903
)

//ErrProbableProblem is returned, together with the result, when a value
//could be read from an output, but the calculation didn't end properly.
var ErrProbableProblem = errors.New("qm: probable problem in calculation")

//Handle prepares ab initio calculations with a given program.
type Handle interface {

	//SetName sets the label of the job. It goes into the title
	//of the input.
	SetName(name string)

	//Validate returns an error if the program can't be set up
	//for the structure, for instance, because there is no basis
	//set for one of its elements.
	Validate(S *crystal.Structure) error

	//BuildInput writes the input files for the structure in dir.
	BuildInput(S *crystal.Structure, dir string) error
}

//Output holds the results of a finished calculation.
type Output struct {
	Label    string
	Energy   float64 //total energy, eV
	Duration float64 //wall time, seconds
}
