/*
 * props.go, part of gocrystal.
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

package mpds

import "sort"

//PropsFolders maps each ab initio property in MPDS to the sub-folder,
//inside the raw-data archive of an entry, that holds the data for it.
var PropsFolders = map[string]string{
	"electrical conductivity":            "TRANSPORT/SIGMA.DAT",
	"Seebeck coefficient":                "TRANSPORT/SEEBECK.DAT",
	"enthalpy of formation":              "HFORM",
	"vibrational spectra":                "PHONON",
	"infrared spectra":                   "PHONON",
	"Raman spectra":                      "PHONON",
	"heat capacity at constant pressure": "PHONON",
	"isothermal bulk modulus":            "ELASTIC",
	"poisson ratio":                      "ELASTIC",
	"effective charge":                   "STRUCT",
	"energy gap for direct transition":   "STRUCT",
	"energy gap for indirect transition": "STRUCT",
	"energy gap":                         "STRUCT",
	"magnetic moment":                    "STRUCT",
}

//AbInitioProps returns the names of the properties in PropsFolders, sorted.
func AbInitioProps() []string {
	ret := make([]string, 0, len(PropsFolders))
	for k := range PropsFolders {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
